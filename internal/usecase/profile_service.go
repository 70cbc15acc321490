package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/account"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/leaderboard"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

// Profile is a user record with derived points.
type Profile struct {
	User    user.User
	Points  int64
	IsAdmin bool
}

type ProfileService struct {
	userRepo      user.Repository
	challengeRepo challenge.Repository
}

func NewProfileService(userRepo user.Repository, challengeRepo challenge.Repository) *ProfileService {
	return &ProfileService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
	}
}

func (s *ProfileService) GetSelf(ctx context.Context, actor account.Principal) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.GetSelf")
	defer span.End()

	if !actor.Authenticated() {
		return Profile{}, fmt.Errorf("%w: caller is not authenticated", ErrUnauthorized)
	}

	profile, err := s.load(ctx, actor.Username)
	if err != nil {
		return Profile{}, err
	}
	profile.IsAdmin = actor.IsAdmin
	return profile, nil
}

func (s *ProfileService) GetUser(ctx context.Context, username string) (Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.GetUser")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return Profile{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	return s.load(ctx, username)
}

func (s *ProfileService) load(ctx context.Context, username string) (Profile, error) {
	item, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return Profile{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return Profile{}, fmt.Errorf("%w: user=%s", ErrNotFound, username)
	}

	challenges, err := s.challengeRepo.List(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("list challenges: %w", err)
	}

	return Profile{
		User:   item,
		Points: leaderboard.ComputeUserPoints(item, challenge.NewIndex(challenges)),
	}, nil
}
