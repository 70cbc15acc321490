package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/account"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	operationRequestChallenge = "request_challenge"
	operationAcceptChallenge  = "accept_challenge"
)

type RequestChallengeInput struct {
	Actor       account.Principal
	ChallengeID string
	// At overrides the service clock when set.
	At time.Time
}

type AcceptChallengeInput struct {
	Actor       account.Principal
	Username    string
	ChallengeID string
	At          time.Time
}

// ProgressionService moves challenges from requested to pending to done.
type ProgressionService struct {
	userRepo      user.Repository
	challengeRepo challenge.Repository
	logger        *logging.Logger
	maxAttempts   int
	now           func() time.Time
}

func NewProgressionService(userRepo user.Repository, challengeRepo challenge.Repository, maxAttempts int, logger *logging.Logger) *ProgressionService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	return &ProgressionService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		logger:        logger,
		maxAttempts:   maxAttempts,
		now:           time.Now,
	}
}

// RequestChallenge appends the challenge to the caller's pending list when
// the challenge is active and the caller is under its limit.
func (s *ProgressionService) RequestChallenge(ctx context.Context, input RequestChallengeInput) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.RequestChallenge")
	defer span.End()
	defer func() { metrics.RecordMutation(operationRequestChallenge, mutationOutcome(err)) }()

	if !input.Actor.Authenticated() {
		return fmt.Errorf("%w: caller is not authenticated", ErrUnauthorized)
	}
	if input.Actor.IsAdmin {
		return fmt.Errorf("%w: only players can request challenges", ErrUnauthorized)
	}
	challengeID := strings.TrimSpace(input.ChallengeID)
	if challengeID == "" {
		return fmt.Errorf("%w: challenge id is required", ErrInvalidInput)
	}
	username := input.Actor.Username
	now := s.epoch(input.At)
	span.SetAttributes(attribute.String("challenge.id", challengeID), attribute.String("user.username", username))

	item, exists, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}

	err = retryOnConflict(ctx, s.logger, operationRequestChallenge, s.maxAttempts, func(ctx context.Context) error {
		current, exists, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: user=%s", ErrNotFound, username)
		}

		if err := user.CheckRequest(current, item, now); err != nil {
			return classifyProgressionError(err)
		}

		if err := s.userRepo.AppendPending(ctx, username, challengeID, current.Version); err != nil {
			return fmt.Errorf("append pending challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "challenge requested",
		"username", username,
		"challenge_id", challengeID,
	)
	return nil
}

// AcceptChallenge completes the earliest pending occurrence of a challenge
// for the target user. Only admins may accept.
func (s *ProgressionService) AcceptChallenge(ctx context.Context, input AcceptChallengeInput) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.AcceptChallenge")
	defer span.End()
	defer func() { metrics.RecordMutation(operationAcceptChallenge, mutationOutcome(err)) }()

	if !input.Actor.IsAdmin {
		return fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	username := strings.TrimSpace(input.Username)
	challengeID := strings.TrimSpace(input.ChallengeID)
	if username == "" || challengeID == "" {
		return fmt.Errorf("%w: username and challenge id are required", ErrInvalidInput)
	}
	now := s.epoch(input.At)
	span.SetAttributes(attribute.String("challenge.id", challengeID), attribute.String("user.username", username))

	err = retryOnConflict(ctx, s.logger, operationAcceptChallenge, s.maxAttempts, func(ctx context.Context) error {
		current, exists, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: user=%s", ErrNotFound, username)
		}

		plan, err := user.PlanCompletion(current, challengeID, now)
		if err != nil {
			return classifyProgressionError(err)
		}

		if err := s.userRepo.CompleteChallenge(ctx, plan); err != nil {
			return fmt.Errorf("complete challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "challenge accepted",
		"username", username,
		"challenge_id", challengeID,
		"accepted_by", input.Actor.Username,
	)
	return nil
}

func (s *ProgressionService) epoch(at time.Time) int64 {
	if at.IsZero() {
		at = s.now()
	}
	return at.Unix()
}

func classifyProgressionError(err error) error {
	switch {
	case errors.Is(err, user.ErrChallengeNotActive):
		return fmt.Errorf("%w: %w", ErrChallengeNotActive, err)
	case errors.Is(err, user.ErrChallengeLimitReached):
		return fmt.Errorf("%w: %w", ErrChallengeLimitReached, err)
	case errors.Is(err, user.ErrChallengeNotPending):
		return fmt.Errorf("%w: %w", ErrNotPending, err)
	default:
		return err
	}
}

func mutationOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "rejected"
	}
}
