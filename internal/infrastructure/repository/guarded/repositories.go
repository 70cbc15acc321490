package guarded

import (
	"context"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

type UserRepository struct {
	next  user.Repository
	guard *Guard
}

func NewUserRepository(next user.Repository, guard *Guard) *UserRepository {
	return &UserRepository{next: next, guard: guard}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	var (
		out    user.User
		exists bool
	)
	err := r.guard.do(ctx, "user.get", func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.GetByUsername(ctx, username)
		return err
	})
	return out, exists, err
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := r.guard.do(ctx, "user.list", func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	if err := validate("user.upsert", item.Validate); err != nil {
		return err
	}
	return r.guard.do(ctx, "user.upsert", func(ctx context.Context) error {
		return r.next.Upsert(ctx, item)
	})
}

func (r *UserRepository) AppendPending(ctx context.Context, username, challengeID string, expectedVersion int64) error {
	return r.guard.do(ctx, "user.append_pending", func(ctx context.Context) error {
		return r.next.AppendPending(ctx, username, challengeID, expectedVersion)
	})
}

func (r *UserRepository) CompleteChallenge(ctx context.Context, input user.CompleteChallengeInput) error {
	return r.guard.do(ctx, "user.complete_challenge", func(ctx context.Context) error {
		return r.next.CompleteChallenge(ctx, input)
	})
}

type TeamRepository struct {
	next  team.Repository
	guard *Guard
}

func NewTeamRepository(next team.Repository, guard *Guard) *TeamRepository {
	return &TeamRepository{next: next, guard: guard}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	var (
		out    team.Team
		exists bool
	)
	err := r.guard.do(ctx, "team.get", func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.GetByID(ctx, teamID)
		return err
	})
	return out, exists, err
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	var out []team.Team
	err := r.guard.do(ctx, "team.list", func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := validate("team.upsert", item.Validate); err != nil {
		return err
	}
	return r.guard.do(ctx, "team.upsert", func(ctx context.Context) error {
		return r.next.Upsert(ctx, item)
	})
}

func (r *TeamRepository) AdmitMember(ctx context.Context, input team.AdmitMemberInput) error {
	return r.guard.do(ctx, "team.admit_member", func(ctx context.Context) error {
		return r.next.AdmitMember(ctx, input)
	})
}

type ChallengeRepository struct {
	next  challenge.Repository
	guard *Guard
}

func NewChallengeRepository(next challenge.Repository, guard *Guard) *ChallengeRepository {
	return &ChallengeRepository{next: next, guard: guard}
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (challenge.Challenge, bool, error) {
	var (
		out    challenge.Challenge
		exists bool
	)
	err := r.guard.do(ctx, "challenge.get", func(ctx context.Context) error {
		var err error
		out, exists, err = r.next.GetByID(ctx, id)
		return err
	})
	return out, exists, err
}

func (r *ChallengeRepository) List(ctx context.Context) ([]challenge.Challenge, error) {
	var out []challenge.Challenge
	err := r.guard.do(ctx, "challenge.list", func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx)
		return err
	})
	return out, err
}

func (r *ChallengeRepository) Upsert(ctx context.Context, item challenge.Challenge) error {
	if err := validate("challenge.upsert", item.Validate); err != nil {
		return err
	}
	return r.guard.do(ctx, "challenge.upsert", func(ctx context.Context) error {
		return r.next.Upsert(ctx, item)
	})
}
