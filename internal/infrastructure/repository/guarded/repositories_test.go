package guarded

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	challengemock "github.com/riskibarqy/challenge-league/internal/mocks/domain/challenge"
	teammock "github.com/riskibarqy/challenge-league/internal/mocks/domain/team"
	usermock "github.com/riskibarqy/challenge-league/internal/mocks/domain/user"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/riskibarqy/challenge-league/internal/usecase"
	"github.com/stretchr/testify/mock"
)

func TestGuard_TimeoutSurfacesAsStoreUnavailable(t *testing.T) {
	t.Parallel()

	next := usermock.NewRepository(t)
	next.On("GetByUsername", mock.Anything, "alice").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(func(ctx context.Context, _ string) (user.User, bool, error) {
			return user.User{}, false, ctx.Err()
		}).
		Once()

	repo := NewUserRepository(next, NewGuard(10*time.Millisecond, nil, nil))

	_, _, err := repo.GetByUsername(context.Background(), "alice")
	if !errors.Is(err, usecase.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline cause to be kept, got %v", err)
	}
}

func TestGuard_VersionConflictPassesThrough(t *testing.T) {
	t.Parallel()

	next := teammock.NewRepository(t)
	next.On("AdmitMember", mock.Anything, mock.Anything).Return(team.ErrVersionConflict).Times(3)

	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	repo := NewTeamRepository(next, NewGuard(time.Second, breaker, nil))

	for i := 0; i < 3; i++ {
		err := repo.AdmitMember(context.Background(), team.AdmitMemberInput{TeamID: "red"})
		if !errors.Is(err, team.ErrVersionConflict) || errors.Is(err, usecase.ErrStoreUnavailable) {
			t.Fatalf("expected bare version conflict, got %v", err)
		}
	}
	if state := breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("conflicts must not trip the breaker, got %s", state)
	}
}

func TestGuard_BreakerOpensOnBackendFailures(t *testing.T) {
	t.Parallel()

	next := usermock.NewRepository(t)
	next.On("List", mock.Anything).Return(nil, errors.New("connection refused")).Twice()

	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	repo := NewUserRepository(next, NewGuard(time.Second, breaker, nil))

	for i := 0; i < 2; i++ {
		if _, err := repo.List(context.Background()); !errors.Is(err, usecase.ErrStoreUnavailable) {
			t.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
	}

	_, err := repo.List(context.Background())
	if !errors.Is(err, resilience.ErrCircuitOpen) || !errors.Is(err, usecase.ErrStoreUnavailable) {
		t.Fatalf("expected open circuit reported as store unavailable, got %v", err)
	}
}

func TestGuard_CanceledCallersDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	next := usermock.NewRepository(t)
	breaker := resilience.NewCircuitBreaker(3, time.Minute, 1)
	repo := NewUserRepository(next, NewGuard(time.Second, breaker, nil))

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		next.On("GetByUsername", mock.Anything, "alice").
			Run(func(mock.Arguments) { cancel() }).
			Return(func(ctx context.Context, _ string) (user.User, bool, error) {
				return user.User{}, false, ctx.Err()
			}).
			Once()

		_, _, err := repo.GetByUsername(ctx, "alice")
		if !errors.Is(err, context.Canceled) || errors.Is(err, usecase.ErrStoreUnavailable) {
			t.Fatalf("expected bare cancellation, got %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := repo.GetByUsername(ctx, "alice"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation before reaching the store, got %v", err)
	}

	if state := breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("cancellations must not trip the breaker, got %s", state)
	}

	next.On("GetByUsername", mock.Anything, "alice").Return(user.User{Username: "alice"}, true, nil).Once()
	got, exists, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil || !exists || got.Username != "alice" {
		t.Fatalf("expected healthy read, got user=%+v exists=%v err=%v", got, exists, err)
	}
}

func TestGuard_UpsertValidationIsInvalidInput(t *testing.T) {
	t.Parallel()

	next := challengemock.NewRepository(t)
	breaker := resilience.NewCircuitBreaker(1, time.Minute, 1)
	repo := NewChallengeRepository(next, NewGuard(time.Second, breaker, nil))

	for i := 0; i < 2; i++ {
		err := repo.Upsert(context.Background(), challenge.Challenge{ID: "run-5k"})
		if !errors.Is(err, usecase.ErrInvalidInput) || errors.Is(err, usecase.ErrStoreUnavailable) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
	if state := breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("validation errors must not trip the breaker, got %s", state)
	}
}
