package user

import (
	"errors"
	"fmt"
	"slices"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
)

var (
	ErrChallengeNotActive     = errors.New("challenge is not active")
	ErrChallengeLimitReached  = errors.New("challenge request limit reached")
	ErrChallengeNotPending    = errors.New("challenge is not pending for user")
	ErrPendingSnapshotInvalid = errors.New("pending index does not match challenge")
)

// CheckRequest validates that u may request item at now.
// The window is checked before the limit.
func CheckRequest(u User, item challenge.Challenge, now int64) error {
	if !item.IsActive(now) {
		return fmt.Errorf("%w: challenge=%s now=%d window=[%d,%d]", ErrChallengeNotActive, item.ID, now, item.Start, item.End)
	}
	if attempts := u.Attempts(item.ID); attempts >= item.MaxCount {
		return fmt.Errorf("%w: challenge=%s attempts=%d max=%d", ErrChallengeLimitReached, item.ID, attempts, item.MaxCount)
	}
	return nil
}

// PlanCompletion picks the earliest pending occurrence of challengeID and
// returns the conditional write that completes it against the u snapshot.
func PlanCompletion(u User, challengeID string, now int64) (CompleteChallengeInput, error) {
	idx := slices.Index(u.ChallengesPending, challengeID)
	if idx < 0 {
		return CompleteChallengeInput{}, fmt.Errorf("%w: user=%s challenge=%s", ErrChallengeNotPending, u.Username, challengeID)
	}

	return CompleteChallengeInput{
		Username:        u.Username,
		ChallengeID:     challengeID,
		PendingIndex:    idx,
		CompletedAt:     now,
		ExpectedVersion: u.Version,
	}, nil
}

// ApplyCompletion returns the record after input is applied. Stores without
// native list primitives use it to compute the next state.
func ApplyCompletion(u User, input CompleteChallengeInput) (User, error) {
	if input.PendingIndex < 0 || input.PendingIndex >= len(u.ChallengesPending) ||
		u.ChallengesPending[input.PendingIndex] != input.ChallengeID {
		return User{}, ErrPendingSnapshotInvalid
	}

	next := u.Clone()
	next.ChallengesPending = slices.Delete(next.ChallengesPending, input.PendingIndex, input.PendingIndex+1)
	next.ChallengesDone = append(next.ChallengesDone, input.ChallengeID)
	if next.ChallengesTimes == nil {
		next.ChallengesTimes = make(map[string]int64, 1)
	}
	if _, exists := next.ChallengesTimes[input.ChallengeID]; !exists {
		next.ChallengesTimes[input.ChallengeID] = input.CompletedAt
	}
	next.Version++
	return next, nil
}
