package user

import "context"

// CompleteChallengeInput describes a conditional pending -> done transition.
// The write applies only if the record is still at ExpectedVersion and
// ChallengesPending[PendingIndex] still equals ChallengeID.
type CompleteChallengeInput struct {
	Username        string
	ChallengeID     string
	PendingIndex    int
	CompletedAt     int64
	ExpectedVersion int64
}

// Repository describes user persistence needs from use cases.
// Conditional writes return ErrVersionConflict when they do not apply.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	Upsert(ctx context.Context, item User) error
	AppendPending(ctx context.Context, username, challengeID string, expectedVersion int64) error
	CompleteChallenge(ctx context.Context, input CompleteChallengeInput) error
}
