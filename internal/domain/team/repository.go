package team

import "context"

// AdmitMemberInput moves Pending[PendingIndex] to Members when the record is
// still at ExpectedVersion and the index still holds Username.
type AdmitMemberInput struct {
	TeamID          string
	Username        string
	PendingIndex    int
	ExpectedVersion int64
}

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Upsert(ctx context.Context, item Team) error
	AdmitMember(ctx context.Context, input AdmitMemberInput) error
}
