package challenge

import "context"

// Repository describes challenge persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Challenge, bool, error)
	List(ctx context.Context) ([]Challenge, error)
	Upsert(ctx context.Context, item Challenge) error
}
