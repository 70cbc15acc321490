package cache

import (
	"context"
	"slices"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	basecache "github.com/riskibarqy/challenge-league/internal/platform/cache"
)

const challengeListKey = "challenge:list"

type cachedChallengeByID struct {
	value  challenge.Challenge
	exists bool
}

// ChallengeRepository is a read-through cache for the challenge catalog.
// User and team records are never cached since progression reads must see
// the current version.
type ChallengeRepository struct {
	next challenge.Repository
	list *basecache.Store[[]challenge.Challenge]
	byID *basecache.Store[cachedChallengeByID]
}

func NewChallengeRepository(next challenge.Repository, ttl time.Duration, maxEntries int) *ChallengeRepository {
	return &ChallengeRepository{
		next: next,
		list: basecache.NewStore[[]challenge.Challenge](ttl, 1),
		byID: basecache.NewStore[cachedChallengeByID](ttl, maxEntries),
	}
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (challenge.Challenge, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, "challenge:id:"+id, func(ctx context.Context) (cachedChallengeByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedChallengeByID{}, err
		}
		return cachedChallengeByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return challenge.Challenge{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *ChallengeRepository) List(ctx context.Context) ([]challenge.Challenge, error) {
	items, err := r.list.GetOrLoad(ctx, challengeListKey, func(ctx context.Context) ([]challenge.Challenge, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *ChallengeRepository) Upsert(ctx context.Context, item challenge.Challenge) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.list.Delete(ctx, challengeListKey)
	r.byID.Delete(ctx, "challenge:id:"+item.ID)
	return nil
}
