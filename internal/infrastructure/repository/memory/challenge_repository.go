package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
)

type ChallengeRepository struct {
	mu     sync.RWMutex
	items  map[string]challenge.Challenge
	orders []string
}

func NewChallengeRepository(challenges []challenge.Challenge) *ChallengeRepository {
	r := &ChallengeRepository{
		items:  make(map[string]challenge.Challenge, len(challenges)),
		orders: make([]string, 0, len(challenges)),
	}
	for _, c := range challenges {
		r.put(c)
	}
	return r
}

func (r *ChallengeRepository) GetByID(_ context.Context, id string) (challenge.Challenge, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return challenge.Challenge{}, false, nil
	}
	return c, true, nil
}

func (r *ChallengeRepository) List(_ context.Context) ([]challenge.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]challenge.Challenge, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *ChallengeRepository) Upsert(_ context.Context, item challenge.Challenge) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(item)
	return nil
}

func (r *ChallengeRepository) put(item challenge.Challenge) {
	if _, ok := r.items[item.ID]; !ok {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
}
