package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

type UserRepository struct {
	mu     sync.RWMutex
	items  map[string]user.User
	orders []string
}

func NewUserRepository(users []user.User) *UserRepository {
	r := &UserRepository{
		items:  make(map[string]user.User, len(users)),
		orders: make([]string, 0, len(users)),
	}
	for _, u := range users {
		r.put(u)
	}
	return r
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[username]
	if !ok {
		return user.User{}, false, nil
	}
	return u.Clone(), true, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.orders))
	for _, username := range r.orders {
		out = append(out, r.items[username].Clone())
	}
	return out, nil
}

func (r *UserRepository) Upsert(_ context.Context, item user.User) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.items[item.Username]; ok {
		item.Version = current.Version + 1
	}
	r.put(item)
	return nil
}

func (r *UserRepository) AppendPending(_ context.Context, username, challengeID string, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[username]
	if !ok || current.Version != expectedVersion {
		return user.ErrVersionConflict
	}

	next := current.Clone()
	next.ChallengesPending = append(next.ChallengesPending, challengeID)
	next.Version++
	r.items[username] = next
	return nil
}

func (r *UserRepository) CompleteChallenge(_ context.Context, input user.CompleteChallengeInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[input.Username]
	if !ok || current.Version != input.ExpectedVersion {
		return user.ErrVersionConflict
	}

	next, err := user.ApplyCompletion(current, input)
	if err != nil {
		return user.ErrVersionConflict
	}
	r.items[input.Username] = next
	return nil
}

func (r *UserRepository) put(item user.User) {
	if _, ok := r.items[item.Username]; !ok {
		r.orders = append(r.orders, item.Username)
	}
	r.items[item.Username] = item.Clone()
}
