package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/challenge-league/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	items  map[string]team.Team
	orders []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{
		items:  make(map[string]team.Team, len(teams)),
		orders: make([]string, 0, len(teams)),
	}
	for _, t := range teams {
		r.put(t)
	}
	return r
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}
	return t.Clone(), true, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.items[item.ID]; ok {
		item.Version = current.Version + 1
	}
	r.put(item)
	return nil
}

func (r *TeamRepository) AdmitMember(_ context.Context, input team.AdmitMemberInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[input.TeamID]
	if !ok || current.Version != input.ExpectedVersion {
		return team.ErrVersionConflict
	}

	next, err := team.ApplyAdmission(current, input)
	if err != nil {
		return team.ErrVersionConflict
	}
	r.items[input.TeamID] = next
	return nil
}

func (r *TeamRepository) put(item team.Team) {
	if _, ok := r.items[item.ID]; !ok {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item.Clone()
}
