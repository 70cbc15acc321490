package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `team_id, pending, members, version, created_at, updated_at`

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query := `SELECT ` + teamColumns + `
FROM teams
WHERE team_id = $1`

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query := `SELECT ` + teamColumns + `
FROM teams
ORDER BY created_at, team_id`

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (team_id, pending, members)
VALUES (:team_id, :pending, :members)
ON CONFLICT (team_id)
DO UPDATE SET
    pending = EXCLUDED.pending,
    members = EXCLUDED.members,
    version = teams.version + 1,
    updated_at = NOW()`, map[string]any{
		"team_id": item.ID,
		"pending": nonNil(item.Pending),
		"members": nonNil(item.Members),
	})
	if err != nil {
		return fmt.Errorf("bind upsert team query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) AdmitMember(ctx context.Context, input team.AdmitMemberInput) error {
	const query = `
UPDATE teams
SET pending = pending[1:$3::int] || pending[($3::int + 2):],
    members = array_append(members, $2::text),
    version = version + 1,
    updated_at = NOW()
WHERE team_id = $1
  AND version = $4
  AND pending[$3::int + 1] = $2::text`

	if input.PendingIndex < 0 {
		return team.ErrVersionConflict
	}

	result, err := r.db.ExecContext(ctx, query,
		input.TeamID,
		input.Username,
		input.PendingIndex,
		input.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("admit team member: %w", err)
	}
	applied, err := rowsApplied(result)
	if err != nil {
		return err
	}
	if !applied {
		return team.ErrVersionConflict
	}
	return nil
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:      m.TeamID,
		Pending: []string(m.Pending),
		Members: []string(m.Members),
		Version: m.Version,
	}
}
