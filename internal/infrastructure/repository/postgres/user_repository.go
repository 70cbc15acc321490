package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `username, display_name, picture_id, challenges_pending, challenges_done, challenges_times, version, created_at, updated_at`

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	query := `SELECT ` + userColumns + `
FROM users
WHERE username = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, username); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by username: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return user.User{}, false, err
	}
	return item, true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userColumns + `
FROM users
ORDER BY created_at, username`

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	if err := item.Validate(); err != nil {
		return err
	}

	times, err := encodeTimes(item.ChallengesTimes)
	if err != nil {
		return err
	}

	sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (username, display_name, picture_id, challenges_pending, challenges_done, challenges_times)
VALUES (:username, :display_name, :picture_id, :challenges_pending, :challenges_done, :challenges_times)
ON CONFLICT (username)
DO UPDATE SET
    display_name = EXCLUDED.display_name,
    picture_id = EXCLUDED.picture_id,
    challenges_pending = EXCLUDED.challenges_pending,
    challenges_done = EXCLUDED.challenges_done,
    challenges_times = EXCLUDED.challenges_times,
    version = users.version + 1,
    updated_at = NOW()`, map[string]any{
		"username":           item.Username,
		"display_name":       item.DisplayName,
		"picture_id":         item.PictureID,
		"challenges_pending": nonNil(item.ChallengesPending),
		"challenges_done":    nonNil(item.ChallengesDone),
		"challenges_times":   string(times),
	})
	if err != nil {
		return fmt.Errorf("bind upsert user query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *UserRepository) AppendPending(ctx context.Context, username, challengeID string, expectedVersion int64) error {
	const query = `
UPDATE users
SET challenges_pending = array_append(challenges_pending, $2::text),
    version = version + 1,
    updated_at = NOW()
WHERE username = $1
  AND version = $3`

	result, err := r.db.ExecContext(ctx, query, username, challengeID, expectedVersion)
	if err != nil {
		return fmt.Errorf("append pending challenge: %w", err)
	}
	applied, err := rowsApplied(result)
	if err != nil {
		return err
	}
	if !applied {
		return user.ErrVersionConflict
	}
	return nil
}

// CompleteChallenge removes one pending entry by position (postgres arrays
// are 1-based) and records the first completion time only.
func (r *UserRepository) CompleteChallenge(ctx context.Context, input user.CompleteChallengeInput) error {
	const query = `
UPDATE users
SET challenges_pending = challenges_pending[1:$3::int] || challenges_pending[($3::int + 2):],
    challenges_done = array_append(challenges_done, $2::text),
    challenges_times = CASE
        WHEN (challenges_times -> $2::text) IS NOT NULL THEN challenges_times
        ELSE challenges_times || jsonb_build_object($2::text, $4::bigint)
    END,
    version = version + 1,
    updated_at = NOW()
WHERE username = $1
  AND version = $5
  AND challenges_pending[$3::int + 1] = $2::text`

	if input.PendingIndex < 0 {
		return user.ErrVersionConflict
	}

	result, err := r.db.ExecContext(ctx, query,
		input.Username,
		input.ChallengeID,
		input.PendingIndex,
		input.CompletedAt,
		input.ExpectedVersion,
	)
	if err != nil {
		return fmt.Errorf("complete challenge: %w", err)
	}
	applied, err := rowsApplied(result)
	if err != nil {
		return err
	}
	if !applied {
		return user.ErrVersionConflict
	}
	return nil
}

func (m userTableModel) toDomain() (user.User, error) {
	times, err := decodeTimes(m.ChallengesTimes)
	if err != nil {
		return user.User{}, fmt.Errorf("user %s: %w", m.Username, err)
	}
	return user.User{
		Username:          m.Username,
		DisplayName:       m.DisplayName,
		PictureID:         m.PictureID,
		ChallengesPending: []string(m.ChallengesPending),
		ChallengesDone:    []string(m.ChallengesDone),
		ChallengesTimes:   times,
		Version:           m.Version,
	}, nil
}
