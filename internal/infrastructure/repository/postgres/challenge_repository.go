package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

type ChallengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

var challengeColumns = []string{
	"challenge_id", "name", "description", "picture_id", "points",
	"start_at", "end_at", "max_count", "created_at", "updated_at",
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (challenge.Challenge, bool, error) {
	query, args, err := querybuilder.Select(challengeColumns...).
		From("challenges").
		Where(querybuilder.Eq("challenge_id", id)).
		ToSQL()
	if err != nil {
		return challenge.Challenge{}, false, fmt.Errorf("build get challenge query: %w", err)
	}

	var row challengeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return challenge.Challenge{}, false, nil
		}
		return challenge.Challenge{}, false, fmt.Errorf("get challenge by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ChallengeRepository) List(ctx context.Context) ([]challenge.Challenge, error) {
	query, args, err := querybuilder.Select(challengeColumns...).
		From("challenges").
		OrderBy("start_at", "challenge_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list challenges query: %w", err)
	}

	var rows []challengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ChallengeRepository) Upsert(ctx context.Context, item challenge.Challenge) error {
	if err := item.Validate(); err != nil {
		return err
	}

	sqlQuery, args, err := sqlx.Named(`
INSERT INTO challenges (challenge_id, name, description, picture_id, points, start_at, end_at, max_count)
VALUES (:challenge_id, :name, :description, :picture_id, :points, :start_at, :end_at, :max_count)
ON CONFLICT (challenge_id)
DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    picture_id = EXCLUDED.picture_id,
    points = EXCLUDED.points,
    start_at = EXCLUDED.start_at,
    end_at = EXCLUDED.end_at,
    max_count = EXCLUDED.max_count,
    updated_at = NOW()`, map[string]any{
		"challenge_id": item.ID,
		"name":         item.Name,
		"description":  item.Description,
		"picture_id":   item.PictureID,
		"points":       item.Points,
		"start_at":     item.Start,
		"end_at":       item.End,
		"max_count":    item.MaxCount,
	})
	if err != nil {
		return fmt.Errorf("bind upsert challenge query: %w", err)
	}
	sqlQuery = r.db.Rebind(sqlQuery)

	if _, err := r.db.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("upsert challenge: %w", err)
	}
	return nil
}

func (m challengeTableModel) toDomain() challenge.Challenge {
	return challenge.Challenge{
		ID:          m.ChallengeID,
		Name:        m.Name,
		Description: m.Description,
		PictureID:   m.PictureID,
		Points:      m.Points,
		Start:       m.StartAt,
		End:         m.EndAt,
		MaxCount:    m.MaxCount,
	}
}
