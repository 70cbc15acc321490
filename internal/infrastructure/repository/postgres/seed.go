package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/challenge-league/internal/platform/querybuilder"
)

// BootstrapSeed loads the demo catalog, users and teams into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM challenges`); err != nil {
		return fmt.Errorf("count challenges for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	batches, err := seedBatches(now)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, batch := range batches {
		if batch.Len() == 0 {
			continue
		}
		query, args, err := batch.ToSQL()
		if err != nil {
			return fmt.Errorf("build seed query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func seedBatches(now time.Time) ([]*querybuilder.InsertBuilder, error) {
	challenges := querybuilder.InsertInto("challenges").
		Columns("challenge_id", "name", "description", "picture_id", "points", "start_at", "end_at", "max_count").
		Suffix("ON CONFLICT (challenge_id) DO NOTHING")
	for _, c := range memory.SeedChallenges(now) {
		challenges.Values(c.ID, c.Name, c.Description, c.PictureID, c.Points, c.Start, c.End, c.MaxCount)
	}

	users := querybuilder.InsertInto("users").
		Columns("username", "display_name", "picture_id", "challenges_pending", "challenges_done", "challenges_times").
		Suffix("ON CONFLICT (username) DO NOTHING")
	for _, u := range memory.SeedUsers() {
		times, err := encodeTimes(u.ChallengesTimes)
		if err != nil {
			return nil, err
		}
		users.Values(u.Username, u.DisplayName, u.PictureID, nonNil(u.ChallengesPending), nonNil(u.ChallengesDone), string(times))
	}

	teams := querybuilder.InsertInto("teams").
		Columns("team_id", "pending", "members").
		Suffix("ON CONFLICT (team_id) DO NOTHING")
	for _, t := range memory.SeedTeams() {
		teams.Values(t.ID, nonNil(t.Pending), nonNil(t.Members))
	}

	return []*querybuilder.InsertBuilder{challenges, users, teams}, nil
}
