package redisstore

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo catalog, users and teams when the challenge
// index is empty.
func BootstrapSeed(ctx context.Context, client redis.UniversalClient, prefix string, now time.Time) error {
	keys := newKeyspace(prefix)
	count, err := client.SCard(ctx, keys.index(challengeKind)).Result()
	if err != nil {
		return crerr.Wrap(err, "count challenges for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	challenges := NewChallengeRepository(client, prefix)
	for _, c := range memory.SeedChallenges(now) {
		if err := challenges.Upsert(ctx, c); err != nil {
			return crerr.Wrapf(err, "seed challenge %s", c.ID)
		}
	}
	users := NewUserRepository(client, prefix)
	for _, u := range memory.SeedUsers() {
		if err := users.Upsert(ctx, u); err != nil {
			return crerr.Wrapf(err, "seed user %s", u.Username)
		}
	}
	teams := NewTeamRepository(client, prefix)
	for _, t := range memory.SeedTeams() {
		if err := teams.Upsert(ctx, t); err != nil {
			return crerr.Wrapf(err, "seed team %s", t.ID)
		}
	}
	return nil
}
