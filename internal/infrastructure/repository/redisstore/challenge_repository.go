package redisstore

import (
	"context"
	"slices"
	"strconv"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
)

const challengeKind = "challenge"

type ChallengeRepository struct {
	client redis.UniversalClient
	keys   keyspace
}

func NewChallengeRepository(client redis.UniversalClient, prefix string) *ChallengeRepository {
	return &ChallengeRepository{client: client, keys: newKeyspace(prefix)}
}

func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (challenge.Challenge, bool, error) {
	fields, err := r.client.HGetAll(ctx, r.keys.record(challengeKind, id)).Result()
	if err != nil {
		return challenge.Challenge{}, false, crerr.Wrap(err, "read challenge")
	}
	if len(fields) == 0 {
		return challenge.Challenge{}, false, nil
	}
	item, err := decodeChallenge(id, fields)
	if err != nil {
		return challenge.Challenge{}, false, err
	}
	return item, true, nil
}

func (r *ChallengeRepository) List(ctx context.Context) ([]challenge.Challenge, error) {
	ids, err := r.client.SMembers(ctx, r.keys.index(challengeKind)).Result()
	if err != nil {
		return nil, crerr.Wrap(err, "list challenge ids")
	}
	slices.Sort(ids)

	reads := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			reads[i] = pipe.HGetAll(ctx, r.keys.record(challengeKind, id))
		}
		return nil
	})
	if err != nil {
		return nil, crerr.Wrap(err, "read challenges")
	}

	out := make([]challenge.Challenge, 0, len(ids))
	for i, id := range ids {
		fields := reads[i].Val()
		if len(fields) == 0 {
			continue
		}
		item, err := decodeChallenge(id, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *ChallengeRepository) Upsert(ctx context.Context, item challenge.Challenge) error {
	if err := item.Validate(); err != nil {
		return err
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.keys.record(challengeKind, item.ID),
			"name", item.Name,
			"description", item.Description,
			"picture_id", item.PictureID,
			"points", item.Points,
			"start", item.Start,
			"end", item.End,
			"max_count", item.MaxCount,
		)
		pipe.SAdd(ctx, r.keys.index(challengeKind), item.ID)
		return nil
	})
	if err != nil {
		return crerr.Wrap(err, "upsert challenge")
	}
	return nil
}

func decodeChallenge(id string, fields map[string]string) (challenge.Challenge, error) {
	item := challenge.Challenge{
		ID:          id,
		Name:        fields["name"],
		Description: fields["description"],
		PictureID:   fields["picture_id"],
		MaxCount:    challenge.DefaultMaxCount,
	}

	var err error
	if item.Points, err = parseIntField(fields, "points"); err != nil {
		return challenge.Challenge{}, crerr.Wrapf(err, "challenge %s", id)
	}
	if item.Start, err = parseIntField(fields, "start"); err != nil {
		return challenge.Challenge{}, crerr.Wrapf(err, "challenge %s", id)
	}
	if item.End, err = parseIntField(fields, "end"); err != nil {
		return challenge.Challenge{}, crerr.Wrapf(err, "challenge %s", id)
	}
	if raw, ok := fields["max_count"]; ok && raw != "" {
		maxCount, err := strconv.Atoi(raw)
		if err != nil {
			return challenge.Challenge{}, crerr.Wrapf(err, "challenge %s max_count", id)
		}
		item.MaxCount = maxCount
	}
	return item, nil
}

func parseIntField(fields map[string]string, name string) (int64, error) {
	raw := fields[name]
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, crerr.Wrapf(err, "parse %s", name)
	}
	return value, nil
}
