package redisstore

import (
	"context"
	"slices"
	"strconv"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

const userKind = "user"

type UserRepository struct {
	client redis.UniversalClient
	keys   keyspace
}

func NewUserRepository(client redis.UniversalClient, prefix string) *UserRepository {
	return &UserRepository{client: client, keys: newKeyspace(prefix)}
}

type userReadCmds struct {
	meta    *redis.MapStringStringCmd
	pending *redis.StringSliceCmd
	done    *redis.StringSliceCmd
	times   *redis.MapStringStringCmd
}

func (r *UserRepository) queueRead(ctx context.Context, pipe redis.Pipeliner, username string) userReadCmds {
	return userReadCmds{
		meta:    pipe.HGetAll(ctx, r.keys.record(userKind, username)),
		pending: pipe.LRange(ctx, r.keys.field(userKind, username, "pending"), 0, -1),
		done:    pipe.LRange(ctx, r.keys.field(userKind, username, "done"), 0, -1),
		times:   pipe.HGetAll(ctx, r.keys.field(userKind, username, "times")),
	}
}

func (c userReadCmds) decode(username string) (user.User, bool, error) {
	meta := c.meta.Val()
	if len(meta) == 0 {
		return user.User{}, false, nil
	}

	version, err := strconv.ParseInt(meta["version"], 10, 64)
	if err != nil {
		return user.User{}, false, crerr.Wrapf(err, "parse version of user %s", username)
	}

	times := make(map[string]int64, len(c.times.Val()))
	for challengeID, raw := range c.times.Val() {
		at, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return user.User{}, false, crerr.Wrapf(err, "parse completion time of user %s challenge %s", username, challengeID)
		}
		times[challengeID] = at
	}

	return user.User{
		Username:          username,
		DisplayName:       meta["display_name"],
		PictureID:         meta["picture_id"],
		ChallengesPending: c.pending.Val(),
		ChallengesDone:    c.done.Val(),
		ChallengesTimes:   times,
		Version:           version,
	}, true, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	var cmds userReadCmds
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		cmds = r.queueRead(ctx, pipe, username)
		return nil
	})
	if err != nil {
		return user.User{}, false, crerr.Wrap(err, "read user")
	}
	return cmds.decode(username)
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	usernames, err := r.client.SMembers(ctx, r.keys.index(userKind)).Result()
	if err != nil {
		return nil, crerr.Wrap(err, "list usernames")
	}
	slices.Sort(usernames)

	reads := make([]userReadCmds, len(usernames))
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, username := range usernames {
			reads[i] = r.queueRead(ctx, pipe, username)
		}
		return nil
	})
	if err != nil {
		return nil, crerr.Wrap(err, "read users")
	}

	out := make([]user.User, 0, len(usernames))
	for i, username := range usernames {
		item, ok, err := reads[i].decode(username)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	if err := item.Validate(); err != nil {
		return err
	}

	times := make(map[string]string, len(item.ChallengesTimes))
	for challengeID, at := range item.ChallengesTimes {
		times[challengeID] = strconv.FormatInt(at, 10)
	}
	payload, err := sonic.MarshalString(upsertPayload{
		Meta: map[string]string{
			"display_name": item.DisplayName,
			"picture_id":   item.PictureID,
		},
		Lists:   [][]string{listOrEmpty(item.ChallengesPending), listOrEmpty(item.ChallengesDone)},
		Hash:    times,
		Version: strconv.FormatInt(item.Version, 10),
	})
	if err != nil {
		return crerr.Wrap(err, "encode user payload")
	}

	keys := []string{
		r.keys.record(userKind, item.Username),
		r.keys.field(userKind, item.Username, "pending"),
		r.keys.field(userKind, item.Username, "done"),
		r.keys.field(userKind, item.Username, "times"),
	}
	if err := upsertScript.Run(ctx, r.client, keys, payload).Err(); err != nil {
		return crerr.Wrap(err, "upsert user")
	}
	if err := r.client.SAdd(ctx, r.keys.index(userKind), item.Username).Err(); err != nil {
		return crerr.Wrap(err, "index user")
	}
	return nil
}

func (r *UserRepository) AppendPending(ctx context.Context, username, challengeID string, expectedVersion int64) error {
	keys := []string{
		r.keys.record(userKind, username),
		r.keys.field(userKind, username, "pending"),
	}
	applied, err := appendPendingScript.Run(ctx, r.client, keys, strconv.FormatInt(expectedVersion, 10), challengeID).Int64()
	if err != nil {
		return crerr.Wrap(err, "append pending challenge")
	}
	if applied == 0 {
		return user.ErrVersionConflict
	}
	return nil
}

func (r *UserRepository) CompleteChallenge(ctx context.Context, input user.CompleteChallengeInput) error {
	if input.PendingIndex < 0 {
		return user.ErrVersionConflict
	}

	keys := []string{
		r.keys.record(userKind, input.Username),
		r.keys.field(userKind, input.Username, "pending"),
		r.keys.field(userKind, input.Username, "done"),
		r.keys.field(userKind, input.Username, "times"),
	}
	applied, err := completeChallengeScript.Run(ctx, r.client, keys,
		strconv.FormatInt(input.ExpectedVersion, 10),
		input.ChallengeID,
		input.PendingIndex,
		strconv.FormatInt(input.CompletedAt, 10),
		tombstone,
	).Int64()
	if err != nil {
		return crerr.Wrap(err, "complete challenge")
	}
	if applied == 0 {
		return user.ErrVersionConflict
	}
	return nil
}
