package redisstore

import (
	"context"
	"slices"
	"strconv"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
)

const teamKind = "team"

type TeamRepository struct {
	client redis.UniversalClient
	keys   keyspace
}

func NewTeamRepository(client redis.UniversalClient, prefix string) *TeamRepository {
	return &TeamRepository{client: client, keys: newKeyspace(prefix)}
}

type teamReadCmds struct {
	meta    *redis.MapStringStringCmd
	pending *redis.StringSliceCmd
	members *redis.StringSliceCmd
}

func (r *TeamRepository) queueRead(ctx context.Context, pipe redis.Pipeliner, teamID string) teamReadCmds {
	return teamReadCmds{
		meta:    pipe.HGetAll(ctx, r.keys.record(teamKind, teamID)),
		pending: pipe.LRange(ctx, r.keys.field(teamKind, teamID, "pending"), 0, -1),
		members: pipe.LRange(ctx, r.keys.field(teamKind, teamID, "members"), 0, -1),
	}
}

func (c teamReadCmds) decode(teamID string) (team.Team, bool, error) {
	meta := c.meta.Val()
	if len(meta) == 0 {
		return team.Team{}, false, nil
	}
	version, err := strconv.ParseInt(meta["version"], 10, 64)
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "parse version of team %s", teamID)
	}
	return team.Team{
		ID:      teamID,
		Pending: c.pending.Val(),
		Members: c.members.Val(),
		Version: version,
	}, true, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	var cmds teamReadCmds
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		cmds = r.queueRead(ctx, pipe, teamID)
		return nil
	})
	if err != nil {
		return team.Team{}, false, crerr.Wrap(err, "read team")
	}
	return cmds.decode(teamID)
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	teamIDs, err := r.client.SMembers(ctx, r.keys.index(teamKind)).Result()
	if err != nil {
		return nil, crerr.Wrap(err, "list team ids")
	}
	slices.Sort(teamIDs)

	reads := make([]teamReadCmds, len(teamIDs))
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, teamID := range teamIDs {
			reads[i] = r.queueRead(ctx, pipe, teamID)
		}
		return nil
	})
	if err != nil {
		return nil, crerr.Wrap(err, "read teams")
	}

	out := make([]team.Team, 0, len(teamIDs))
	for i, teamID := range teamIDs {
		item, ok, err := reads[i].decode(teamID)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	payload, err := sonic.MarshalString(upsertPayload{
		Meta:    map[string]string{"team_id": item.ID},
		Lists:   [][]string{listOrEmpty(item.Pending), listOrEmpty(item.Members)},
		Hash:    map[string]string{},
		Version: strconv.FormatInt(item.Version, 10),
	})
	if err != nil {
		return crerr.Wrap(err, "encode team payload")
	}

	keys := []string{
		r.keys.record(teamKind, item.ID),
		r.keys.field(teamKind, item.ID, "pending"),
		r.keys.field(teamKind, item.ID, "members"),
	}
	if err := upsertScript.Run(ctx, r.client, keys, payload).Err(); err != nil {
		return crerr.Wrap(err, "upsert team")
	}
	if err := r.client.SAdd(ctx, r.keys.index(teamKind), item.ID).Err(); err != nil {
		return crerr.Wrap(err, "index team")
	}
	return nil
}

func (r *TeamRepository) AdmitMember(ctx context.Context, input team.AdmitMemberInput) error {
	if input.PendingIndex < 0 {
		return team.ErrVersionConflict
	}

	keys := []string{
		r.keys.record(teamKind, input.TeamID),
		r.keys.field(teamKind, input.TeamID, "pending"),
		r.keys.field(teamKind, input.TeamID, "members"),
	}
	applied, err := admitMemberScript.Run(ctx, r.client, keys,
		strconv.FormatInt(input.ExpectedVersion, 10),
		input.Username,
		input.PendingIndex,
		tombstone,
	).Int64()
	if err != nil {
		return crerr.Wrap(err, "admit team member")
	}
	if applied == 0 {
		return team.ErrVersionConflict
	}
	return nil
}
