package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/leaderboard"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/platform/cache"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type LeaderboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	LoadTimeout  time.Duration
}

type LeaderboardResult struct {
	Board     leaderboard.Board
	FromCache bool
}

// LeaderboardService serves the team leaderboard from a process-wide snapshot.
type LeaderboardService struct {
	userRepo      user.Repository
	teamRepo      team.Repository
	challengeRepo challenge.Repository
	snapshot      *cache.Snapshot[leaderboard.Board]
	cfg           LeaderboardConfig
	logger        *logging.Logger
	now           func() time.Time
}

func NewLeaderboardService(
	userRepo user.Repository,
	teamRepo team.Repository,
	challengeRepo challenge.Repository,
	cfg LeaderboardConfig,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		userRepo:      userRepo,
		teamRepo:      teamRepo,
		challengeRepo: challengeRepo,
		snapshot:      cache.NewSnapshot[leaderboard.Board](cache.WithSharedLoadTimeout(cfg.LoadTimeout)),
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// Get returns the leaderboard, recomputing it when forceRefresh is set or
// the cached copy is older than the configured TTL. Callers must treat the
// returned slices as read-only since they may be shared with other readers.
func (s *LeaderboardService) Get(ctx context.Context, forceRefresh bool) (LeaderboardResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Get")
	defer span.End()

	force := forceRefresh || !s.cfg.CacheEnabled
	now := s.now().Unix()
	ttl := int64(s.cfg.CacheTTL / time.Second)

	board, hit, err := s.snapshot.Get(ctx, force, now, ttl, func(ctx context.Context) (leaderboard.Board, error) {
		teams, err := s.compute(ctx)
		if err != nil {
			return leaderboard.Board{}, err
		}
		return leaderboard.Board{Teams: teams, ComputedAt: now}, nil
	})
	if err != nil {
		return LeaderboardResult{}, fmt.Errorf("load leaderboard: %w", err)
	}

	switch {
	case hit:
		metrics.RecordCacheLookup(metrics.CacheHit)
	case force:
		metrics.RecordCacheLookup(metrics.CacheForced)
	default:
		metrics.RecordCacheLookup(metrics.CacheMiss)
	}
	span.SetAttributes(attribute.Bool("leaderboard.cache_hit", hit), attribute.Int("leaderboard.teams", len(board.Teams)))

	return LeaderboardResult{Board: board, FromCache: hit}, nil
}

func (s *LeaderboardService) compute(ctx context.Context) ([]leaderboard.TeamStanding, error) {
	var (
		users      []user.User
		teams      []team.Team
		challenges []challenge.Challenge
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.userRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		users = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.teamRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		teams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.challengeRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list challenges: %w", err)
		}
		challenges = items
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	standings := leaderboard.ComputeLeaderboard(users, teams, challenges)
	s.logger.DebugContext(ctx, "leaderboard recomputed",
		"teams", len(standings),
		"users", len(users),
		"challenges", len(challenges),
	)
	return standings, nil
}
