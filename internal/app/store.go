package app

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/repository/redisstore"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const challengeCacheMaxEntries = 1024

// Stores holds the record store repositories after guarding and caching.
type Stores struct {
	Users      user.Repository
	Teams      team.Repository
	Challenges challenge.Repository

	closers []func() error
}

// Close releases backend connections in reverse open order.
func (s *Stores) Close() error {
	var errs error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = crerr.CombineErrors(errs, err)
		}
	}
	s.closers = nil
	return errs
}

// OpenStores connects the backend selected by STORE_DRIVER, seeds it when
// enabled and wraps every repository with the store guard.
func OpenStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stores, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		users      user.Repository
		teams      team.Repository
		challenges challenge.Repository
		closers    []func() error
	)

	now := time.Now()
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		var seedChallenges []challenge.Challenge
		var seedUsers []user.User
		var seedTeams []team.Team
		if cfg.StoreSeed {
			seedChallenges = memory.SeedChallenges(now)
			seedUsers = memory.SeedUsers()
			seedTeams = memory.SeedTeams()
		}
		users = memory.NewUserRepository(seedUsers)
		teams = memory.NewTeamRepository(seedTeams)
		challenges = memory.NewChallengeRepository(seedChallenges)

	case config.StorePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		closers = append(closers, db.Close)

		if cfg.StoreSeed {
			if err := postgres.BootstrapSeed(ctx, db, now); err != nil {
				_ = db.Close()
				return nil, crerr.Wrap(err, "seed postgres store")
			}
		}
		users = postgres.NewUserRepository(db)
		teams = postgres.NewTeamRepository(db)
		challenges = postgres.NewChallengeRepository(db)

	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.StoreTimeout)
		if err != nil {
			return nil, err
		}
		closers = append(closers, client.Close)

		if cfg.StoreSeed {
			if err := redisstore.BootstrapSeed(ctx, client, cfg.RedisKeyPrefix, now); err != nil {
				_ = client.Close()
				return nil, crerr.Wrap(err, "seed redis store")
			}
		}
		users = redisstore.NewUserRepository(client, cfg.RedisKeyPrefix)
		teams = redisstore.NewTeamRepository(client, cfg.RedisKeyPrefix)
		challenges = redisstore.NewChallengeRepository(client, cfg.RedisKeyPrefix)

	default:
		return nil, crerr.Newf("unsupported store driver %q", cfg.StoreDriver)
	}

	guard := guarded.NewGuard(cfg.StoreTimeout, resilience.NewCircuitBreakerFromConfig(cfg.StoreCircuit), logger)
	challenges = guarded.NewChallengeRepository(challenges, guard)
	if cfg.CacheEnabled && cfg.CacheTTL > 0 {
		challenges = cache.NewChallengeRepository(challenges, cfg.CacheTTL, challengeCacheMaxEntries)
	}

	logger.Info("record store ready",
		"driver", cfg.StoreDriver,
		"seeded", cfg.StoreSeed,
		"store_timeout", cfg.StoreTimeout.String(),
		"circuit_enabled", cfg.StoreCircuit.Enabled,
	)

	return &Stores{
		Users:      guarded.NewUserRepository(users, guard),
		Teams:      guarded.NewTeamRepository(teams, guard),
		Challenges: challenges,
		closers:    closers,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	conn := newPostgresConn(cfg)
	db, err := otelsqlx.Open("postgres", conn.dsn, conn.options...)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping postgres")
	}
	return db, nil
}
