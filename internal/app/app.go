package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

// NewHTTPServer wires the record store, the use cases and the router. The
// returned cleanup releases store connections and must run after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	verifier, err := newTokenVerifier(cfg, logger)
	if err != nil {
		_ = stores.Close()
		return nil, nil, err
	}

	progressionSvc := usecase.NewProgressionService(stores.Users, stores.Challenges, cfg.CASMaxAttempts, logger)
	membershipSvc := usecase.NewMembershipService(stores.Teams, cfg.CASMaxAttempts, logger)
	leaderboardSvc := usecase.NewLeaderboardService(
		stores.Users,
		stores.Teams,
		stores.Challenges,
		usecase.LeaderboardConfig{
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.LeaderboardCacheTTL,
			LoadTimeout:  cfg.StoreTimeout,
		},
		logger,
	)
	profileSvc := usecase.NewProfileService(stores.Users, stores.Challenges)

	handler := httpapi.NewHandler(progressionSvc, membershipSvc, leaderboardSvc, profileSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.MetricsEnabled)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("http server configured",
		"addr", cfg.HTTPAddr,
		"store_driver", cfg.StoreDriver,
		"auth_provider", cfg.AuthProvider,
		"metrics_enabled", cfg.MetricsEnabled,
	)

	return server, stores.Close, nil
}
