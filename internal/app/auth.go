package app

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/account/jwtclaims"
	"github.com/riskibarqy/challenge-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

const principalCacheMaxEntries = 4096

func newTokenVerifier(cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	switch cfg.AuthProvider {
	case config.AuthJWT, "":
		return jwtclaims.NewVerifier(cfg.JWTSecret, cfg.AuthAdminGroup), nil
	case config.AuthAnubis:
		return anubis.NewClient(nil, anubis.Config{
			BaseURL:         cfg.AnubisBaseURL,
			IntrospectPath:  cfg.AnubisIntrospectPath,
			AdminKey:        cfg.AnubisAdminKey,
			AdminGroup:      cfg.AuthAdminGroup,
			Timeout:         cfg.AnubisTimeout,
			CacheTTL:        cfg.AnubisCacheTTL,
			CacheMaxEntries: principalCacheMaxEntries,
			CircuitBreaker:  cfg.AnubisCircuit,
		}, logger), nil
	default:
		return nil, crerr.Newf("unsupported auth provider %q", cfg.AuthProvider)
	}
}
