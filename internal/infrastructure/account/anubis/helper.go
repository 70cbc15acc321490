package anubis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
)

func normalizeCircuitBreakerConfig(cfg resilience.CircuitBreakerConfig) resilience.CircuitBreakerConfig {
	if !cfg.Enabled {
		return cfg
	}
	return resilience.NormalizeCircuitBreakerConfig(cfg)
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errAnubisTransient)
}

// hashToken keys the principal cache so raw tokens never sit in memory maps.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
