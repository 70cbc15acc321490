package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/challenge-league/internal/infrastructure/account/jwtclaims"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:              config.EnvDev,
		HTTPAddr:            ":0",
		CORSAllowedOrigins:  []string{"*"},
		StoreDriver:         config.StoreMemory,
		StoreSeed:           true,
		StoreTimeout:        time.Second,
		CASMaxAttempts:      3,
		CacheEnabled:        true,
		CacheTTL:            time.Minute,
		LeaderboardCacheTTL: time.Minute,
		AuthProvider:        config.AuthJWT,
		AuthAdminGroup:      "Admin",
		JWTSecret:           "secret",
	}
}

func TestNewHTTPServer_MemoryStore(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewHTTPServer error: %v", err)
	}
	defer func() { _ = cleanup() }()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	if _, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestOpenStores_RedisSeeded(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.StoreDriver = config.StoreRedis
	cfg.RedisAddr = mr.Addr()
	cfg.RedisKeyPrefix = "test:"

	stores, err := OpenStores(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenStores error: %v", err)
	}
	defer func() { _ = stores.Close() }()

	teams, err := stores.Teams.List(context.Background())
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(teams) == 0 {
		t.Fatalf("expected seeded teams")
	}
}

func TestOpenStores_RedisUnavailable(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = config.StoreRedis
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.StoreTimeout = 200 * time.Millisecond

	if _, err := OpenStores(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected connect error")
	}
}

func TestOpenStores_MemorySeedToggle(t *testing.T) {
	cfg := testConfig()
	stores, err := OpenStores(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenStores error: %v", err)
	}
	if _, exists, err := stores.Users.GetByUsername(context.Background(), "alice"); err != nil || !exists {
		t.Fatalf("expected seeded user, exists=%v err=%v", exists, err)
	}

	cfg.StoreSeed = false
	stores, err = OpenStores(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenStores error: %v", err)
	}
	users, err := stores.Users.List(context.Background())
	if err != nil || len(users) != 0 {
		t.Fatalf("expected empty store, got %d users err=%v", len(users), err)
	}
}

func TestNewTokenVerifier(t *testing.T) {
	cfg := testConfig()

	verifier, err := newTokenVerifier(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("jwt verifier: %v", err)
	}
	if _, ok := verifier.(*jwtclaims.Verifier); !ok {
		t.Fatalf("expected jwt verifier, got %T", verifier)
	}

	cfg.AuthProvider = config.AuthAnubis
	cfg.AnubisBaseURL = "http://localhost:8081"
	verifier, err = newTokenVerifier(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("anubis verifier: %v", err)
	}
	if _, ok := verifier.(*anubis.Client); !ok {
		t.Fatalf("expected anubis client, got %T", verifier)
	}

	cfg.AuthProvider = "ldap"
	if _, err := newTokenVerifier(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
