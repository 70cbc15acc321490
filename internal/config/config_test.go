package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("unexpected default store driver: %q", cfg.StoreDriver)
	}
	if !cfg.StoreSeed {
		t.Fatalf("expected seeding enabled in dev")
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Fatalf("unexpected store timeout: %s", cfg.StoreTimeout)
	}
	if cfg.CASMaxAttempts != 5 {
		t.Fatalf("unexpected CAS max attempts: %d", cfg.CASMaxAttempts)
	}
	if cfg.LeaderboardCacheTTL != 60*time.Second {
		t.Fatalf("unexpected leaderboard ttl: %s", cfg.LeaderboardCacheTTL)
	}
	if cfg.AuthProvider != AuthJWT || cfg.JWTSecret == "" {
		t.Fatalf("expected jwt auth with dev secret, got %q", cfg.AuthProvider)
	}
	if cfg.AuthAdminGroup != "Admin" {
		t.Fatalf("unexpected admin group: %q", cfg.AuthAdminGroup)
	}
	if !cfg.StoreCircuit.Enabled || cfg.StoreCircuit.FailureThreshold != 5 {
		t.Fatalf("unexpected store circuit config: %+v", cfg.StoreCircuit)
	}
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "dynamodb")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORE_DRIVER")
		}
	})

	t.Run("redis parses db index", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "Redis")
		t.Setenv("REDIS_DB", "2")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StoreDriver != StoreRedis || cfg.RedisDB != 2 {
			t.Fatalf("unexpected redis config: driver=%q db=%d", cfg.StoreDriver, cfg.RedisDB)
		}
	})

	t.Run("negative redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "-1")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative REDIS_DB")
		}
	})
}

func TestLoad_ProdDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)

	t.Run("jwt requires secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without JWT_SECRET in prod")
		}
	})

	t.Run("seeding off", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StoreSeed {
			t.Fatalf("expected seeding disabled in prod by default")
		}
	})
}

func TestLoad_CASMaxAttemptsValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CAS_MAX_ATTEMPTS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for CAS_MAX_ATTEMPTS=0")
	}
}

func TestLoad_LeaderboardTTL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("legacy seconds", func(t *testing.T) {
		t.Setenv("LEADERBOARD_CACHE_TTL", "")
		t.Setenv("CACHE_TIME", "90")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LeaderboardCacheTTL != 90*time.Second {
			t.Fatalf("unexpected ttl: %s", cfg.LeaderboardCacheTTL)
		}
	})

	t.Run("explicit duration wins", func(t *testing.T) {
		t.Setenv("LEADERBOARD_CACHE_TTL", "5m")
		t.Setenv("CACHE_TIME", "90")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LeaderboardCacheTTL != 5*time.Minute {
			t.Fatalf("unexpected ttl: %s", cfg.LeaderboardCacheTTL)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("LEADERBOARD_CACHE_TTL", "soon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid LEADERBOARD_CACHE_TTL")
		}
	})
}

func TestLoad_AuthProviderValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Setenv("AUTH_PROVIDER", "saml")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown AUTH_PROVIDER")
	}

	t.Setenv("AUTH_PROVIDER", "anubis")
	t.Setenv("ANUBIS_CIRCUIT_FAILURE_COUNT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for ANUBIS_CIRCUIT_FAILURE_COUNT=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "challenge-league-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "challenge-league-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})

	t.Run("only separators", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " , ")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for empty CORS origin list")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("invalid enabled flag", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "maybe")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_ENABLED")
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}
