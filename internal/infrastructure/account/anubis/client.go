package anubis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/challenge-league/internal/domain/account"
	"github.com/riskibarqy/challenge-league/internal/platform/cache"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/resilience"
	"github.com/riskibarqy/challenge-league/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var errAnubisTransient = errors.New("anubis transient failure")

type Config struct {
	BaseURL         string
	IntrospectPath  string
	AdminKey        string
	AdminGroup      string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client resolves bearer tokens to principals through the account service
// introspection endpoint.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	adminGroup    string
	breaker       *resilience.CircuitBreaker
	cache         *cache.Store[account.Principal]
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		adminGroup:    cfg.AdminGroup,
		breaker:       resilience.NewCircuitBreakerFromConfig(normalizeCircuitBreakerConfig(cfg.CircuitBreaker)),
		cache:         cache.NewStore[account.Principal](cfg.CacheTTL, cfg.CacheMaxEntries),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (account.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return account.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(ctx, key); ok {
		return principal, nil
	}

	var principal account.Principal
	err := c.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		var introspectErr error
		principal, introspectErr = c.introspect(ctx, token)
		return introspectErr
	}, isCircuitFailure)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) || crerr.Is(err, errAnubisTransient) {
			c.logger.WarnContext(ctx, "anubis introspection unavailable", "error", err)
			return account.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return account.Principal{}, err
	}

	c.cache.Set(ctx, key, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (account.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return account.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return account.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return account.Principal{}, crerr.Mark(crerr.Wrap(err, "request introspection to anubis"), errAnubisTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return account.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return account.Principal{}, crerr.Mark(crerr.Wrap(err, "read introspect response"), errAnubisTransient)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "anubis introspection non-200",
			"status_code", resp.StatusCode,
		)
		err := crerr.Newf("anubis introspection failed with status %d", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusForbidden {
			err = crerr.Mark(err, errAnubisTransient)
		}
		return account.Principal{}, err
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return account.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return account.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}

	username := strings.TrimSpace(decoded.Username)
	if username == "" {
		username = strings.TrimSpace(decoded.Subject)
	}
	if username == "" {
		return account.Principal{}, fmt.Errorf("%w: introspect response has no username", usecase.ErrUnauthorized)
	}

	return account.NewPrincipal(username, decoded.Groups, c.adminGroup), nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool     `json:"active"`
	Username string   `json:"username"`
	Subject  string   `json:"sub"`
	Groups   []string `json:"groups"`
}
