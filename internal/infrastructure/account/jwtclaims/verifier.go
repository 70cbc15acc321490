package jwtclaims

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/challenge-league/internal/domain/account"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

// Claims mirrors the identity-pool token layout: the username may sit in
// cognito:username or fall back to sub.
type Claims struct {
	Username string   `json:"cognito:username,omitempty"`
	Groups   []string `json:"cognito:groups,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens signed with a shared secret.
type Verifier struct {
	secret     []byte
	adminGroup string
	parser     *jwt.Parser
}

func NewVerifier(secret, adminGroup string) *Verifier {
	return &Verifier{
		secret:     []byte(secret),
		adminGroup: adminGroup,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

func (v *Verifier) VerifyAccessToken(_ context.Context, token string) (account.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return account.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return account.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		username = strings.TrimSpace(claims.Subject)
	}
	if username == "" {
		return account.Principal{}, fmt.Errorf("%w: token has no username", usecase.ErrUnauthorized)
	}

	return account.NewPrincipal(username, claims.Groups, v.adminGroup), nil
}

// Sign issues a token for tests and local tooling.
func (v *Verifier) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
