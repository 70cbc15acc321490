package httpapi

import (
	"net/http"

	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/users/{username}", handler.GetUser)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("POST /v1/challenges/{challengeID}/request", RequireAuth(verifier, http.HandlerFunc(handler.RequestChallenge)))
	mux.Handle("POST /v1/users/{username}/challenges/accept", RequireAuth(verifier, http.HandlerFunc(handler.AcceptChallenge)))
	mux.Handle("POST /v1/teams/{teamID}/members", RequireAuth(verifier, http.HandlerFunc(handler.JoinTeam)))
}
