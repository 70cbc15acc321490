package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/leaderboard"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

func (h *Handler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinTeam")
	defer span.End()

	if !requirePrincipal(ctx, w) {
		return
	}
	principal, _ := principalFromContext(ctx)

	var req joinTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	err := h.membershipService.JoinTeam(ctx, usecase.JoinTeamInput{
		Actor:    principal,
		TeamID:   teamID,
		Username: req.Username,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join team failed",
			"actor", principal.Username,
			"team_id", teamID,
			"username", req.Username,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "User added to team"})
}

// ListTeams serves the cached leaderboard. Any force_refresh value bypasses
// the cache; sort=points ranks teams, otherwise store order is kept.
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	query := r.URL.Query()
	forceRefresh := query.Has("force_refresh")

	result, err := h.leaderboardService.Get(ctx, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	teams := result.Board.Teams
	if strings.EqualFold(strings.TrimSpace(query.Get("sort")), "points") {
		teams = leaderboard.RankByPoints(teams)
	}

	w.Header().Set("X-Cache", cacheHeader(result.FromCache))
	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(teams, result.Board.ComputedAt))
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
