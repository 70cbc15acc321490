package httpapi

import (
	"net/http"

	"github.com/riskibarqy/challenge-league/internal/usecase"
)

func (h *Handler) RequestChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestChallenge")
	defer span.End()

	if !requirePrincipal(ctx, w) {
		return
	}
	principal, _ := principalFromContext(ctx)

	challengeID := r.PathValue("challengeID")
	err := h.progressionService.RequestChallenge(ctx, usecase.RequestChallengeInput{
		Actor:       principal,
		ChallengeID: challengeID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "request challenge failed",
			"username", principal.Username,
			"challenge_id", challengeID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Challenge requested"})
}

func (h *Handler) AcceptChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptChallenge")
	defer span.End()

	if !requirePrincipal(ctx, w) {
		return
	}
	principal, _ := principalFromContext(ctx)

	var req acceptChallengeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	username := r.PathValue("username")
	err := h.progressionService.AcceptChallenge(ctx, usecase.AcceptChallengeInput{
		Actor:       principal,
		Username:    username,
		ChallengeID: req.Challenge,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "accept challenge failed",
			"actor", principal.Username,
			"username", username,
			"challenge_id", req.Challenge,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Challenge accepted"})
}
