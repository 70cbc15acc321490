package httpapi

import (
	"net/http"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	if !requirePrincipal(ctx, w) {
		return
	}
	principal, _ := principalFromContext(ctx)

	profile, err := h.profileService.GetSelf(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get self failed", "username", principal.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile, true))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUser")
	defer span.End()

	username := r.PathValue("username")
	profile, err := h.profileService.GetUser(ctx, username)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile, false))
}
