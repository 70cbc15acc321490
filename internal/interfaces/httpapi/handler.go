package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	progressionService *usecase.ProgressionService
	membershipService  *usecase.MembershipService
	leaderboardService *usecase.LeaderboardService
	profileService     *usecase.ProfileService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	progressionService *usecase.ProgressionService,
	membershipService *usecase.MembershipService,
	leaderboardService *usecase.LeaderboardService,
	profileService *usecase.ProfileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		progressionService: progressionService,
		membershipService:  membershipService,
		leaderboardService: leaderboardService,
		profileService:     profileService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context, w http.ResponseWriter) (principalOK bool) {
	if _, ok := principalFromContext(ctx); !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return false
	}
	return true
}
