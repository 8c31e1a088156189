// Package handler exposes the phased router over HTTP. Value routes
// (deposit, distribute, apply-split) are open so anyone can move money
// toward its destinations; governance routes require a bearer token.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"treasury/internal/distribution/models"
	platformmetrics "treasury/internal/platform/metrics"
	"treasury/internal/platform/middleware"
	dErrors "treasury/pkg/domain-errors"
	"treasury/pkg/platform/httputil"
	"treasury/pkg/requestcontext"
)

// Service defines the interface for distribution operations.
type Service interface {
	Deposit(ctx context.Context, req *models.DepositRequest) (*models.DepositResponse, error)
	Distribute(ctx context.Context, req *models.DistributeRequest) (*models.Distribution, error)

	EnterTransition(ctx context.Context) (*models.PhaseResponse, error)
	ScheduleSplit(ctx context.Context, req *models.ScheduleSplitRequest) (*models.ScheduledSplitResponse, error)
	ApplySplit(ctx context.Context) (*models.SplitResponse, error)
	CancelScheduledSplit(ctx context.Context) error
	ActivatePermanentSplit(ctx context.Context, req *models.ActivatePermanentRequest) (*models.SplitResponse, error)
	UpdateDestinations(ctx context.Context, req *models.UpdateDestinationsRequest) error
	GrantRole(ctx context.Context, req *models.RoleChangeRequest) error
	RevokeRole(ctx context.Context, req *models.RoleChangeRequest) error
	AuthorizeUpgrade(ctx context.Context, req *models.AuthorizeUpgradeRequest) error

	CurrentSplit(ctx context.Context) (*models.SplitResponse, error)
	ScheduledSplit(ctx context.Context) (*models.ScheduledSplitResponse, error)
	CurrentPhase(ctx context.Context) (*models.PhaseResponse, error)
	PendingBalance(ctx context.Context, assetID string) (*models.BalanceResponse, error)
	Distributions(ctx context.Context, limit int) ([]models.Distribution, error)
}

// Handler wires treasury endpoints to the distribution service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *platformmetrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New constructs a treasury handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *platformmetrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register mounts treasury endpoints on the router. Two route groups share
// the base middleware chain; the governance one adds RequireAuth.
func (h *Handler) Register(r chi.Router) {
	base := func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.RequestTime)
		router.Use(middleware.ClientMetadata)
		router.Use(middleware.Logger(h.logger))
		router.Use(middleware.Timeout(30 * time.Second))
		router.Use(middleware.ContentTypeJSON)
		router.Use(middleware.Latency(h.metrics))
	}

	r.Group(func(open chi.Router) {
		base(open)
		open.Post("/treasury/deposit", h.handleDeposit)
		open.Post("/treasury/distribute", h.handleDistribute)
		open.Post("/treasury/split/apply", h.handleApplySplit)
		open.Get("/treasury/split", h.handleCurrentSplit)
		open.Get("/treasury/split/scheduled", h.handleScheduledSplit)
		open.Get("/treasury/phase", h.handleCurrentPhase)
		open.Get("/treasury/balance/{asset}", h.handlePendingBalance)
		open.Get("/treasury/distributions", h.handleDistributions)
	})

	r.Group(func(governed chi.Router) {
		base(governed)
		governed.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		governed.Post("/treasury/phase/transition", h.handleEnterTransition)
		governed.Post("/treasury/split/schedule", h.handleScheduleSplit)
		governed.Delete("/treasury/split/scheduled", h.handleCancelScheduledSplit)
		governed.Post("/treasury/permanent", h.handleActivatePermanent)
		governed.Put("/treasury/destinations", h.handleUpdateDestinations)
		governed.Post("/treasury/roles/grant", h.handleGrantRole)
		governed.Post("/treasury/roles/revoke", h.handleRevokeRole)
		governed.Post("/treasury/upgrade", h.handleAuthorizeUpgrade)
	})
}

func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.DepositRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.Deposit(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "deposit rejected",
			"request_id", requestID,
			"asset_id", req.AssetID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.DistributeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	dist, err := h.service.Distribute(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "distribution rejected",
			"request_id", requestID,
			"asset_id", req.AssetID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dist)
}

func (h *Handler) handleEnterTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.EnterTransition(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleScheduleSplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ScheduleSplitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.ScheduleSplit(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleApplySplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := h.service.ApplySplit(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCancelScheduledSplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.CancelScheduledSplit(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleActivatePermanent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ActivatePermanentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.ActivatePermanentSplit(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateDestinations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.UpdateDestinationsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateDestinations(ctx, req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	h.handleRoleChange(w, r, h.service.GrantRole)
}

func (h *Handler) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	h.handleRoleChange(w, r, h.service.RevokeRole)
}

func (h *Handler) handleRoleChange(w http.ResponseWriter, r *http.Request, change func(context.Context, *models.RoleChangeRequest) error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.RoleChangeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := change(ctx, req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAuthorizeUpgrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.AuthorizeUpgradeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AuthorizeUpgrade(ctx, req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCurrentSplit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CurrentSplit(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleScheduledSplit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ScheduledSplit(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCurrentPhase(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.CurrentPhase(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePendingBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.PendingBalance(r.Context(), chi.URLParam(r, "asset"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDistributions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 500"))
			return
		}
		limit = parsed
	}

	dists, err := h.service.Distributions(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"distributions": dists})
}
