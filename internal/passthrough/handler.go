package passthrough

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"treasury/internal/distribution/models"
	platformmetrics "treasury/internal/platform/metrics"
	"treasury/internal/platform/middleware"
	"treasury/pkg/platform/httputil"
	"treasury/pkg/requestcontext"
)

// Handler exposes the passthrough router. All routes are open: the router
// has no governance surface at all.
type Handler struct {
	service *Service
	logger  *slog.Logger
	metrics *platformmetrics.Metrics
}

func NewHandler(service *Service, logger *slog.Logger, metrics *platformmetrics.Metrics) *Handler {
	return &Handler{service: service, logger: logger, metrics: metrics}
}

// Register mounts passthrough endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(router chi.Router) {
		router.Use(middleware.Recovery(h.logger))
		router.Use(middleware.RequestID)
		router.Use(middleware.RequestTime)
		router.Use(middleware.Logger(h.logger))
		router.Use(middleware.Timeout(30 * time.Second))
		router.Use(middleware.ContentTypeJSON)
		router.Use(middleware.Latency(h.metrics))
		router.Post("/passthrough/deposit", h.handleDeposit)
		router.Post("/passthrough/distribute", h.handleDistribute)
		router.Get("/passthrough/balance/{asset}", h.handlePending)
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
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dist)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Pending(r.Context(), chi.URLParam(r, "asset"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
