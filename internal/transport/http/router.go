package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/consumer"
	"fairtrace/internal/labor"
	"fairtrace/internal/ledger"
	"fairtrace/internal/material"
	"fairtrace/internal/platform/metrics"
	"fairtrace/internal/platform/middleware"
	"fairtrace/internal/supplier"
)

// Handler is the thin HTTP layer over the four record stores. It delegates
// to domain services; admin gating happens inside them, so the handlers only
// translate transport concerns.
type Handler struct {
	logger    *slog.Logger
	metrics   *metrics.Metrics
	suppliers *supplier.Service
	labor     *labor.Service
	materials *material.Service
	consumers *consumer.Service
	audit     *audit.Recorder
	chain     *ledger.Counter
	hostGate  *authority.Gate
}

// NewHandler wires the store services into one HTTP surface. hostGate guards
// the chain-advance harness endpoint and is independent of the per-store
// admin gates.
func NewHandler(
	logger *slog.Logger,
	m *metrics.Metrics,
	suppliers *supplier.Service,
	laborSvc *labor.Service,
	materials *material.Service,
	consumers *consumer.Service,
	recorder *audit.Recorder,
	chain *ledger.Counter,
	hostGate *authority.Gate,
) *Handler {
	return &Handler{
		logger:    logger,
		metrics:   m,
		suppliers: suppliers,
		labor:     laborSvc,
		materials: materials,
		consumers: consumers,
		audit:     recorder,
		chain:     chain,
		hostGate:  hostGate,
	}
}

// NewRouter assembles the middleware chain and all routes. Reads and writes
// share the same authenticated surface; per-operation authorization is the
// services' concern.
func NewRouter(h *Handler, validator middleware.CallerValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		api.Use(middleware.RequireCaller(validator, h.logger))

		h.registerSupplierRoutes(api)
		h.registerLaborRoutes(api)
		h.registerMaterialRoutes(api)
		h.registerConsumerRoutes(api)
		h.registerChainRoutes(api)

		api.Get("/audit/{subject}", h.handleAuditList)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAuditList(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	events, err := h.audit.ListBySubject(r.Context(), subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
