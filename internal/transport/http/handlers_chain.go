package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairtrace/internal/platform/middleware"
)

func (h *Handler) registerChainRoutes(r chi.Router) {
	r.Get("/chain/height", h.handleChainHeight)
	r.Post("/chain/advance", h.handleChainAdvance)
}

func (h *Handler) handleChainHeight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]uint64{"height": h.chain.Height()})
}

type advanceChainRequest struct {
	Blocks uint64 `json:"blocks"`
}

func (h *Handler) handleChainAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceChainRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.hostGate.Require(caller); err != nil {
		h.observeFailure("chain", err)
		writeError(w, err)
		return
	}
	height := h.chain.Advance(req.Blocks)
	h.metrics.RecordMutation("chain", "advance")
	writeJSON(w, http.StatusOK, map[string]uint64{"height": height})
}
