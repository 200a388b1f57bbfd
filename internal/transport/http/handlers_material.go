package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairtrace/internal/platform/middleware"
	"fairtrace/pkg/domain"
)

func (h *Handler) registerMaterialRoutes(r chi.Router) {
	r.Post("/materials/batches", h.handleMaterialRegister)
	r.Get("/materials/batches", h.handleMaterialList)
	r.Get("/materials/batches/{id}", h.handleMaterialGet)
	r.Get("/materials/batches/{id}/certified", h.handleMaterialIsCertified)
	r.Post("/materials/batches/{id}/certify", h.handleMaterialCertify)
	r.Post("/materials/admin/transfer", h.handleMaterialTransferAdmin)
}

type registerBatchRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Origin string `json:"origin"`
}

func (h *Handler) handleMaterialRegister(w http.ResponseWriter, r *http.Request) {
	var req registerBatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.materials.Register(r.Context(), caller, req.ID, req.Name, req.Origin); err != nil {
		h.observeFailure("material", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("material", "register")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleMaterialCertify(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetCaller(r.Context())
	if err := h.materials.Certify(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.observeFailure("material", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("material", "certify")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMaterialGet(w http.ResponseWriter, r *http.Request) {
	batch, err := h.materials.Batch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (h *Handler) handleMaterialIsCertified(w http.ResponseWriter, r *http.Request) {
	certified := h.materials.IsCertified(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]bool{"certified": certified})
}

func (h *Handler) handleMaterialTransferAdmin(w http.ResponseWriter, r *http.Request) {
	var req transferAdminRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.materials.TransferAdmin(r.Context(), caller, domain.Identity(req.NewAdmin)); err != nil {
		h.observeFailure("material", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("material", "transfer_admin")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMaterialList(w http.ResponseWriter, r *http.Request) {
	batches, err := h.materials.Batches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}
