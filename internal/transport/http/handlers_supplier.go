package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairtrace/internal/platform/middleware"
	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
)

func (h *Handler) registerSupplierRoutes(r chi.Router) {
	r.Post("/suppliers", h.handleSupplierRegister)
	r.Get("/suppliers", h.handleSupplierList)
	r.Get("/suppliers/{id}", h.handleSupplierGet)
	r.Post("/suppliers/{id}/verify", h.handleSupplierVerify)
	r.Post("/suppliers/standards", h.handleSupplierAddStandard)
	r.Get("/suppliers/standards", h.handleSupplierListStandards)
	r.Get("/suppliers/standards/{id}", h.handleSupplierGetStandard)
	r.Post("/suppliers/{id}/compliance", h.handleSupplierRecordCompliance)
	r.Get("/suppliers/{id}/compliance/{standardID}", h.handleSupplierCheckCompliance)
	r.Post("/suppliers/admin/transfer", h.handleSupplierTransferAdmin)
}

type registerSupplierRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) handleSupplierRegister(w http.ResponseWriter, r *http.Request) {
	var req registerSupplierRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.suppliers.Register(r.Context(), caller, req.ID, req.Name); err != nil {
		h.observeFailure("supplier", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("supplier", "register")
	w.WriteHeader(http.StatusCreated)
}

type verifySupplierRequest struct {
	Score uint64 `json:"score"`
}

func (h *Handler) handleSupplierVerify(w http.ResponseWriter, r *http.Request) {
	var req verifySupplierRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.suppliers.Verify(r.Context(), caller, chi.URLParam(r, "id"), req.Score); err != nil {
		h.observeFailure("supplier", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("supplier", "verify")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSupplierGet(w http.ResponseWriter, r *http.Request) {
	sup, err := h.suppliers.Supplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

type addStandardRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredScore uint64 `json:"required_score"`
}

func (h *Handler) handleSupplierAddStandard(w http.ResponseWriter, r *http.Request) {
	var req addStandardRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.suppliers.AddStandard(r.Context(), caller, req.ID, req.Name, req.Description, req.RequiredScore); err != nil {
		h.observeFailure("supplier", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("supplier", "add_standard")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleSupplierGetStandard(w http.ResponseWriter, r *http.Request) {
	std, err := h.suppliers.Standard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, std)
}

type recordComplianceRequest struct {
	StandardID   string `json:"standard_id"`
	Compliant    bool   `json:"compliant"`
	EvidenceHash string `json:"evidence_hash"`
}

func (h *Handler) handleSupplierRecordCompliance(w http.ResponseWriter, r *http.Request) {
	var req recordComplianceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	evidence, err := domain.ParseHash(req.EvidenceHash)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.suppliers.RecordCompliance(r.Context(), caller, chi.URLParam(r, "id"), req.StandardID, req.Compliant, evidence); err != nil {
		h.observeFailure("supplier", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("supplier", "record_compliance")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSupplierCheckCompliance(w http.ResponseWriter, r *http.Request) {
	rec, err := h.suppliers.CheckCompliance(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "standardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type transferAdminRequest struct {
	NewAdmin string `json:"new_admin"`
}

func (h *Handler) handleSupplierTransferAdmin(w http.ResponseWriter, r *http.Request) {
	var req transferAdminRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.suppliers.TransferAdmin(r.Context(), caller, domain.Identity(req.NewAdmin)); err != nil {
		h.observeFailure("supplier", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("supplier", "transfer_admin")
	w.WriteHeader(http.StatusNoContent)
}

// observeFailure tracks authorization rejections; other failures are visible
// through status-code metrics at the proxy layer.
func (h *Handler) observeFailure(store string, err error) {
	if dErrors.HasCode(err, dErrors.CodeNotAuthorized) {
		h.metrics.RecordAuthzFailure(store)
	}
}

func (h *Handler) handleSupplierList(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.Suppliers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) handleSupplierListStandards(w http.ResponseWriter, r *http.Request) {
	standards, err := h.suppliers.Standards(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standards)
}
