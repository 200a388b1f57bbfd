package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairtrace/internal/platform/middleware"
	"fairtrace/pkg/domain"
)

func (h *Handler) registerLaborRoutes(r chi.Router) {
	r.Post("/labor/employers", h.handleLaborRegister)
	r.Get("/labor/employers", h.handleLaborList)
	r.Get("/labor/employers/{id}", h.handleLaborGet)
	r.Get("/labor/employers/{id}/valid", h.handleLaborIsValid)
	r.Post("/labor/employers/{id}/certify", h.handleLaborCertify)
	r.Post("/labor/standards", h.handleLaborAddStandard)
	r.Get("/labor/standards", h.handleLaborListStandards)
	r.Get("/labor/standards/{id}", h.handleLaborGetStandard)
	r.Post("/labor/employers/{id}/compliance", h.handleLaborRecordCompliance)
	r.Get("/labor/employers/{id}/compliance/{standardID}", h.handleLaborCheckCompliance)
	r.Post("/labor/admin/transfer", h.handleLaborTransferAdmin)
}

type registerEmployerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) handleLaborRegister(w http.ResponseWriter, r *http.Request) {
	var req registerEmployerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.labor.Register(r.Context(), caller, req.ID, req.Name); err != nil {
		h.observeFailure("labor", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("labor", "register")
	w.WriteHeader(http.StatusCreated)
}

type certifyRequest struct {
	CertificationType string `json:"certification_type"`
	ExpirationBlocks  uint64 `json:"expiration_blocks"`
}

func (h *Handler) handleLaborCertify(w http.ResponseWriter, r *http.Request) {
	var req certifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.labor.Certify(r.Context(), caller, chi.URLParam(r, "id"), req.CertificationType, req.ExpirationBlocks); err != nil {
		h.observeFailure("labor", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("labor", "certify")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLaborGet(w http.ResponseWriter, r *http.Request) {
	cert, err := h.labor.Certification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (h *Handler) handleLaborIsValid(w http.ResponseWriter, r *http.Request) {
	valid := h.labor.IsValid(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

type addLaborStandardRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	MinimumWage     uint64 `json:"minimum_wage"`
	MaxHoursPerWeek uint64 `json:"max_hours_per_week"`
}

func (h *Handler) handleLaborAddStandard(w http.ResponseWriter, r *http.Request) {
	var req addLaborStandardRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.labor.AddStandard(r.Context(), caller, req.ID, req.Name, req.Description, req.MinimumWage, req.MaxHoursPerWeek); err != nil {
		h.observeFailure("labor", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("labor", "add_standard")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleLaborGetStandard(w http.ResponseWriter, r *http.Request) {
	std, err := h.labor.Standard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, std)
}

type recordLaborComplianceRequest struct {
	StandardID      string `json:"standard_id"`
	Compliant       bool   `json:"compliant"`
	EvidenceHash    string `json:"evidence_hash"`
	NextAuditBlocks uint64 `json:"next_audit_blocks"`
}

func (h *Handler) handleLaborRecordCompliance(w http.ResponseWriter, r *http.Request) {
	var req recordLaborComplianceRequest
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
	if err := h.labor.RecordCompliance(r.Context(), caller, chi.URLParam(r, "id"), req.StandardID, req.Compliant, evidence, req.NextAuditBlocks); err != nil {
		h.observeFailure("labor", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("labor", "record_compliance")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLaborCheckCompliance(w http.ResponseWriter, r *http.Request) {
	rec, err := h.labor.CheckCompliance(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "standardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleLaborTransferAdmin(w http.ResponseWriter, r *http.Request) {
	var req transferAdminRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.labor.TransferAdmin(r.Context(), caller, domain.Identity(req.NewAdmin)); err != nil {
		h.observeFailure("labor", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("labor", "transfer_admin")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLaborList(w http.ResponseWriter, r *http.Request) {
	certs, err := h.labor.Certifications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

func (h *Handler) handleLaborListStandards(w http.ResponseWriter, r *http.Request) {
	standards, err := h.labor.Standards(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standards)
}
