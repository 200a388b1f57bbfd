package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairtrace/internal/consumer"
	"fairtrace/internal/platform/middleware"
	"fairtrace/pkg/domain"
)

func (h *Handler) registerConsumerRoutes(r chi.Router) {
	r.Post("/consumer/verifications", h.handleConsumerRegisterVerification)
	r.Get("/consumer/verifications", h.handleConsumerListVerifications)
	r.Get("/consumer/verifications/{productID}", h.handleConsumerGetVerification)
	r.Get("/consumer/verifications/{productID}/ethical", h.handleConsumerIsEthical)
	r.Post("/consumer/requests", h.handleConsumerRequestVerification)
	r.Get("/consumer/requests/{id}", h.handleConsumerGetRequest)
	r.Post("/consumer/requests/{id}/respond", h.handleConsumerRespondToRequest)
	r.Post("/consumer/reviews", h.handleConsumerSubmitReview)
	r.Get("/consumer/reviews/{productID}", h.handleConsumerListReviews)
	r.Get("/consumer/reviews/{productID}/rating", h.handleConsumerRating)
	r.Post("/consumer/admin/transfer", h.handleConsumerTransferAdmin)
}

type registerVerificationRequest struct {
	ProductID          string `json:"product_id"`
	EthicalScore       uint64 `json:"ethical_score"`
	LaborCertified     bool   `json:"labor_certified"`
	MaterialsCertified bool   `json:"materials_certified"`
	VerificationHash   string `json:"verification_hash"`
}

func (h *Handler) handleConsumerRegisterVerification(w http.ResponseWriter, r *http.Request) {
	var req registerVerificationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	hash, err := domain.ParseHash(req.VerificationHash)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.consumers.RegisterVerification(r.Context(), caller, req.ProductID, req.EthicalScore, req.LaborCertified, req.MaterialsCertified, hash); err != nil {
		h.observeFailure("consumer", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("consumer", "register_verification")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConsumerGetVerification(w http.ResponseWriter, r *http.Request) {
	v, err := h.consumers.Verification(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) handleConsumerIsEthical(w http.ResponseWriter, r *http.Request) {
	h.metrics.EthicalChecks.Inc()
	ethical := h.consumers.IsProductEthical(r.Context(), chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, map[string]bool{"ethical": ethical})
}

type requestVerificationRequest struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
}

func (h *Handler) handleConsumerRequestVerification(w http.ResponseWriter, r *http.Request) {
	var req requestVerificationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.consumers.RequestVerification(r.Context(), caller, req.ID, req.ProductID); err != nil {
		h.observeFailure("consumer", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("consumer", "request_verification")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleConsumerGetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.consumers.Request(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type respondToRequestRequest struct {
	Status           string `json:"status"`
	VerificationHash string `json:"verification_hash"`
}

func (h *Handler) handleConsumerRespondToRequest(w http.ResponseWriter, r *http.Request) {
	var req respondToRequestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	hash, err := domain.ParseHash(req.VerificationHash)
	if err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.consumers.RespondToRequest(r.Context(), caller, chi.URLParam(r, "id"), consumer.RequestStatus(req.Status), hash); err != nil {
		h.observeFailure("consumer", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("consumer", "respond_to_request")
	w.WriteHeader(http.StatusNoContent)
}

type submitReviewRequest struct {
	ProductID        string `json:"product_id"`
	Rating           uint64 `json:"rating"`
	Text             string `json:"text"`
	VerifiedPurchase bool   `json:"verified_purchase"`
}

func (h *Handler) handleConsumerSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.consumers.SubmitReview(r.Context(), caller, req.ProductID, req.Rating, req.Text, req.VerifiedPurchase); err != nil {
		h.observeFailure("consumer", err)
		writeError(w, err)
		return
	}
	h.metrics.ReviewsSubmitted.Inc()
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleConsumerListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.consumers.Reviews(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) handleConsumerRating(w http.ResponseWriter, r *http.Request) {
	rating, err := h.consumers.Rating(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

func (h *Handler) handleConsumerTransferAdmin(w http.ResponseWriter, r *http.Request) {
	var req transferAdminRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := middleware.GetCaller(r.Context())
	if err := h.consumers.TransferAdmin(r.Context(), caller, domain.Identity(req.NewAdmin)); err != nil {
		h.observeFailure("consumer", err)
		writeError(w, err)
		return
	}
	h.metrics.RecordMutation("consumer", "transfer_admin")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConsumerListVerifications(w http.ResponseWriter, r *http.Request) {
	verifications, err := h.consumers.Verifications(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifications)
}
