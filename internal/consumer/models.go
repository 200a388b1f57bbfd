package consumer

import (
	"fairtrace/pkg/domain"
)

// EthicalScoreThreshold is the minimum score for a product to count as
// ethically sourced. The predicate additionally requires both certification
// flags.
const EthicalScoreThreshold = 3

// ProductVerification is the admin-published verification for one product.
// Unlike the other stores, registering a verification is an upsert: the
// original consumer contract silently overwrites, and that behavior is
// preserved here per store rather than unified.
type ProductVerification struct {
	EthicalScore       uint64          `json:"ethical_score"`
	LaborCertified     bool            `json:"labor_certified"`
	MaterialsCertified bool            `json:"materials_certified"`
	VerificationDate   uint64          `json:"verification_date"`
	Verifier           domain.Identity `json:"verifier"`
	VerificationHash   domain.Hash     `json:"verification_hash"`
}

// IsEthical is the derived predicate consumers query. All three conditions
// must hold; a missing record degrades to false at the service layer.
func (v ProductVerification) IsEthical() bool {
	return v.EthicalScore >= EthicalScoreThreshold && v.LaborCertified && v.MaterialsCertified
}

// RequestStatus tracks a consumer verification request. Requests move from
// pending to a terminal status once; there is no re-open transition.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestCompleted RequestStatus = "completed"
	RequestRejected  RequestStatus = "rejected"
)

// VerificationRequest is one consumer's ask for a product to be verified.
type VerificationRequest struct {
	ProductID    string          `json:"product_id"`
	Consumer     domain.Identity `json:"consumer"`
	RequestDate  uint64          `json:"request_date"`
	Status       RequestStatus   `json:"status"`
	ResponseHash domain.Hash     `json:"response_hash"`
}

// MaxRating bounds review ratings. There is deliberately no lower bound: the
// rating domain is unsigned, so zero is a valid rating.
const MaxRating = 5

// Review is one consumer's product review. One review per (product, caller)
// pair, forever; no edit or delete exists.
type Review struct {
	Rating           uint64 `json:"rating"`
	ReviewText       string `json:"review_text"`
	ReviewDate       uint64 `json:"review_date"`
	VerifiedPurchase bool   `json:"verified_purchase"`
}

// ReviewKey identifies a review by its (product, reviewer) pair. A struct
// key rather than a concatenated string, so distinct pairs can never alias.
type ReviewKey struct {
	ProductID string
	Reviewer  domain.Identity
}
