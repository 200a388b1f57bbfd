package consumer

import (
	"context"
	"errors"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/ledger"
	"fairtrace/internal/registry"
	"fairtrace/pkg/domain"
	dErrors "fairtrace/pkg/domain-errors"
	"fairtrace/pkg/platform/sentinel"
)

const storeName = "consumer"

// Service implements the consumer verification store: published product
// verifications, consumer verification requests, and append-once reviews.
// Requests and reviews are caller-gated only; everything else is admin-gated.
type Service struct {
	gate          *authority.Gate
	clock         ledger.Clock
	verifications registry.Store[string, ProductVerification]
	requests      registry.Store[string, VerificationRequest]
	reviews       ReviewStore
	audit         *audit.Recorder
}

func NewService(
	gate *authority.Gate,
	clock ledger.Clock,
	verifications registry.Store[string, ProductVerification],
	requests registry.Store[string, VerificationRequest],
	reviews ReviewStore,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		gate:          gate,
		clock:         clock,
		verifications: verifications,
		requests:      requests,
		reviews:       reviews,
		audit:         recorder,
	}
}

// RegisterVerification publishes (or republishes) the verification for a
// product. Admin-gated. This is the one register that upserts: a second call
// for the same product silently overwrites the prior verification.
func (s *Service) RegisterVerification(ctx context.Context, caller domain.Identity, productID string, score uint64, laborCertified, materialsCertified bool, hash domain.Hash) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if err := domain.ValidateID(productID); err != nil {
		return err
	}
	record := ProductVerification{
		EthicalScore:       score,
		LaborCertified:     laborCertified,
		MaterialsCertified: materialsCertified,
		VerificationDate:   s.clock.Height(),
		Verifier:           caller,
		VerificationHash:   hash,
	}
	if err := s.verifications.Put(ctx, productID, record); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "register_verification", Actor: caller, Subject: productID, Height: record.VerificationDate})
	return nil
}

// RequestVerification opens a pending request. Open to any caller;
// create-once per request id.
func (s *Service) RequestVerification(ctx context.Context, caller domain.Identity, requestID, productID string) error {
	if err := domain.ValidateID(requestID); err != nil {
		return err
	}
	if err := domain.ValidateID(productID); err != nil {
		return err
	}
	record := VerificationRequest{
		ProductID:   productID,
		Consumer:    caller,
		RequestDate: s.clock.Height(),
		Status:      RequestPending,
	}
	if err := s.requests.Create(ctx, requestID, record); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyExists, "request already exists")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "request_verification", Actor: caller, Subject: requestID, Height: record.RequestDate})
	return nil
}

// RespondToRequest resolves a pending request with a terminal status and an
// optional response hash. Admin-gated; the request must exist.
func (s *Service) RespondToRequest(ctx context.Context, caller domain.Identity, requestID string, status RequestStatus, hash domain.Hash) error {
	if err := s.gate.Require(caller); err != nil {
		return err
	}
	if status != RequestCompleted && status != RequestRejected {
		return dErrors.New(dErrors.CodeInvalidInput, "status must be completed or rejected")
	}
	err := s.requests.Update(ctx, requestID, func(r VerificationRequest) VerificationRequest {
		r.Status = status
		r.ResponseHash = hash
		return r
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "respond_to_request", Actor: caller, Subject: requestID, Height: s.clock.Height()})
	return nil
}

// SubmitReview appends one review per (product, caller) pair. Open to any
// caller. Ratings above MaxRating are rejected; zero is valid.
func (s *Service) SubmitReview(ctx context.Context, caller domain.Identity, productID string, rating uint64, text string, verifiedPurchase bool) error {
	if err := domain.ValidateID(productID); err != nil {
		return err
	}
	if rating > MaxRating {
		return dErrors.New(dErrors.CodeInvalidRating, "rating must be at most 5")
	}
	review := Review{
		Rating:           rating,
		ReviewText:       text,
		ReviewDate:       s.clock.Height(),
		VerifiedPurchase: verifiedPurchase,
	}
	if err := s.reviews.Create(ctx, ReviewKey{ProductID: productID, Reviewer: caller}, review); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyExists) {
			return dErrors.New(dErrors.CodeAlreadyReviewed, "caller already reviewed this product")
		}
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "submit_review", Actor: caller, Subject: productID, Height: review.ReviewDate})
	return nil
}

// IsProductEthical is the consumer-facing predicate: true iff a verification
// exists with score at or above the threshold and both certification flags
// set. An absent record is false, never an error.
func (s *Service) IsProductEthical(ctx context.Context, productID string) bool {
	v, err := s.verifications.Find(ctx, productID)
	if err != nil {
		return false
	}
	return v.IsEthical()
}

// Verification returns the published verification for a product.
func (s *Service) Verification(ctx context.Context, productID string) (ProductVerification, error) {
	v, err := s.verifications.Find(ctx, productID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ProductVerification{}, dErrors.New(dErrors.CodeNotFound, "product not verified")
		}
		return ProductVerification{}, err
	}
	return v, nil
}

// Request returns a verification request by id.
func (s *Service) Request(ctx context.Context, requestID string) (VerificationRequest, error) {
	r, err := s.requests.Find(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return VerificationRequest{}, dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return VerificationRequest{}, err
	}
	return r, nil
}

// Review returns one caller's review of a product.
func (s *Service) Review(ctx context.Context, productID string, reviewer domain.Identity) (Review, error) {
	r, err := s.reviews.Find(ctx, ReviewKey{ProductID: productID, Reviewer: reviewer})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Review{}, dErrors.New(dErrors.CodeNotFound, "review not found")
		}
		return Review{}, err
	}
	return r, nil
}

// Reviews lists all reviews for a product.
func (s *Service) Reviews(ctx context.Context, productID string) ([]Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// ProductRating summarizes a product's reviews: mean rating, total count,
// and how many came from verified purchases. A product with no reviews
// yields a zero summary.
type ProductRating struct {
	Average           float64 `json:"average"`
	Count             int     `json:"count"`
	VerifiedPurchases int     `json:"verified_purchases"`
}

func (s *Service) Rating(ctx context.Context, productID string) (ProductRating, error) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return ProductRating{}, err
	}
	if len(reviews) == 0 {
		return ProductRating{}, nil
	}
	var sum uint64
	var verified int
	for _, r := range reviews {
		sum += r.Rating
		if r.VerifiedPurchase {
			verified++
		}
	}
	return ProductRating{
		Average:           float64(sum) / float64(len(reviews)),
		Count:             len(reviews),
		VerifiedPurchases: verified,
	}, nil
}

// TransferAdmin hands store administration to newAdmin.
func (s *Service) TransferAdmin(ctx context.Context, caller, newAdmin domain.Identity) error {
	if err := s.gate.Transfer(caller, newAdmin); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Event{Store: storeName, Action: "transfer_admin", Actor: caller, Subject: string(newAdmin), Height: s.clock.Height()})
	return nil
}

// Verifications returns every published product verification keyed by
// product id.
func (s *Service) Verifications(ctx context.Context) (map[string]ProductVerification, error) {
	return registry.All(ctx, s.verifications)
}
