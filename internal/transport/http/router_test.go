package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fairtrace/internal/audit"
	"fairtrace/internal/authority"
	"fairtrace/internal/compliance"
	"fairtrace/internal/consumer"
	"fairtrace/internal/jwttoken"
	"fairtrace/internal/labor"
	"fairtrace/internal/ledger"
	"fairtrace/internal/material"
	"fairtrace/internal/platform/metrics"
	"fairtrace/internal/registry"
	"fairtrace/internal/supplier"
	"fairtrace/pkg/domain"
)

// promauto registers against the default registry, so the test binary gets
// exactly one Metrics instance.
var testMetrics = metrics.New()

type RouterSuite struct {
	suite.Suite

	router     http.Handler
	chain      *ledger.Counter
	adminToken string
	hostToken  string
	userToken  string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin := domain.Identity("0xadmin")
	host := domain.Identity("0xhost")
	hostGate := authority.NewGate(host)
	s.chain = ledger.NewCounter(100)

	recorder := audit.NewRecorder(audit.NewInMemoryStore(), logger)

	// Same admin, distinct gate per store.
	suppliers := supplier.NewService(authority.NewGate(admin), s.chain,
		registry.NewInMemory[string, supplier.Supplier](),
		registry.NewInMemory[string, supplier.Standard](),
		compliance.NewLedger(), recorder)
	laborSvc := labor.NewService(authority.NewGate(admin), s.chain,
		registry.NewInMemory[string, labor.Certification](),
		registry.NewInMemory[string, labor.Standard](),
		compliance.NewLedger(), recorder)
	materials := material.NewService(authority.NewGate(admin), s.chain,
		registry.NewInMemory[string, material.Batch](), recorder)
	consumers := consumer.NewService(authority.NewGate(admin), s.chain,
		registry.NewInMemory[string, consumer.ProductVerification](),
		registry.NewInMemory[string, consumer.VerificationRequest](),
		consumer.NewInMemoryReviewStore(), recorder)

	tokens := jwttoken.NewService("test-signing-key", "fairtrace-test")
	handler := NewHandler(logger, testMetrics, suppliers, laborSvc, materials, consumers, recorder, s.chain, hostGate)
	s.router = NewRouter(handler, tokens)

	var err error
	s.adminToken, err = tokens.Generate(admin, time.Hour)
	s.Require().NoError(err)
	s.hostToken, err = tokens.Generate(host, time.Hour)
	s.Require().NoError(err)
	s.userToken, err = tokens.Generate("0xconsumer", time.Hour)
	s.Require().NoError(err)
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decodeBody(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *RouterSuite) TestHealthIsPublic() {
	w := s.do(http.MethodGet, "/healthz", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestMissingTokenRejected() {
	w := s.do(http.MethodGet, "/suppliers/acme", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestGarbageTokenRejected() {
	w := s.do(http.MethodGet, "/suppliers/acme", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestSupplierLifecycle() {
	w := s.do(http.MethodPost, "/suppliers", s.adminToken,
		map[string]any{"id": "acme", "name": "Eco Fabrics Inc"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/suppliers/acme/verify", s.adminToken,
		map[string]any{"score": 4})
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/suppliers/acme", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var sup supplier.Supplier
	s.decodeBody(w, &sup)
	s.True(sup.Verified)
	s.Equal(uint64(4), sup.EthicalScore)
	s.Equal(uint64(100), sup.VerificationDate)
}

func (s *RouterSuite) TestSupplierRegisterRequiresAdmin() {
	w := s.do(http.MethodPost, "/suppliers", s.userToken,
		map[string]any{"id": "acme", "name": "Eco Fabrics Inc"})
	s.Equal(http.StatusForbidden, w.Code)

	var envelope map[string]string
	s.decodeBody(w, &envelope)
	s.Equal("not_authorized", envelope["error"])
}

func (s *RouterSuite) TestSupplierDuplicateRegisterConflicts() {
	body := map[string]any{"id": "acme", "name": "Eco Fabrics Inc"}
	w := s.do(http.MethodPost, "/suppliers", s.adminToken, body)
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/suppliers", s.adminToken, body)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *RouterSuite) TestSupplierNotFound() {
	w := s.do(http.MethodGet, "/suppliers/ghost", s.userToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestLaborValidityExpiresWithChain() {
	w := s.do(http.MethodPost, "/labor/employers", s.adminToken,
		map[string]any{"id": "mill-1", "name": "Fair Mill"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/labor/employers/mill-1/certify", s.adminToken,
		map[string]any{"certification_type": "fair-labor", "expiration_blocks": 10})
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/labor/employers/mill-1/valid", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp map[string]bool
	s.decodeBody(w, &resp)
	s.True(resp["valid"])

	w = s.do(http.MethodPost, "/chain/advance", s.hostToken,
		map[string]any{"blocks": 10})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/labor/employers/mill-1/valid", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decodeBody(w, &resp)
	s.False(resp["valid"])
}

func (s *RouterSuite) TestChainAdvanceRequiresHost() {
	w := s.do(http.MethodPost, "/chain/advance", s.adminToken,
		map[string]any{"blocks": 5})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(uint64(100), s.chain.Height())
}

func (s *RouterSuite) TestChainHeight() {
	w := s.do(http.MethodGet, "/chain/height", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp map[string]uint64
	s.decodeBody(w, &resp)
	s.Equal(uint64(100), resp["height"])
}

func (s *RouterSuite) TestConsumerReviewFlow() {
	w := s.do(http.MethodPost, "/consumer/verifications", s.adminToken, map[string]any{
		"product_id":          "shirt-1",
		"ethical_score":       4,
		"labor_certified":     true,
		"materials_certified": true,
	})
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/consumer/verifications/shirt-1/ethical", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var ethical map[string]bool
	s.decodeBody(w, &ethical)
	s.True(ethical["ethical"])

	w = s.do(http.MethodPost, "/consumer/reviews", s.userToken, map[string]any{
		"product_id":        "shirt-1",
		"rating":            5,
		"text":              "holds up after many washes",
		"verified_purchase": true,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	// same reviewer, same product: append-once
	w = s.do(http.MethodPost, "/consumer/reviews", s.userToken, map[string]any{
		"product_id": "shirt-1",
		"rating":     1,
	})
	s.Equal(http.StatusConflict, w.Code)
	var envelope map[string]string
	s.decodeBody(w, &envelope)
	s.Equal("already_reviewed", envelope["error"])
}

func (s *RouterSuite) TestConsumerRatingBounds() {
	w := s.do(http.MethodPost, "/consumer/reviews", s.userToken, map[string]any{
		"product_id": "shirt-1",
		"rating":     6,
	})
	s.Equal(http.StatusBadRequest, w.Code)
	var envelope map[string]string
	s.decodeBody(w, &envelope)
	s.Equal("invalid_rating", envelope["error"])
}

func (s *RouterSuite) TestMalformedEvidenceHashRejected() {
	w := s.do(http.MethodPost, "/suppliers", s.adminToken,
		map[string]any{"id": "acme", "name": "Eco Fabrics Inc"})
	s.Require().Equal(http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/suppliers/standards", s.adminToken,
		map[string]any{"id": "gots", "name": "GOTS", "required_score": 3})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/suppliers/acme/compliance", s.adminToken, map[string]any{
		"standard_id":   "gots",
		"compliant":     true,
		"evidence_hash": "zz-not-hex",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestAuditTrailListsMutations() {
	w := s.do(http.MethodPost, "/suppliers", s.adminToken,
		map[string]any{"id": "acme", "name": "Eco Fabrics Inc"})
	s.Require().Equal(http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/suppliers/acme/verify", s.adminToken,
		map[string]any{"score": 4})
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/audit/acme", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		Events []audit.Event `json:"events"`
	}
	s.decodeBody(w, &resp)
	s.Require().Len(resp.Events, 2)
	s.Equal("register", resp.Events[0].Action)
	s.Equal("verify", resp.Events[1].Action)
}

func (s *RouterSuite) TestAdminTransferScopedToOneStore() {
	w := s.do(http.MethodPost, "/suppliers/admin/transfer", s.adminToken,
		map[string]any{"new_admin": "0xsuccessor"})
	s.Require().Equal(http.StatusNoContent, w.Code)

	// The supplier store obeys its new admin.
	w = s.do(http.MethodPost, "/suppliers", s.adminToken,
		map[string]any{"id": "acme", "name": "Eco Fabrics Inc"})
	s.Equal(http.StatusForbidden, w.Code)

	// The other three stores still answer to the original admin.
	w = s.do(http.MethodPost, "/labor/employers", s.adminToken,
		map[string]any{"id": "mill-1", "name": "Fair Mill"})
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/materials/batches", s.adminToken,
		map[string]any{"id": "cotton-1", "name": "Organic Cotton", "origin": "IN"})
	s.Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/consumer/verifications", s.adminToken, map[string]any{
		"product_id": "shirt-1", "ethical_score": 3,
		"labor_certified": true, "materials_certified": true,
	})
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *RouterSuite) TestStoreListings() {
	for _, id := range []string{"acme", "looms"} {
		w := s.do(http.MethodPost, "/suppliers", s.adminToken,
			map[string]any{"id": id, "name": id})
		s.Require().Equal(http.StatusCreated, w.Code)
	}
	w := s.do(http.MethodPost, "/labor/employers", s.adminToken,
		map[string]any{"id": "mill-1", "name": "Fair Mill"})
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/suppliers", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var suppliers map[string]supplier.Supplier
	s.decodeBody(w, &suppliers)
	s.Len(suppliers, 2)
	s.Contains(suppliers, "acme")
	s.Contains(suppliers, "looms")

	w = s.do(http.MethodGet, "/labor/employers", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var certs map[string]labor.Certification
	s.decodeBody(w, &certs)
	s.Len(certs, 1)
	s.Contains(certs, "mill-1")

	w = s.do(http.MethodGet, "/materials/batches", s.userToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var batches map[string]material.Batch
	s.decodeBody(w, &batches)
	s.Empty(batches)
}
