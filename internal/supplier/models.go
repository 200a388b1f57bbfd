package supplier

import (
	"fairtrace/pkg/domain"
)

// Supplier is one verified-sourcing record. A supplier is registered once,
// unverified, and later promoted by the admin. Verification is one-way;
// there is no revocation path.
type Supplier struct {
	Name             string          `json:"name"`
	Verified         bool            `json:"verified"`
	EthicalScore     uint64          `json:"ethical_score"`
	VerificationDate uint64          `json:"verification_date"`
	Verifier         domain.Identity `json:"verifier"`
}

// Standard is an ethical-sourcing standard suppliers are audited against.
type Standard struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredScore uint64 `json:"required_score"`
}
