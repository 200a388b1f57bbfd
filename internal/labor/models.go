package labor

import (
	"fairtrace/pkg/domain"
)

// Certification is one labor-practices certification. Expiration is an
// absolute block height computed at certification time; validity uses a
// strict less-than so the certification is already invalid at exactly the
// expiration height.
type Certification struct {
	Name              string          `json:"name"`
	CertificationType string          `json:"certification_type"`
	Certified         bool            `json:"certified"`
	CertificationDate uint64          `json:"certification_date"`
	ExpirationDate    uint64          `json:"expiration_date"`
	Certifier         domain.Identity `json:"certifier"`
}

// IsValid reports whether the certification holds at the given height.
func (c Certification) IsValid(height uint64) bool {
	return c.Certified && height < c.ExpirationDate
}

// Standard is a labor-practices standard with concrete wage and hour floors.
type Standard struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	MinimumWage     uint64 `json:"minimum_wage"`
	MaxHoursPerWeek uint64 `json:"max_hours_per_week"`
}
