package domain

import (
	dErrors "fairtrace/pkg/domain-errors"
)

// Identity is the opaque caller identifier supplied by the host platform
// (a ledger address in the original deployment). The core never validates
// identities against an external registry; any non-empty value is accepted.
type Identity string

func (i Identity) IsZero() bool {
	return i == ""
}

func (i Identity) String() string {
	return string(i)
}

// MaxIDLength bounds record identifiers. The host platform caps keys at 64
// characters; longer values are rejected at the service boundary.
const MaxIDLength = 64

// ValidateID enforces the identifier invariant shared by every store:
// non-empty and at most MaxIDLength characters.
func ValidateID(id string) error {
	if id == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "identifier must not be empty")
	}
	if len(id) > MaxIDLength {
		return dErrors.New(dErrors.CodeInvalidInput, "identifier exceeds maximum length")
	}
	return nil
}
