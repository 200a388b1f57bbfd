package audit

import (
	"time"

	"github.com/google/uuid"

	"fairtrace/pkg/domain"
)

// Event is emitted from domain logic after every committed mutation. The
// original contracts emit ledger events for each write; this is the off-chain
// equivalent. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID      uuid.UUID       `json:"id"`
	Store   string          `json:"store"`   // supplier, labor, material, consumer
	Action  string          `json:"action"`  // e.g. "register", "verify", "transfer_admin"
	Actor   domain.Identity `json:"actor"`   // caller that performed the mutation
	Subject string          `json:"subject"` // record identifier touched
	Height  uint64          `json:"height"`  // block height at write time
	At      time.Time       `json:"at"`
}
