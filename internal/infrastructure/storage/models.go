package storage

import (
	"time"

	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
)

// Run records one reconciliation: which location was matched, with what
// outcome counts, and the full result for later review. The matching core
// never reads these back; run history is bookkeeping only.
type Run struct {
	ID                    string    `json:"id"`
	Location              string    `json:"location"`
	Strategy              string    `json:"strategy"`
	StartedAt             time.Time `json:"started_at"`
	CompletedAt           time.Time `json:"completed_at"`
	OrderCount            int       `json:"order_count"`
	PaymentCount          int       `json:"payment_count"`
	MatchedCount          int       `json:"matched_count"`
	UnmatchedOrderCount   int       `json:"unmatched_order_count"`
	UnmatchedPaymentCount int       `json:"unmatched_payment_count"`

	// Full result, stored as JSON. Nil on list queries; loaded on Get.
	Result *recon.Result `json:"result,omitempty"`
}
