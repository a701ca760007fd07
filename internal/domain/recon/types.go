package recon

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawOrder is one row of the webshop order export, fields exactly as exported.
// Amounts and timestamps stay as strings until normalization so a bad cell
// never aborts ingestion.
type RawOrder struct {
	Name               string `json:"name"`
	ID                 string `json:"id"`
	PaymentMethod      string `json:"payment_method"`
	FinancialStatus    string `json:"financial_status"`
	Total              string `json:"total"`
	OutstandingBalance string `json:"outstanding_balance"`
	Location           string `json:"location"`
	CreatedAt          string `json:"created_at"`
}

// RawPayment is one row of the terminal settlement export.
type RawPayment struct {
	MerchantID      string `json:"merchant_id"`
	SaleAmount      string `json:"sale_amount"`
	TransactionDate string `json:"transaction_date"`
	TransactionTime string `json:"transaction_time"`
	TransactionRef  string `json:"transaction_ref"`
}

// Order is a normalized webshop order ready for matching.
// A zero CreatedAt means the export timestamp was unparseable; such an order
// fails every time-window check and always ends up unmatched.
type Order struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PaymentMethod string          `json:"payment_method"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	Location      string          `json:"location"`
}

// Payment is a normalized terminal settlement record. Location is resolved
// from the merchant ID; an empty Location means the merchant is unknown and
// the payment belongs to no partition.
type Payment struct {
	Ref       string          `json:"ref"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Location  string          `json:"location"`
}

// Match pairs one order with one settlement payment.
type Match struct {
	Order           Order           `json:"order"`
	Payment         Payment         `json:"payment"`
	AmountDiff      decimal.Decimal `json:"amount_diff"`       // order minus payment
	TimeDiffSeconds float64         `json:"time_diff_seconds"` // absolute
}

// Result holds the three output collections of one reconciliation run.
// Every input record appears in exactly one of them.
type Result struct {
	Matches           []Match   `json:"matches"`
	UnmatchedOrders   []Order   `json:"unmatched_orders"`
	UnmatchedPayments []Payment `json:"unmatched_payments"`
}
