// Package recon implements the settlement reconciliation core: normalizing
// the webshop order export and the card-terminal settlement export into
// comparable records, partitioning them by store location, and matching
// orders to payments under amount and time tolerances.
//
// The package does no I/O and holds no state across runs. Malformed fields
// are absorbed during normalization (zero amount, zero timestamp) and surface
// as unmatched records rather than errors.
package recon

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// paymentTimeLayout is the exact layout of a settlement date joined with its
// time column by a single space.
const paymentTimeLayout = "2006-01-02 15:04:05"

// orderTimeLayouts are tried in order for the webshop Created at column.
// Zone-aware layouts come first; the offset is discarded after parsing.
var orderTimeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// marker in Financial Status for orders not fully paid at creation
const partiallyPaidStatus = "partially_paid"

// Normalizer converts raw export rows into comparable records.
type Normalizer struct {
	resolver    *Resolver
	labelPrefix string
}

// NewNormalizer creates a normalizer. labelPrefix is the brand-name noise
// stripped from webshop location labels (e.g. "Unaas Cycling ").
func NewNormalizer(resolver *Resolver, labelPrefix string) *Normalizer {
	return &Normalizer{
		resolver:    resolver,
		labelPrefix: labelPrefix,
	}
}

// Order normalizes one webshop order row. It never fails: amounts that don't
// parse become zero and timestamps that don't parse become the zero time.
func (n *Normalizer) Order(raw RawOrder) Order {
	total := parseAmount(raw.Total)

	paid := total
	if strings.EqualFold(strings.TrimSpace(raw.FinancialStatus), partiallyPaidStatus) {
		paid = total.Sub(parseAmount(raw.OutstandingBalance))
	}

	return Order{
		ID:            strings.TrimSpace(raw.ID),
		Name:          strings.TrimSpace(raw.Name),
		PaymentMethod: strings.TrimSpace(raw.PaymentMethod),
		PaidAmount:    paid.Round(2),
		CreatedAt:     parseOrderTime(raw.CreatedAt),
		Location:      n.cleanLabel(raw.Location),
	}
}

// Orders normalizes a whole collection, preserving input order.
func (n *Normalizer) Orders(raws []RawOrder) []Order {
	orders := make([]Order, 0, len(raws))
	for _, raw := range raws {
		orders = append(orders, n.Order(raw))
	}
	return orders
}

// Payment normalizes one settlement row. The location comes from the merchant
// table; unknown merchant IDs leave it empty.
func (n *Normalizer) Payment(raw RawPayment) Payment {
	location := ""
	if id, ok := parseMerchantID(raw.MerchantID); ok {
		location, _ = n.resolver.Resolve(id)
	}

	return Payment{
		Ref:       strings.TrimSpace(raw.TransactionRef),
		Amount:    parseAmount(raw.SaleAmount).Round(2),
		Timestamp: parsePaymentTime(raw.TransactionDate, raw.TransactionTime),
		Location:  location,
	}
}

// Payments normalizes a whole collection, preserving input order.
func (n *Normalizer) Payments(raws []RawPayment) []Payment {
	payments := make([]Payment, 0, len(raws))
	for _, raw := range raws {
		payments = append(payments, n.Payment(raw))
	}
	return payments
}

// cleanLabel strips the configured brand prefix and surrounding whitespace
// from a webshop location label. Comparison downstream is case-sensitive.
func (n *Normalizer) cleanLabel(label string) string {
	if n.labelPrefix != "" {
		label = strings.ReplaceAll(label, n.labelPrefix, "")
	}
	return strings.TrimSpace(label)
}

// parseAmount coerces an exported amount string to a decimal. Thousands
// separators and embedded spaces are stripped first. Anything that still
// doesn't parse becomes zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseMerchantID handles both integer cells and spreadsheet floats like
// "65778282.0".
func parseMerchantID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

// parseOrderTime parses the webshop Created at column. Any zone offset is
// dropped, keeping the wall-clock reading as written rather than converting.
func parseOrderTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range orderTimeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return time.Time{}
}

// parsePaymentTime joins the settlement date and time columns with a single
// space and parses the pair strictly. Unparseable pairs yield the zero time.
func parsePaymentTime(date, clock string) time.Time {
	joined := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	t, err := time.Parse(paymentTimeLayout, joined)
	if err != nil {
		return time.Time{}
	}
	return t
}
