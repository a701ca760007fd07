package recon

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Strategy selects how the matcher picks among in-tolerance candidates.
type Strategy string

const (
	// StrategyFirstFit takes the first surviving payment in scan order that
	// satisfies both tolerances. Deterministic given input order; not
	// cost-optimal when several candidates are in tolerance. This is the
	// default and matches the historical behavior exactly.
	StrategyFirstFit Strategy = "first_fit"

	// StrategyBestFit takes the in-tolerance payment with the lowest combined
	// deviation (amount and time, each normalized by its tolerance). Ties
	// break on scan order.
	StrategyBestFit Strategy = "best_fit"
)

// Config holds matcher tolerances and strategy.
type Config struct {
	AmountTolerance decimal.Decimal // inclusive, in monetary units
	TimeTolerance   time.Duration   // inclusive
	Strategy        Strategy
}

// DefaultConfig returns the production tolerances: 5 NOK and 5 minutes,
// first-fit selection.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: decimal.NewFromInt(5),
		TimeTolerance:   5 * time.Minute,
		Strategy:        StrategyFirstFit,
	}
}

// Matcher pairs orders with settlement payments one-to-one.
type Matcher struct {
	config Config
}

// NewMatcher creates a matcher with the given config.
func NewMatcher(config Config) *Matcher {
	if config.Strategy == "" {
		config.Strategy = StrategyFirstFit
	}
	return &Matcher{config: config}
}

// Reconcile matches orders against payments, both already partitioned to one
// location. Every input record lands in exactly one output collection, and no
// record appears in more than one match.
//
// Orders are visited in input order. For each order the surviving payments
// are scanned left to right; a claimed payment is tombstoned rather than
// removed so scan order stays the tie-break rule. Quadratic in the worst
// case, which is fine for one location's daily batch.
func (m *Matcher) Reconcile(orders []Order, payments []Payment) Result {
	result := Result{
		Matches:           []Match{},
		UnmatchedOrders:   []Order{},
		UnmatchedPayments: []Payment{},
	}

	used := make([]bool, len(payments))

	for _, order := range orders {
		idx := -1
		bestScore := math.Inf(1)

		for j, payment := range payments {
			if used[j] {
				continue
			}
			score, ok := m.score(order, payment)
			if !ok {
				continue
			}
			if m.config.Strategy == StrategyFirstFit {
				idx = j
				break
			}
			if score < bestScore {
				idx = j
				bestScore = score
			}
		}

		if idx < 0 {
			result.UnmatchedOrders = append(result.UnmatchedOrders, order)
			continue
		}

		used[idx] = true
		payment := payments[idx]
		result.Matches = append(result.Matches, Match{
			Order:           order,
			Payment:         payment,
			AmountDiff:      order.PaidAmount.Sub(payment.Amount),
			TimeDiffSeconds: math.Abs(order.CreatedAt.Sub(payment.Timestamp).Seconds()),
		})
	}

	for j, payment := range payments {
		if !used[j] {
			result.UnmatchedPayments = append(result.UnmatchedPayments, payment)
		}
	}

	return result
}

// score reports whether the pair is within both tolerance windows and, if so,
// its combined deviation for best-fit selection. A zero timestamp on either
// side fails the time window unconditionally.
func (m *Matcher) score(order Order, payment Payment) (float64, bool) {
	if order.CreatedAt.IsZero() || payment.Timestamp.IsZero() {
		return 0, false
	}

	amountDiff := order.PaidAmount.Sub(payment.Amount).Abs()
	if amountDiff.GreaterThan(m.config.AmountTolerance) {
		return 0, false
	}

	timeDiff := order.CreatedAt.Sub(payment.Timestamp)
	if timeDiff < 0 {
		timeDiff = -timeDiff
	}
	if timeDiff > m.config.TimeTolerance {
		return 0, false
	}

	amountScore := 0.0
	if !m.config.AmountTolerance.IsZero() {
		amountScore = amountDiff.InexactFloat64() / m.config.AmountTolerance.InexactFloat64()
	}
	timeScore := 0.0
	if m.config.TimeTolerance > 0 {
		timeScore = timeDiff.Seconds() / m.config.TimeTolerance.Seconds()
	}

	return amountScore + timeScore, true
}
