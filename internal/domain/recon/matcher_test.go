package recon

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// Helpers to build normalized records for matcher tests
func makeOrder(id string, amount float64, offset time.Duration) Order {
	return Order{
		ID:         id,
		Name:       "#" + id,
		PaidAmount: decimal.NewFromFloat(amount).Round(2),
		CreatedAt:  baseTime.Add(offset),
		Location:   "Oslo",
	}
}

func makePayment(ref string, amount float64, offset time.Duration) Payment {
	return Payment{
		Ref:       ref,
		Amount:    decimal.NewFromFloat(amount).Round(2),
		Timestamp: baseTime.Add(offset),
		Location:  "Oslo",
	}
}

func TestMatcher_ExactMatch(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	orders := []Order{makeOrder("1001", 499.00, 0)}
	payments := []Payment{makePayment("tx1", 499.00, 0)}

	result := m.Reconcile(orders, payments)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "1001", result.Matches[0].Order.ID)
	assert.Equal(t, "tx1", result.Matches[0].Payment.Ref)
	assert.True(t, result.Matches[0].AmountDiff.IsZero())
	assert.Zero(t, result.Matches[0].TimeDiffSeconds)
	assert.Empty(t, result.UnmatchedOrders)
	assert.Empty(t, result.UnmatchedPayments)
}

func TestMatcher_ToleranceBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		timeOffset time.Duration
		wantMatch  bool
	}{
		{"amount diff exactly 5.00", 95.00, 0, true},
		{"amount diff 5.01", 94.99, 0, false},
		{"time diff exactly 300s", 100.00, 300 * time.Second, true},
		{"time diff 301s", 100.00, 301 * time.Second, false},
		{"both at boundary", 105.00, -300 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(DefaultConfig())
			orders := []Order{makeOrder("1001", 100.00, 0)}
			payments := []Payment{makePayment("tx1", tt.amount, tt.timeOffset)}

			result := m.Reconcile(orders, payments)

			if tt.wantMatch {
				assert.Len(t, result.Matches, 1)
			} else {
				assert.Empty(t, result.Matches)
				assert.Len(t, result.UnmatchedOrders, 1)
				assert.Len(t, result.UnmatchedPayments, 1)
			}
		})
	}
}

func TestMatcher_FirstFitTakesEarliestCandidate(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	orders := []Order{makeOrder("1001", 100.00, 0)}
	// Both payments are in tolerance; tx2 is the tighter amount match but
	// tx1 comes first in scan order.
	payments := []Payment{
		makePayment("tx1", 97.00, 0),
		makePayment("tx2", 100.00, 0),
	}

	result := m.Reconcile(orders, payments)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "tx1", result.Matches[0].Payment.Ref)
	require.Len(t, result.UnmatchedPayments, 1)
	assert.Equal(t, "tx2", result.UnmatchedPayments[0].Ref)
}

func TestMatcher_BestFitTakesTightestCandidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyBestFit
	m := NewMatcher(cfg)

	orders := []Order{makeOrder("1001", 100.00, 0)}
	payments := []Payment{
		makePayment("tx1", 97.00, 0),
		makePayment("tx2", 100.00, 0),
	}

	result := m.Reconcile(orders, payments)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "tx2", result.Matches[0].Payment.Ref)
}

func TestMatcher_PaymentClaimedOnlyOnce(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	orders := []Order{
		makeOrder("1001", 100.00, 0),
		makeOrder("1002", 100.00, time.Minute),
	}
	payments := []Payment{makePayment("tx1", 100.00, 0)}

	result := m.Reconcile(orders, payments)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "1001", result.Matches[0].Order.ID)
	require.Len(t, result.UnmatchedOrders, 1)
	assert.Equal(t, "1002", result.UnmatchedOrders[0].ID)
	assert.Empty(t, result.UnmatchedPayments)
}

func TestMatcher_ZeroTimestampNeverMatches(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	orders := []Order{makeOrder("1001", 100.00, 0)}
	payment := makePayment("tx1", 100.00, 0)
	payment.Timestamp = time.Time{}

	result := m.Reconcile(orders, []Payment{payment})

	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedOrders, 1)
	require.Len(t, result.UnmatchedPayments, 1)
	assert.Equal(t, "tx1", result.UnmatchedPayments[0].Ref)
}

func TestMatcher_ZeroOrderTimestampNeverMatches(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	order := makeOrder("1001", 100.00, 0)
	order.CreatedAt = time.Time{}

	result := m.Reconcile([]Order{order}, []Payment{makePayment("tx1", 100.00, 0)})

	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedOrders, 1)
	assert.Len(t, result.UnmatchedPayments, 1)
}

func TestMatcher_Conservation(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	var orders []Order
	var payments []Payment
	for i := 0; i < 20; i++ {
		orders = append(orders, makeOrder(fmt.Sprintf("o%d", i), float64(50+i*13%200), time.Duration(i)*time.Minute))
	}
	for i := 0; i < 17; i++ {
		payments = append(payments, makePayment(fmt.Sprintf("p%d", i), float64(50+i*29%200), time.Duration(i)*time.Minute))
	}

	result := m.Reconcile(orders, payments)

	total := len(result.Matches)*2 + len(result.UnmatchedOrders) + len(result.UnmatchedPayments)
	assert.Equal(t, len(orders)+len(payments), total)
}

func TestMatcher_Injectivity(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	var orders []Order
	var payments []Payment
	// Everything within tolerance of everything else
	for i := 0; i < 10; i++ {
		orders = append(orders, makeOrder(fmt.Sprintf("o%d", i), 100.00, time.Duration(i)*time.Second))
		payments = append(payments, makePayment(fmt.Sprintf("p%d", i), 100.00, time.Duration(i)*time.Second))
	}

	result := m.Reconcile(orders, payments)

	seenOrders := make(map[string]bool)
	seenPayments := make(map[string]bool)
	for _, match := range result.Matches {
		assert.False(t, seenOrders[match.Order.ID], "order %s matched twice", match.Order.ID)
		assert.False(t, seenPayments[match.Payment.Ref], "payment %s matched twice", match.Payment.Ref)
		seenOrders[match.Order.ID] = true
		seenPayments[match.Payment.Ref] = true
	}
}

func TestMatcher_DerivedFields(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	orders := []Order{makeOrder("1001", 103.50, 0)}
	payments := []Payment{makePayment("tx1", 100.00, -2 * time.Minute)}

	result := m.Reconcile(orders, payments)

	require.Len(t, result.Matches, 1)
	match := result.Matches[0]
	assert.True(t, match.AmountDiff.Equal(decimal.NewFromFloat(3.50)), "got %s", match.AmountDiff)
	assert.Equal(t, 120.0, match.TimeDiffSeconds)
}

func TestMatcher_EmptyInputs(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	result := m.Reconcile(nil, nil)

	assert.Empty(t, result.Matches)
	assert.Empty(t, result.UnmatchedOrders)
	assert.Empty(t, result.UnmatchedPayments)
}

func TestMatcher_CustomTolerances(t *testing.T) {
	cfg := Config{
		AmountTolerance: decimal.NewFromFloat(0.01),
		TimeTolerance:   24 * time.Hour,
		Strategy:        StrategyFirstFit,
	}
	m := NewMatcher(cfg)

	orders := []Order{makeOrder("1001", 100.00, 0)}
	payments := []Payment{makePayment("tx1", 100.01, 6 * time.Hour)}

	result := m.Reconcile(orders, payments)

	assert.Len(t, result.Matches, 1)
}
