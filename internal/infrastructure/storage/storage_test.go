package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeRun(id string, completedAt time.Time) *Run {
	return &Run{
		ID:                    id,
		Location:              "Oslo",
		Strategy:              "first_fit",
		StartedAt:             completedAt.Add(-time.Second),
		CompletedAt:           completedAt,
		OrderCount:            3,
		PaymentCount:          3,
		MatchedCount:          2,
		UnmatchedOrderCount:   1,
		UnmatchedPaymentCount: 1,
		Result: &recon.Result{
			Matches: []recon.Match{
				{
					Order:   recon.Order{ID: "o1", PaidAmount: decimal.NewFromInt(100)},
					Payment: recon.Payment{Ref: "p1", Amount: decimal.NewFromInt(100)},
				},
			},
			UnmatchedOrders:   []recon.Order{{ID: "o2"}},
			UnmatchedPayments: []recon.Payment{{Ref: "p2"}},
		},
	}
}

func TestStorage_SaveAndGetRun(t *testing.T) {
	s := newTestStorage(t)

	run := makeRun("run-1", time.Date(2025, 3, 14, 16, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(run))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Oslo", got.Location)
	assert.Equal(t, "first_fit", got.Strategy)
	assert.Equal(t, 2, got.MatchedCount)
	require.NotNil(t, got.Result)
	require.Len(t, got.Result.Matches, 1)
	assert.Equal(t, "o1", got.Result.Matches[0].Order.ID)
	assert.True(t, got.Result.Matches[0].Payment.Amount.Equal(decimal.NewFromInt(100)))
}

func TestStorage_GetRunNotFound(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.GetRun("missing")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_SaveRunRequiresID(t *testing.T) {
	s := newTestStorage(t)

	err := s.SaveRun(&Run{})

	assert.Error(t, err)
}

func TestStorage_SaveRunOverwrites(t *testing.T) {
	s := newTestStorage(t)

	run := makeRun("run-1", time.Now().UTC())
	require.NoError(t, s.SaveRun(run))
	run.MatchedCount = 99
	require.NoError(t, s.SaveRun(run))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, 99, got.MatchedCount)
}

func TestStorage_ListRunsNewestFirst(t *testing.T) {
	s := newTestStorage(t)

	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(makeRun("run-old", base)))
	require.NoError(t, s.SaveRun(makeRun("run-new", base.Add(time.Hour))))

	runs, err := s.ListRuns(10)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
	// Results stay behind GetRun
	assert.Nil(t, runs[0].Result)
}

func TestStorage_ListRunsLimit(t *testing.T) {
	s := newTestStorage(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRun(makeRun(
			"run-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))))
	}

	runs, err := s.ListRuns(3)

	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestStorage_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveRun(makeRun("run-1", time.Now().UTC())))
	require.NoError(t, s1.Close())

	// Reopening runs migrations again; data survives.
	s2, err := NewStorage(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetRun("run-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestMockRepository_Behavior(t *testing.T) {
	m := NewMockRepository()

	base := time.Now().UTC()
	require.NoError(t, m.SaveRun(makeRun("run-1", base)))
	require.NoError(t, m.SaveRun(makeRun("run-2", base.Add(time.Minute))))

	got, err := m.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	runs, err := m.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)

	missing, err := m.GetRun("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
