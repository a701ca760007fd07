// Package reconcile wires one reconciliation run end to end: normalize the
// raw feeds, resolve payment locations, partition to the requested store,
// run the matcher, and record the run.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/config"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/storage"
)

// Service runs reconciliations. The domain core underneath is stateless;
// the repository only records run history and may be nil for dry runs.
type Service struct {
	normalizer  *recon.Normalizer
	partitioner *recon.Partitioner
	matcher     *recon.Matcher
	strategy    recon.Strategy
	repo        storage.Repository
	logger      *slog.Logger
}

// RunResult is one completed reconciliation with its recorded run metadata.
type RunResult struct {
	Run    *storage.Run `json:"run"`
	Result recon.Result `json:"result"`
}

// NewService builds a service from configuration. repo may be nil to skip
// run recording.
func NewService(cfg *config.Config, repo storage.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	strategy := recon.Strategy(cfg.Matching.Strategy)
	if strategy == "" {
		strategy = recon.StrategyFirstFit
	}

	matcherCfg := recon.Config{
		AmountTolerance: decimal.NewFromFloat(cfg.Matching.AmountTolerance),
		TimeTolerance:   time.Duration(cfg.Matching.TimeToleranceSeconds) * time.Second,
		Strategy:        strategy,
	}

	return &Service{
		normalizer:  recon.NewNormalizer(recon.NewResolver(cfg.Feeds.Merchants), cfg.Feeds.LocationLabelPrefix),
		partitioner: recon.NewPartitioner(cfg.Feeds.ExemptPaymentMethod),
		matcher:     recon.NewMatcher(matcherCfg),
		strategy:    strategy,
		repo:        repo,
		logger:      logger,
	}
}

// Locations returns the selectable locations for the given feeds: the sorted
// union of distinct locations across both, after normalization.
func (s *Service) Locations(rawOrders []recon.RawOrder, rawPayments []recon.RawPayment) []string {
	orders := s.normalizer.Orders(rawOrders)
	payments := s.normalizer.Payments(rawPayments)
	return recon.Locations(orders, payments)
}

// Reconcile runs one reconciliation for the given location and records it.
// The context bounds the persistence step; the in-memory matching itself is
// not interruptible and is fast for one location's batch.
func (s *Service) Reconcile(ctx context.Context, rawOrders []recon.RawOrder, rawPayments []recon.RawPayment, location string) (*RunResult, error) {
	if location == "" {
		return nil, fmt.Errorf("location must not be empty")
	}

	startedAt := time.Now().UTC()

	orders := s.normalizer.Orders(rawOrders)
	payments := s.normalizer.Payments(rawPayments)
	partOrders, partPayments := s.partitioner.Partition(orders, payments, location)

	s.logger.Debug("Partitioned feeds",
		"location", location,
		"orders", len(partOrders),
		"payments", len(partPayments),
	)

	result := s.matcher.Reconcile(partOrders, partPayments)

	run := &storage.Run{
		ID:                    uuid.New().String(),
		Location:              location,
		Strategy:              string(s.strategy),
		StartedAt:             startedAt,
		CompletedAt:           time.Now().UTC(),
		OrderCount:            len(partOrders),
		PaymentCount:          len(partPayments),
		MatchedCount:          len(result.Matches),
		UnmatchedOrderCount:   len(result.UnmatchedOrders),
		UnmatchedPaymentCount: len(result.UnmatchedPayments),
		Result:                &result,
	}

	if s.repo != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.repo.SaveRun(run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	s.logger.Info("Reconciliation complete",
		"run_id", run.ID,
		"location", location,
		"matched", run.MatchedCount,
		"unmatched_orders", run.UnmatchedOrderCount,
		"unmatched_payments", run.UnmatchedPaymentCount,
	)

	return &RunResult{Run: run, Result: result}, nil
}
