package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
)

const defaultListLimit = 50

// Storage provides SQLite-backed run history.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRun persists a completed run, including its full result.
func (s *Storage) SaveRun(run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID must not be empty")
	}

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO reconciliation_runs
	(id, location, strategy, started_at, completed_at,
	 order_count, payment_count, matched_count,
	 unmatched_order_count, unmatched_payment_count, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		run.ID,
		run.Location,
		run.Strategy,
		run.StartedAt,
		run.CompletedAt,
		run.OrderCount,
		run.PaymentCount,
		run.MatchedCount,
		run.UnmatchedOrderCount,
		run.UnmatchedPaymentCount,
		string(resultJSON),
	)

	return err
}

// GetRun retrieves a run by ID with its full result loaded.
func (s *Storage) GetRun(id string) (*Run, error) {
	query := `
	SELECT id, location, strategy, started_at, completed_at,
	       order_count, payment_count, matched_count,
	       unmatched_order_count, unmatched_payment_count, result_json
	FROM reconciliation_runs WHERE id = ?
	`

	run := &Run{}
	var resultJSON string
	err := s.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.Location,
		&run.Strategy,
		&run.StartedAt,
		&run.CompletedAt,
		&run.OrderCount,
		&run.PaymentCount,
		&run.MatchedCount,
		&run.UnmatchedOrderCount,
		&run.UnmatchedPaymentCount,
		&resultJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if resultJSON != "" && resultJSON != "null" {
		var result recon.Result
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("failed to decode result for run %s: %w", id, err)
		}
		run.Result = &result
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first, without results.
func (s *Storage) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
	SELECT id, location, strategy, started_at, completed_at,
	       order_count, payment_count, matched_count,
	       unmatched_order_count, unmatched_payment_count
	FROM reconciliation_runs
	ORDER BY completed_at DESC
	LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID,
			&run.Location,
			&run.Strategy,
			&run.StartedAt,
			&run.CompletedAt,
			&run.OrderCount,
			&run.PaymentCount,
			&run.MatchedCount,
			&run.UnmatchedOrderCount,
			&run.UnmatchedPaymentCount,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
