// Command reconcile runs one reconciliation from the command line: the
// webshop orders CSV against the terminal settlement XLSX, for one store
// location.
//
// With no -location it lists the locations present in the feeds and exits.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/unaascycling/settlement-recon-backend/internal/application/reconcile"
	"github.com/unaascycling/settlement-recon-backend/internal/cli"
	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/config"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/logging"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/storage"
	"github.com/unaascycling/settlement-recon-backend/internal/ingest"
)

func main() {
	flags := cli.ParseReconcileFlags()

	if flags.OrdersPath == "" || flags.PaymentsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -orders orders.csv -payments payments.xlsx [-location Oslo]")
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	applyOverrides(cfg, flags)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "recon")

	orders, payments, err := readFeeds(flags)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var repo storage.Repository
	if !flags.NoHistory {
		store, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer store.Close()
		repo = store
	}

	service := reconcile.NewService(cfg, repo, logger)

	if flags.Location == "" {
		cli.PrintLocations(service.Locations(orders, payments))
		return
	}

	result, err := service.Reconcile(context.Background(), orders, payments, flags.Location)
	if err != nil {
		log.Fatalf("reconciliation failed: %v", err)
	}

	cli.PrintRunResult(result)
}

func applyOverrides(cfg *config.Config, flags cli.ReconcileFlags) {
	if flags.AmountTolerance >= 0 {
		cfg.Matching.AmountTolerance = flags.AmountTolerance
	}
	if flags.TimeTolerance >= 0 {
		cfg.Matching.TimeToleranceSeconds = flags.TimeTolerance
	}
	if flags.Strategy != "" {
		cfg.Matching.Strategy = flags.Strategy
	}
}

func readFeeds(flags cli.ReconcileFlags) ([]recon.RawOrder, []recon.RawPayment, error) {
	ordersFile, err := os.Open(flags.OrdersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening orders feed: %w", err)
	}
	defer ordersFile.Close()

	orders, err := ingest.ReadOrders(ordersFile)
	if err != nil {
		return nil, nil, err
	}

	paymentsFile, err := os.Open(flags.PaymentsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening payments feed: %w", err)
	}
	defer paymentsFile.Close()

	payments, err := ingest.ReadPayments(paymentsFile)
	if err != nil {
		return nil, nil, err
	}

	return orders, payments, nil
}
