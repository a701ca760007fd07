// Package cli holds shared flag parsing and terminal output for the
// command-line tools.
package cli

import "flag"

// ReconcileFlags are the flags of the one-shot reconcile command.
type ReconcileFlags struct {
	OrdersPath      string
	PaymentsPath    string
	Location        string
	ConfigPath      string
	AmountTolerance float64
	TimeTolerance   int
	Strategy        string
	NoHistory       bool
	Verbose         bool
}

// ParseReconcileFlags parses the reconcile command line.
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	flag.StringVar(&flags.OrdersPath, "orders", "", "Path to the webshop orders CSV export")
	flag.StringVar(&flags.PaymentsPath, "payments", "", "Path to the settlement XLSX export")
	flag.StringVar(&flags.Location, "location", "", "Store location to reconcile (empty lists locations and exits)")
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to the config file")
	flag.Float64Var(&flags.AmountTolerance, "amount-tolerance", -1, "Override amount tolerance in NOK (-1 = from config)")
	flag.IntVar(&flags.TimeTolerance, "time-tolerance", -1, "Override time tolerance in seconds (-1 = from config)")
	flag.StringVar(&flags.Strategy, "strategy", "", "Matching strategy: first_fit or best_fit (empty = from config)")
	flag.BoolVar(&flags.NoHistory, "no-history", false, "Skip recording the run in the database")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
