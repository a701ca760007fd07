package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/unaascycling/settlement-recon-backend/internal/application/reconcile"
	"github.com/unaascycling/settlement-recon-backend/internal/domain/recon"
)

const timeFormat = "2006-01-02 15:04:05"

// PrintLocations prints the selectable locations, one per line.
func PrintLocations(locations []string) {
	if len(locations) == 0 {
		fmt.Println("No locations found in either feed.")
		return
	}
	fmt.Println("Locations:")
	for _, loc := range locations {
		fmt.Printf("  %s\n", loc)
	}
}

// PrintRunResult prints the three output collections as tables.
func PrintRunResult(result *reconcile.RunResult) {
	run := result.Run
	fmt.Printf("Reconciliation %s (%s, %s)\n", run.ID, run.Location, run.Strategy)
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Orders=%d Payments=%d Matched=%d UnmatchedOrders=%d UnmatchedPayments=%d\n\n",
		run.OrderCount,
		run.PaymentCount,
		run.MatchedCount,
		run.UnmatchedOrderCount,
		run.UnmatchedPaymentCount)

	printMatches(result.Result.Matches)
	printUnmatchedOrders(result.Result.UnmatchedOrders)
	printUnmatchedPayments(result.Result.UnmatchedPayments)
}

func printMatches(matches []recon.Match) {
	fmt.Println("Matched orders:")
	if len(matches) == 0 {
		fmt.Println("  (none)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tORDER ID\tORDER AMOUNT\tPAYMENT AMOUNT\tDIFF\tORDER TIME\tPAYMENT TIME\tDIFF (S)\tPAYMENT REF")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.0f\t%s\n",
			m.Order.Name,
			m.Order.ID,
			m.Order.PaidAmount.StringFixed(2),
			m.Payment.Amount.StringFixed(2),
			m.AmountDiff.StringFixed(2),
			formatTime(m.Order.CreatedAt),
			formatTime(m.Payment.Timestamp),
			m.TimeDiffSeconds,
			m.Payment.Ref,
		)
	}
	_ = w.Flush()
}

func printUnmatchedOrders(orders []recon.Order) {
	fmt.Println("\nUnmatched orders:")
	if len(orders) == 0 {
		fmt.Println("  (none)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tORDER ID\tAMOUNT\tCREATED AT")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			o.Name, o.ID, o.PaidAmount.StringFixed(2), formatTime(o.CreatedAt))
	}
	_ = w.Flush()
}

func printUnmatchedPayments(payments []recon.Payment) {
	fmt.Println("\nUnmatched payments:")
	if len(payments) == 0 {
		fmt.Println("  (none)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tAMOUNT\tTIMESTAMP")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			p.Ref, p.Amount.StringFixed(2), formatTime(p.Timestamp))
	}
	_ = w.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeFormat)
}
