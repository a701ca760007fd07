package recon

import (
	"sort"
	"strings"
)

// Partitioner restricts normalized collections to a single store location.
// Orders paid through the exempt payment method (a third-party checkout whose
// money never flows through the card terminals) are dropped before
// partitioning so they don't pollute the unmatched output.
type Partitioner struct {
	exemptMethod string
}

// NewPartitioner creates a partitioner. exemptMethod is compared exactly
// against the order payment method; empty disables the exemption.
func NewPartitioner(exemptMethod string) *Partitioner {
	return &Partitioner{exemptMethod: exemptMethod}
}

// Partition returns the orders and payments belonging to location.
// Location comparison is a case-sensitive exact match; records with an empty
// location (unknown merchant ID) never appear in any partition.
func (p *Partitioner) Partition(orders []Order, payments []Payment, location string) ([]Order, []Payment) {
	partOrders := make([]Order, 0, len(orders))
	for _, o := range orders {
		if p.exemptMethod != "" && o.PaymentMethod == p.exemptMethod {
			continue
		}
		if o.Location == location {
			partOrders = append(partOrders, o)
		}
	}

	partPayments := make([]Payment, 0, len(payments))
	for _, pay := range payments {
		if pay.Location == location {
			partPayments = append(partPayments, pay)
		}
	}

	return partOrders, partPayments
}

// Locations returns the sorted union of distinct non-empty locations across
// both collections. Sorting is case-insensitive; the values themselves keep
// their exact casing for partitioning.
func Locations(orders []Order, payments []Payment) []string {
	seen := make(map[string]bool)
	var locations []string

	add := func(loc string) {
		if loc == "" || seen[loc] {
			return
		}
		seen[loc] = true
		locations = append(locations, loc)
	}

	for _, o := range orders {
		add(o.Location)
	}
	for _, p := range payments {
		add(p.Location)
	}

	sort.Slice(locations, func(i, j int) bool {
		return strings.ToLower(locations[i]) < strings.ToLower(locations[j])
	})

	return locations
}
