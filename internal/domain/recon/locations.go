package recon

// Resolver maps card-terminal merchant IDs to store locations.
// The table is injected so tests and new stores don't require a code change.
type Resolver struct {
	table map[int64]string
}

// NewResolver creates a resolver backed by the given merchant table.
func NewResolver(table map[int64]string) *Resolver {
	t := make(map[int64]string, len(table))
	for id, loc := range table {
		t[id] = loc
	}
	return &Resolver{table: t}
}

// DefaultMerchantTable returns the production terminal fleet.
func DefaultMerchantTable() map[int64]string {
	return map[int64]string{
		65778282: "Oslo",
		65796069: "Oslo",
		65820373: "Skien",
		65820364: "Kristiansand",
		65820361: "Trondheim",
	}
}

// Resolve returns the location for a merchant ID. Unknown IDs resolve to
// ("", false); payments from unknown terminals join no location partition.
func (r *Resolver) Resolve(merchantID int64) (string, bool) {
	loc, ok := r.table[merchantID]
	return loc, ok
}
