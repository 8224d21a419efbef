// Package pricing holds the tiered monthly family rate table.
package pricing

// Rates are per-family monthly amounts in cents, keyed by enrolled child
// count. Counts past the table use the last tier (family cap).
var tiers = []int64{
	8000,  // 1 child
	16000, // 2 children
	21000, // 3 children
	26000, // 4 children
	30000, // 5+ children (cap)
}

// MonthlyRate returns the expected monthly amount in cents for a family with
// the given child count. Counts below 1 are treated as 1.
func MonthlyRate(childCount int) int64 {
	if childCount < 1 {
		childCount = 1
	}
	if childCount > len(tiers) {
		childCount = len(tiers)
	}
	return tiers[childCount-1]
}
