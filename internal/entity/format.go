package entity

import "strconv"

// FormatAmount renders a monetary value with its natural precision
// (no trailing zeros), matching how amounts appear in the order log.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
