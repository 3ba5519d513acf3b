// Package util provides display formatting helpers.
package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatUSD renders a price as a US-dollar amount with comma grouping,
// e.g. 50000 -> "$50,000.00".
func FormatUSD(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents)
}

// FormatExpiry renders a unix-millisecond expiry as a short date, e.g.
// "Jun 27, 2025".
func FormatExpiry(unixMilli int64) string {
	return time.UnixMilli(unixMilli).UTC().Format("Jan 2, 2006")
}
