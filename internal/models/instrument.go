// Package models provides data structures and state management for trade recommendations.
package models

import (
	"sort"
	"time"
)

// OptionType represents the type of option contract
type OptionType string

const (
	// OptionTypeCall represents a call option contract
	OptionTypeCall OptionType = "call"
	// OptionTypePut represents a put option contract
	OptionTypePut OptionType = "put"
)

// Instrument is one listed option contract from the instrument feed.
// Instruments are immutable; a currency or expiry change replaces the whole set.
type Instrument struct {
	// Name is the feed's opaque identifier, e.g. "BTC-27JUN25-50000-C".
	// Its substructure is used for display only; matching uses the structured fields.
	Name     string     `json:"instrument_name"`
	Currency string     `json:"currency"`
	Expiry   int64      `json:"expiry"` // unix milliseconds, day granularity
	Strike   float64    `json:"strike"`
	Type     OptionType `json:"option_type"`
}

// ExpiryTime returns the expiry as a time.Time in UTC.
func (i Instrument) ExpiryTime() time.Time {
	return time.UnixMilli(i.Expiry).UTC()
}

// SortByStrike sorts instruments ascending by strike, in place.
// Selection code sorts before reducing so that tie-breaks do not depend on feed order.
func SortByStrike(instruments []Instrument) {
	sort.Slice(instruments, func(a, b int) bool {
		return instruments[a].Strike < instruments[b].Strike
	})
}

// FilterInstruments returns the instruments matching the given expiry and option type.
func FilterInstruments(instruments []Instrument, expiry int64, optionType OptionType) []Instrument {
	filtered := make([]Instrument, 0, len(instruments))
	for _, inst := range instruments {
		if inst.Expiry == expiry && inst.Type == optionType {
			filtered = append(filtered, inst)
		}
	}
	return filtered
}

// Expiries returns the sorted unique expiries present in the instrument set.
func Expiries(instruments []Instrument) []int64 {
	seen := make(map[int64]struct{}, len(instruments))
	var out []int64
	for _, inst := range instruments {
		if _, ok := seen[inst.Expiry]; ok {
			continue
		}
		seen[inst.Expiry] = struct{}{}
		out = append(out, inst.Expiry)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// HasExpiry reports whether any instrument in the set carries the given expiry.
func HasExpiry(instruments []Instrument, expiry int64) bool {
	for _, inst := range instruments {
		if inst.Expiry == expiry {
			return true
		}
	}
	return false
}
