// Package mock provides a synthetic market-data feed for paper mode and tests.
package mock

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/eddiefleurent/options_wizard/internal/marketdata"
	"github.com/eddiefleurent/options_wizard/internal/models"
)

// Feed serves generated currencies, chains, and tickers shaped like the live
// feed's responses.
type Feed struct {
	spots map[string]float64
}

// Ensure Feed implements the provider interface at compile time.
var _ marketdata.Provider = (*Feed)(nil)

// secureFloat64 generates a cryptographically secure random float64 between 0 and 1
func secureFloat64() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		// Fallback to a reasonable default if crypto/rand fails
		return 0.5
	}
	return float64(n.Int64()) / (1 << 53)
}

// NewFeed creates a synthetic feed with jittered BTC/ETH spots.
func NewFeed() *Feed {
	return &Feed{
		spots: map[string]float64{
			"BTC": 65000 + secureFloat64()*2000,
			"ETH": 3400 + secureFloat64()*200,
		},
	}
}

// GetCurrencies returns the synthetic underlyings with their spot prices.
func (f *Feed) GetCurrencies(_ context.Context) ([]marketdata.Currency, error) {
	out := make([]marketdata.Currency, 0, len(f.spots))
	for _, cur := range []string{"BTC", "ETH"} {
		out = append(out, marketdata.Currency{Currency: cur, SpotPrice: f.spots[cur]})
	}
	return out, nil
}

// GetInstruments generates option ladders for the next three weekly expiries,
// strikes bracketing spot on both sides.
func (f *Feed) GetInstruments(_ context.Context, currency string) ([]models.Instrument, error) {
	spot, ok := f.spots[strings.ToUpper(currency)]
	if !ok {
		return nil, fmt.Errorf("unknown currency %q", currency)
	}

	interval := strikeInterval(spot)
	start := math.Floor(spot/interval)*interval - 5*interval
	end := start + 11*interval

	var instruments []models.Instrument
	for _, expiry := range nextWeeklyExpiries(3) {
		for strike := start; strike <= end; strike += interval {
			for _, optType := range []models.OptionType{models.OptionTypeCall, models.OptionTypePut} {
				instruments = append(instruments, models.Instrument{
					Name:     instrumentName(currency, expiry, strike, optType),
					Currency: strings.ToUpper(currency),
					Expiry:   expiry.UnixMilli(),
					Strike:   strike,
					Type:     optType,
				})
			}
		}
	}
	return instruments, nil
}

// GetTicker prices an instrument from its name using a crude distance-from-spot
// decay. Strikes far out of the money come back with no market, exercising the
// unpriced path the same way thin live chains do.
func (f *Feed) GetTicker(_ context.Context, instrumentName string) (models.Quote, error) {
	currency, strike, optType, err := parseName(instrumentName)
	if err != nil {
		return models.Quote{}, err
	}
	spot, ok := f.spots[currency]
	if !ok {
		return models.Quote{}, fmt.Errorf("unknown currency %q", currency)
	}

	distance := math.Abs(strike - spot)
	interval := strikeInterval(spot)
	if distance > 4*interval {
		// No market this far out
		return models.Quote{InstrumentName: instrumentName}, nil
	}

	intrinsic := 0.0
	if optType == models.OptionTypeCall && spot > strike {
		intrinsic = spot - strike
	}
	if optType == models.OptionTypePut && strike > spot {
		intrinsic = strike - spot
	}
	timeValue := spot * 0.01 * math.Exp(-distance/(2*interval))
	mid := intrinsic + timeValue
	spread := mid * 0.05

	return models.Quote{
		InstrumentName: instrumentName,
		BestBid:        mid - spread/2,
		BestAsk:        mid + spread/2,
	}, nil
}

func strikeInterval(spot float64) float64 {
	if spot > 10000 {
		return 1000
	}
	return 100
}

// nextWeeklyExpiries returns the next n Fridays at 08:00 UTC, the feed's
// settlement time.
func nextWeeklyExpiries(n int) []time.Time {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	var out []time.Time
	for len(out) < n {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == time.Friday {
			out = append(out, day.Add(8*time.Hour))
		}
	}
	return out
}

func instrumentName(currency string, expiry time.Time, strike float64, optType models.OptionType) string {
	suffix := "C"
	if optType == models.OptionTypePut {
		suffix = "P"
	}
	return fmt.Sprintf("%s-%s-%d-%s", strings.ToUpper(currency),
		strings.ToUpper(expiry.Format("2Jan06")), int(strike), suffix)
}

// parseName splits a feed-style instrument name, e.g. "BTC-27JUN25-50000-C".
func parseName(name string) (currency string, strike float64, optType models.OptionType, err error) {
	parts := strings.Split(name, "-")
	if len(parts) != 4 {
		return "", 0, "", fmt.Errorf("malformed instrument name %q", name)
	}
	var strikeInt int
	if _, err := fmt.Sscanf(parts[2], "%d", &strikeInt); err != nil {
		return "", 0, "", fmt.Errorf("malformed strike in %q: %w", name, err)
	}
	optType = models.OptionTypeCall
	if parts[3] == "P" {
		optType = models.OptionTypePut
	}
	return parts[0], float64(strikeInt), optType, nil
}
