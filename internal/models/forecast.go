package models

import "fmt"

// StrategyKind selects between a single-leg trade and a two-leg vertical spread.
type StrategyKind string

const (
	// StrategySingle recommends one call or put
	StrategySingle StrategyKind = "single"
	// StrategySpread recommends a one-strike-wide vertical spread
	StrategySpread StrategyKind = "spread"
)

// Direction is the directional view derived from the forecast prices.
type Direction string

const (
	// DirectionBullish means the target price is strictly above spot
	DirectionBullish Direction = "bullish"
	// DirectionBearish means the target price is at or below spot
	DirectionBearish Direction = "bearish"
)

// Forecast captures the trader's inputs for one recommendation cycle.
type Forecast struct {
	Currency     string       `json:"currency"`
	CurrentPrice float64      `json:"current_price"`
	TargetPrice  float64      `json:"target_price"`
	Expiry       int64        `json:"expiry"`
	Strategy     StrategyKind `json:"strategy"`
}

// Direction derives the directional view. Equal prices resolve bearish:
// the comparison is strict, so a flat forecast selects from puts.
func (f Forecast) Direction() Direction {
	if f.TargetPrice > f.CurrentPrice {
		return DirectionBullish
	}
	return DirectionBearish
}

// OptionType returns the option type to search for: calls when bullish, puts otherwise.
func (f Forecast) OptionType() OptionType {
	if f.Direction() == DirectionBullish {
		return OptionTypeCall
	}
	return OptionTypePut
}

// Validate rejects malformed forecasts before they reach trade selection.
// Selection assumes well-formed numeric inputs and does not re-validate.
func (f Forecast) Validate() error {
	if f.Currency == "" {
		return fmt.Errorf("forecast: currency is required")
	}
	if f.CurrentPrice <= 0 {
		return fmt.Errorf("forecast: current_price must be > 0, got %v", f.CurrentPrice)
	}
	if f.TargetPrice <= 0 {
		return fmt.Errorf("forecast: target_price must be > 0, got %v", f.TargetPrice)
	}
	if f.Expiry <= 0 {
		return fmt.Errorf("forecast: expiry is required")
	}
	if f.Strategy != StrategySingle && f.Strategy != StrategySpread {
		return fmt.Errorf("forecast: strategy must be %q or %q, got %q",
			StrategySingle, StrategySpread, f.Strategy)
	}
	return nil
}
