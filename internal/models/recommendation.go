package models

import "math"

// SpreadKind identifies the vertical spread subtype.
type SpreadKind string

const (
	// SpreadBullCall is a debit call spread expressing a bullish view
	SpreadBullCall SpreadKind = "bull_call"
	// SpreadBearPut is a put spread expressing a bearish view
	SpreadBearPut SpreadKind = "bear_put"
)

// Candidate is the Matcher's output: the instrument(s) to price, before any
// quotes have been fetched. A nil *Candidate means "no eligible instrument",
// which is a normal outcome, not an error.
type Candidate struct {
	Strategy   StrategyKind `json:"strategy"`
	SpreadKind SpreadKind   `json:"spread_kind,omitempty"`

	// Leg is the single contract for StrategySingle.
	Leg Instrument `json:"leg"`

	// ShortLeg is the sold contract for StrategySpread; Leg is the long leg.
	ShortLeg Instrument `json:"short_leg,omitempty"`
}

// StrikeWidth returns the absolute distance between the spread's strikes.
func (c Candidate) StrikeWidth() float64 {
	return math.Abs(c.ShortLeg.Strike - c.Leg.Strike)
}

// PricingStatus tags a recommendation as priced or unpriced. An unpriced
// recommendation still identifies the trade; it just has no numeric risk
// figures and must render as "no market is currently available".
type PricingStatus string

const (
	// PricingPriced means risk figures were computed from live quotes
	PricingPriced PricingStatus = "priced"
	// PricingUnpriced means a required quote side was missing or zero
	PricingUnpriced PricingStatus = "unpriced"
)

// NetCostLabel distinguishes how a spread's net cost is presented.
type NetCostLabel string

const (
	// NetCostDebit labels a bull call spread's net cost
	NetCostDebit NetCostLabel = "debit"
	// NetCostCredit labels a bear put spread's net cost
	NetCostCredit NetCostLabel = "credit"
)

// RiskProfile holds the displayable risk/reward bounds of a recommendation.
// These are retail approximations by contract: no contract multiplier, no
// assignment mechanics, and a long put's max gain is strike minus premium.
type RiskProfile struct {
	Status PricingStatus `json:"status"`

	MaxLoss float64 `json:"max_loss,omitempty"`
	// MaxGain is meaningless when MaxGainUnbounded is set (long call).
	MaxGain          float64 `json:"max_gain,omitempty"`
	MaxGainUnbounded bool    `json:"max_gain_unbounded,omitempty"`

	// NetCost and NetCostLabel are populated for spreads only.
	NetCost      float64      `json:"net_cost,omitempty"`
	NetCostLabel NetCostLabel `json:"net_cost_label,omitempty"`
}

// Recommendation is a materialized trade recommendation: the candidate the
// Matcher selected plus the quotes and risk profile the Evaluator attached.
type Recommendation struct {
	ID         string      `json:"id"`
	Candidate  Candidate   `json:"candidate"`
	LegQuote   Quote       `json:"leg_quote"`
	ShortQuote Quote       `json:"short_quote,omitempty"`
	Risk       RiskProfile `json:"risk"`
}

// Priced reports whether numeric risk figures are available.
func (r Recommendation) Priced() bool {
	return r.Risk.Status == PricingPriced
}
