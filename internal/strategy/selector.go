// Package strategy implements trade selection and risk evaluation for the
// options wizard: picking the contract(s) that best express a price forecast,
// then pricing them from live quotes.
package strategy

import (
	"math"

	"github.com/eddiefleurent/options_wizard/internal/models"
)

// SelectTrade narrows the instrument universe to the contract(s) that best
// match the forecast. It returns nil when no eligible instrument exists; that
// is a normal "adjust your inputs" outcome, never an error.
//
// SelectTrade is a pure function of its inputs. Callers must validate the
// forecast first (see Forecast.Validate); malformed numerics are not handled
// here.
func SelectTrade(forecast models.Forecast, instruments []models.Instrument) *models.Candidate {
	eligible := models.FilterInstruments(instruments, forecast.Expiry, forecast.OptionType())
	if len(eligible) == 0 {
		return nil
	}

	// Sorting before reducing makes tie-breaks deterministic: on equal strike
	// distance the lowest strike wins, regardless of feed order.
	models.SortByStrike(eligible)

	switch forecast.Strategy {
	case models.StrategySpread:
		return selectSpread(forecast, eligible)
	default:
		return selectSingle(forecast, eligible)
	}
}

// selectSingle picks the contract whose strike is closest to the target price.
func selectSingle(forecast models.Forecast, sorted []models.Instrument) *models.Candidate {
	best := sorted[0]
	bestDiff := math.Abs(best.Strike - forecast.TargetPrice)

	for _, inst := range sorted[1:] {
		diff := math.Abs(inst.Strike - forecast.TargetPrice)
		if diff < bestDiff {
			bestDiff = diff
			best = inst
		}
	}

	return &models.Candidate{
		Strategy: models.StrategySingle,
		Leg:      best,
	}
}

// selectSpread builds a one-strike-wide vertical spread around spot: buy the
// strike nearest-and-beyond spot in the forecast direction, sell the next
// strike further out. The width is fixed at one adjacent listed strike.
func selectSpread(forecast models.Forecast, sorted []models.Instrument) *models.Candidate {
	// pivot is the first strike strictly above spot. Without strikes on both
	// sides of spot there is no spread to build.
	pivot := -1
	for i, inst := range sorted {
		if inst.Strike > forecast.CurrentPrice {
			pivot = i
			break
		}
	}
	if pivot <= 0 {
		return nil
	}

	var longIdx, shortIdx int
	var kind models.SpreadKind
	if forecast.Direction() == models.DirectionBullish {
		longIdx, shortIdx = pivot, pivot+1
		kind = models.SpreadBullCall
	} else {
		longIdx, shortIdx = pivot-1, pivot-2
		kind = models.SpreadBearPut
	}

	if longIdx < 0 || shortIdx < 0 || longIdx >= len(sorted) || shortIdx >= len(sorted) {
		return nil
	}

	return &models.Candidate{
		Strategy:   models.StrategySpread,
		SpreadKind: kind,
		Leg:        sorted[longIdx],
		ShortLeg:   sorted[shortIdx],
	}
}
