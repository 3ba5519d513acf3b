package strategy

import (
	"fmt"
	"testing"

	"github.com/eddiefleurent/options_wizard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testExpiry = int64(1750000000000)

// chain builds a call+put ladder at the given strikes for the test expiry.
func chain(strikes ...float64) []models.Instrument {
	var out []models.Instrument
	for _, strike := range strikes {
		for _, optType := range []models.OptionType{models.OptionTypeCall, models.OptionTypePut} {
			suffix := "C"
			if optType == models.OptionTypePut {
				suffix = "P"
			}
			out = append(out, models.Instrument{
				Name:     fmt.Sprintf("BTC-TEST-%d-%s", int(strike), suffix),
				Currency: "BTC",
				Expiry:   testExpiry,
				Strike:   strike,
				Type:     optType,
			})
		}
	}
	return out
}

func forecast(current, target float64, kind models.StrategyKind) models.Forecast {
	return models.Forecast{
		Currency:     "BTC",
		CurrentPrice: current,
		TargetPrice:  target,
		Expiry:       testExpiry,
		Strategy:     kind,
	}
}

func TestSelectTrade_SingleNearestStrike(t *testing.T) {
	instruments := chain(40000, 45000, 50000, 55000)

	// Bullish: 52000 target is 2000 from 50000 and 3000 from 55000.
	got := SelectTrade(forecast(48000, 52000, models.StrategySingle), instruments)
	require.NotNil(t, got)
	assert.Equal(t, models.StrategySingle, got.Strategy)
	assert.Equal(t, models.OptionTypeCall, got.Leg.Type)
	assert.Equal(t, 50000.0, got.Leg.Strike)
}

func TestSelectTrade_SingleTieBreakLowestStrike(t *testing.T) {
	// Target 47500 is equidistant from 45000 and 50000; lowest strike wins.
	instruments := chain(40000, 45000, 50000, 55000)

	got := SelectTrade(forecast(44000, 47500, models.StrategySingle), instruments)
	require.NotNil(t, got)
	assert.Equal(t, 45000.0, got.Leg.Strike)
}

func TestSelectTrade_TieBreakIndependentOfFeedOrder(t *testing.T) {
	// Same universe, reversed feed order, must give the same answer.
	forward := chain(40000, 45000, 50000, 55000)
	reversed := chain(55000, 50000, 45000, 40000)

	f := forecast(44000, 47500, models.StrategySingle)
	a := SelectTrade(f, forward)
	b := SelectTrade(f, reversed)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Leg.Name, b.Leg.Name)
}

func TestSelectTrade_EqualPricesSelectPuts(t *testing.T) {
	// target == current is the bearish tie-break: puts, never calls.
	instruments := chain(40000, 45000, 50000, 55000)

	got := SelectTrade(forecast(48000, 48000, models.StrategySingle), instruments)
	require.NotNil(t, got)
	assert.Equal(t, models.OptionTypePut, got.Leg.Type)
}

func TestSelectTrade_NoEligibleType(t *testing.T) {
	// Calls only in the universe; a bearish forecast needs puts.
	var callsOnly []models.Instrument
	for _, inst := range chain(45000, 50000) {
		if inst.Type == models.OptionTypeCall {
			callsOnly = append(callsOnly, inst)
		}
	}

	got := SelectTrade(forecast(48000, 44000, models.StrategySingle), callsOnly)
	assert.Nil(t, got)
}

func TestSelectTrade_WrongExpiry(t *testing.T) {
	instruments := chain(45000, 50000)
	f := forecast(48000, 52000, models.StrategySingle)
	f.Expiry = testExpiry + 1

	assert.Nil(t, SelectTrade(f, instruments))
}

func TestSelectTrade_EmptyUniverse(t *testing.T) {
	assert.Nil(t, SelectTrade(forecast(48000, 52000, models.StrategySingle), nil))
}

func TestSelectTrade_BullCallSpread(t *testing.T) {
	instruments := chain(40000, 45000, 50000, 55000)

	// Pivot is 50000, the first strike above spot 48000.
	got := SelectTrade(forecast(48000, 52000, models.StrategySpread), instruments)
	require.NotNil(t, got)
	assert.Equal(t, models.SpreadBullCall, got.SpreadKind)
	assert.Equal(t, models.OptionTypeCall, got.Leg.Type)
	assert.Equal(t, 50000.0, got.Leg.Strike)
	assert.Equal(t, 55000.0, got.ShortLeg.Strike)
	assert.Equal(t, 5000.0, got.StrikeWidth())
}

func TestSelectTrade_BearPutSpread(t *testing.T) {
	instruments := chain(40000, 45000, 50000, 55000)

	// Pivot index 2 (50000): long = 45000, short = 40000.
	got := SelectTrade(forecast(48000, 43000, models.StrategySpread), instruments)
	require.NotNil(t, got)
	assert.Equal(t, models.SpreadBearPut, got.SpreadKind)
	assert.Equal(t, models.OptionTypePut, got.Leg.Type)
	assert.Equal(t, 45000.0, got.Leg.Strike)
	assert.Equal(t, 40000.0, got.ShortLeg.Strike)
}

func TestSelectTrade_SpreadNoStrikeAboveSpot(t *testing.T) {
	instruments := chain(40000, 45000)

	// Spot above every strike: no pivot, no spread.
	assert.Nil(t, SelectTrade(forecast(48000, 52000, models.StrategySpread), instruments))
}

func TestSelectTrade_SpreadNoStrikeBelowSpot(t *testing.T) {
	instruments := chain(50000, 55000)

	// Pivot at index 0: no strike below spot, no spread.
	assert.Nil(t, SelectTrade(forecast(48000, 52000, models.StrategySpread), instruments))
}

func TestSelectTrade_SpreadShortLegOutOfBounds(t *testing.T) {
	// Bullish needs pivot+1; 50000 is the last strike.
	instruments := chain(45000, 50000)
	assert.Nil(t, SelectTrade(forecast(48000, 52000, models.StrategySpread), instruments))

	// Bearish needs pivot-2; only one strike below spot.
	assert.Nil(t, SelectTrade(forecast(48000, 43000, models.StrategySpread), instruments))
}

func TestSelectTrade_Deterministic(t *testing.T) {
	instruments := chain(40000, 45000, 50000, 55000)
	f := forecast(48000, 52000, models.StrategySpread)

	first := SelectTrade(f, instruments)
	second := SelectTrade(f, instruments)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
}

func TestSelectTrade_DoesNotMutateInput(t *testing.T) {
	instruments := chain(55000, 40000, 50000, 45000)
	original := make([]models.Instrument, len(instruments))
	copy(original, instruments)

	SelectTrade(forecast(48000, 52000, models.StrategySingle), instruments)
	assert.Equal(t, original, instruments)
}
