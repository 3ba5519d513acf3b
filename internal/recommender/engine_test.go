package recommender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/eddiefleurent/options_wizard/internal/models"
	"github.com/eddiefleurent/options_wizard/internal/strategy"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testExpiry = int64(1750000000000)

type fakeQuotes struct {
	quotes  map[string]models.Quote
	err     error
	started chan struct{} // when set, closed on first GetTicker call
	release chan struct{} // when set, GetTicker blocks until closed
}

// Compile-time interface compliance check
var _ strategy.QuoteLookup = (*fakeQuotes)(nil)

func (f *fakeQuotes) GetTicker(_ context.Context, name string) (models.Quote, error) {
	if f.started != nil {
		close(f.started)
		f.started = nil
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return models.Quote{}, f.err
	}
	return f.quotes[name], nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testUniverse() []models.Instrument {
	var out []models.Instrument
	for _, strike := range []float64{40000, 45000, 50000, 55000} {
		out = append(out,
			models.Instrument{Name: name(strike, "C"), Currency: "BTC", Expiry: testExpiry,
				Strike: strike, Type: models.OptionTypeCall},
			models.Instrument{Name: name(strike, "P"), Currency: "BTC", Expiry: testExpiry,
				Strike: strike, Type: models.OptionTypePut},
		)
	}
	return out
}

func name(strike float64, suffix string) string {
	return fmt.Sprintf("BTC-TEST-%d-%s", int(strike), suffix)
}

func bullishForecast() models.Forecast {
	return models.Forecast{
		Currency:     "BTC",
		CurrentPrice: 48000,
		TargetPrice:  52000,
		Expiry:       testExpiry,
		Strategy:     models.StrategySingle,
	}
}

func TestEngine_PricedCycle(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		name(50000, "C"): {BestBid: 100, BestAsk: 120},
	}}
	engine := NewEngine(quotes, quietLogger())

	result, err := engine.Recommend(context.Background(), bullishForecast(), testUniverse())
	require.NoError(t, err)
	require.NotNil(t, result.Recommendation)
	assert.Equal(t, models.StatePriced, result.State)
	assert.False(t, result.NoCandidate)
	assert.NotEmpty(t, result.CycleID)
	assert.Equal(t, result.CycleID, result.Recommendation.ID)
	assert.Equal(t, 50000.0, result.Recommendation.Candidate.Leg.Strike)
}

func TestEngine_UnpricedCycle(t *testing.T) {
	// No quotes at all: the candidate exists but has no market.
	engine := NewEngine(&fakeQuotes{}, quietLogger())

	result, err := engine.Recommend(context.Background(), bullishForecast(), testUniverse())
	require.NoError(t, err)
	require.NotNil(t, result.Recommendation)
	assert.Equal(t, models.StateUnpriced, result.State)
	assert.False(t, result.Recommendation.Priced())
}

func TestEngine_NoCandidate(t *testing.T) {
	engine := NewEngine(&fakeQuotes{}, quietLogger())

	forecast := bullishForecast()
	forecast.Expiry = testExpiry + 1 // not present in the universe

	result, err := engine.Recommend(context.Background(), forecast, testUniverse())
	require.NoError(t, err)
	assert.True(t, result.NoCandidate)
	assert.Nil(t, result.Recommendation)
	assert.Equal(t, models.StateIdle, result.State)
}

func TestEngine_EmptyUniverseIsNoCandidate(t *testing.T) {
	engine := NewEngine(&fakeQuotes{}, quietLogger())

	result, err := engine.Recommend(context.Background(), bullishForecast(), nil)
	require.NoError(t, err)
	assert.True(t, result.NoCandidate)
}

func TestEngine_InvalidForecastRejectedBeforeSelection(t *testing.T) {
	engine := NewEngine(&fakeQuotes{}, quietLogger())

	forecast := bullishForecast()
	forecast.TargetPrice = 0

	result, err := engine.Recommend(context.Background(), forecast, testUniverse())
	require.Error(t, err)
	assert.Nil(t, result)

	var invalid *InvalidForecastError
	assert.True(t, errors.As(err, &invalid))
}

func TestEngine_TransportFailurePropagates(t *testing.T) {
	engine := NewEngine(&fakeQuotes{err: errors.New("feed down")}, quietLogger())

	result, err := engine.Recommend(context.Background(), bullishForecast(), testUniverse())
	require.Error(t, err)
	assert.Nil(t, result)
	var invalid *InvalidForecastError
	assert.False(t, errors.As(err, &invalid), "transport failure is not an invalid forecast")
}

func TestEngine_LastSnapshotWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := &fakeQuotes{
		quotes: map[string]models.Quote{
			name(50000, "C"): {BestBid: 100, BestAsk: 120},
		},
		started: started,
		release: release,
	}
	engine := NewEngine(blocking, quietLogger())

	firstDone := make(chan error, 1)
	go func() {
		_, err := engine.Recommend(context.Background(), bullishForecast(), testUniverse())
		firstDone <- err
	}()
	<-started // first cycle is in flight, blocked on its quote fetch

	// Second snapshot supersedes the in-flight first one.
	quick := bullishForecast()
	quick.Expiry = testExpiry + 1 // resolves immediately as no-candidate
	result, err := engine.Recommend(context.Background(), quick, testUniverse())
	require.NoError(t, err)
	assert.True(t, result.NoCandidate)

	close(release)
	assert.ErrorIs(t, <-firstDone, ErrSuperseded)
}
