// Package recommender orchestrates one recommendation cycle: validate the
// forecast, select a candidate trade, price it, and report the outcome.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/eddiefleurent/options_wizard/internal/models"
	"github.com/eddiefleurent/options_wizard/internal/strategy"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned when a newer snapshot started while this cycle was
// in flight. The stale result is discarded, never merged; last snapshot wins.
var ErrSuperseded = errors.New("recommendation cycle superseded by newer snapshot")

// InvalidForecastError marks forecasts rejected before trade selection.
type InvalidForecastError struct {
	Reason error
}

func (e *InvalidForecastError) Error() string {
	return fmt.Sprintf("invalid forecast: %v", e.Reason)
}

func (e *InvalidForecastError) Unwrap() error { return e.Reason }

// Result is the outcome of one recommendation cycle.
//
// NoCandidate is the benign "adjust your inputs" outcome: no eligible
// instrument existed for the constraints. Recommendation is nil in that case
// and non-nil otherwise, possibly unpriced.
type Result struct {
	CycleID        string                 `json:"cycle_id"`
	State          models.CycleState      `json:"state"`
	NoCandidate    bool                   `json:"no_candidate"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
}

// Engine runs recommendation cycles against a quote source.
//
// Each cycle is a pure recompute from an immutable snapshot of
// (forecast, instrument universe); there is no incremental update. The engine
// itself holds no market state between cycles, only the generation counter
// used for last-snapshot-wins supersession.
type Engine struct {
	quotes     strategy.QuoteLookup
	logger     *logrus.Logger
	generation atomic.Uint64
}

// NewEngine creates an engine. A nil logger falls back to the logrus default.
func NewEngine(quotes strategy.QuoteLookup, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{quotes: quotes, logger: logger}
}

// Recommend runs one full cycle: idle → candidate_selected → quotes_pending →
// priced|unpriced.
//
// Malformed forecasts return *InvalidForecastError. Absence of a candidate and
// absence of a market are normal results, visible on Result, not errors. Only
// quote transport failures and supersession surface as errors.
func (e *Engine) Recommend(ctx context.Context, forecast models.Forecast, instruments []models.Instrument) (*Result, error) {
	gen := e.generation.Add(1)
	cycleID := uuid.New().String()

	log := e.logger.WithFields(logrus.Fields{
		"cycle":    cycleID,
		"currency": forecast.Currency,
		"strategy": forecast.Strategy,
	})

	if err := forecast.Validate(); err != nil {
		return nil, &InvalidForecastError{Reason: err}
	}

	sm := models.NewCycleStateMachine()
	result := &Result{CycleID: cycleID, State: sm.GetCurrentState()}

	if !models.HasExpiry(instruments, forecast.Expiry) {
		log.WithField("expiry", forecast.Expiry).Info("forecast expiry not in instrument universe")
		result.NoCandidate = true
		return e.finish(gen, result, sm)
	}

	candidate := strategy.SelectTrade(forecast, instruments)
	if candidate == nil {
		log.Info("no eligible instrument for forecast")
		result.NoCandidate = true
		return e.finish(gen, result, sm)
	}

	if err := sm.Transition(models.StateCandidateSelected, "candidate_found"); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"instrument": candidate.Leg.Name,
		"expiry":     candidate.Leg.ExpiryTime().Format("2006-01-02"),
	}).Info("candidate selected")

	if err := sm.Transition(models.StateQuotesPending, "quotes_requested"); err != nil {
		return nil, err
	}

	rec, err := strategy.Evaluate(ctx, *candidate, e.quotes)
	if err != nil {
		_ = sm.Transition(models.StateIdle, "quote_fetch_failed")
		log.WithError(err).Warn("quote fetch failed, cycle abandoned")
		return nil, err
	}
	rec.ID = cycleID

	condition, state := "quotes_received", models.StatePriced
	if !rec.Priced() {
		condition, state = "no_market", models.StateUnpriced
		log.Info("no market currently available for candidate")
	}
	if err := sm.Transition(state, condition); err != nil {
		return nil, err
	}

	result.Recommendation = rec
	return e.finish(gen, result, sm)
}

// finish applies last-snapshot-wins: if a newer cycle started while this one
// ran, its result is discarded.
func (e *Engine) finish(gen uint64, result *Result, sm *models.CycleStateMachine) (*Result, error) {
	if e.generation.Load() != gen {
		return nil, ErrSuperseded
	}
	result.State = sm.GetCurrentState()
	return result, nil
}
