package models

import (
	"fmt"
	"time"
)

// CycleState represents where a recommendation cycle currently is.
type CycleState string

const (
	// StateIdle means no cycle is running; inputs are incomplete or were just reset
	StateIdle CycleState = "idle"
	// StateCandidateSelected means the Matcher found instrument(s) to price
	StateCandidateSelected CycleState = "candidate_selected"
	// StateQuotesPending means quote fetches are in flight
	StateQuotesPending CycleState = "quotes_pending"
	// StatePriced means the recommendation carries numeric risk figures
	StatePriced CycleState = "priced"
	// StateUnpriced means the recommendation exists but has no market
	StateUnpriced CycleState = "unpriced"
)

// CycleTransition defines a valid state transition
type CycleTransition struct {
	From        CycleState
	To          CycleState
	Condition   string
	Description string
}

// ValidCycleTransitions enumerates the recommendation cycle lifecycle.
// Any forecast-input change resets to idle; there is no incremental update.
var ValidCycleTransitions = []CycleTransition{
	{StateIdle, StateCandidateSelected, "candidate_found", "Matcher selected instrument(s)"},
	{StateCandidateSelected, StateQuotesPending, "quotes_requested", "Quote lookups dispatched"},
	{StateQuotesPending, StatePriced, "quotes_received", "All legs quoted with a live market"},
	{StateQuotesPending, StateUnpriced, "no_market", "A required quote side was missing or zero"},
	{StateQuotesPending, StateIdle, "quote_fetch_failed", "Transport failure, cycle abandoned"},

	{StateCandidateSelected, StateIdle, "inputs_changed", "Forecast inputs changed"},
	{StateQuotesPending, StateIdle, "inputs_changed", "Forecast inputs changed"},
	{StatePriced, StateIdle, "inputs_changed", "Forecast inputs changed"},
	{StateUnpriced, StateIdle, "inputs_changed", "Forecast inputs changed"},
}

// CycleStateMachine tracks one recommendation cycle's progression.
type CycleStateMachine struct {
	currentState   CycleState
	previousState  CycleState
	transitionTime time.Time
}

// NewCycleStateMachine creates a state machine in the idle state.
func NewCycleStateMachine() *CycleStateMachine {
	return &CycleStateMachine{
		currentState:   StateIdle,
		previousState:  StateIdle,
		transitionTime: time.Now().UTC(),
	}
}

// GetCurrentState returns the current state
func (sm *CycleStateMachine) GetCurrentState() CycleState {
	return sm.currentState
}

// GetPreviousState returns the previous state
func (sm *CycleStateMachine) GetPreviousState() CycleState {
	return sm.previousState
}

// IsValidTransition checks if a transition is valid from the current state.
func (sm *CycleStateMachine) IsValidTransition(to CycleState, condition string) error {
	for _, t := range ValidCycleTransitions {
		if t.From != sm.currentState || t.To != to {
			continue
		}
		if t.Condition == condition {
			return nil
		}
	}
	return fmt.Errorf("invalid transition from %s to %s with condition '%s'",
		sm.currentState, to, condition)
}

// Transition moves to a new state
func (sm *CycleStateMachine) Transition(to CycleState, condition string) error {
	if err := sm.IsValidTransition(to, condition); err != nil {
		return err
	}

	sm.previousState = sm.currentState
	sm.currentState = to
	sm.transitionTime = time.Now().UTC()
	return nil
}

// Reset returns the machine to idle, discarding the cycle. Called whenever any
// forecast input (currency, target price, expiry, strategy kind) changes.
func (sm *CycleStateMachine) Reset() {
	sm.previousState = sm.currentState
	sm.currentState = StateIdle
	sm.transitionTime = time.Now().UTC()
}

// IsTerminal reports whether the cycle has produced its outcome.
func (sm *CycleStateMachine) IsTerminal() bool {
	return sm.currentState == StatePriced || sm.currentState == StateUnpriced
}

// GetStateDescription returns a human-readable description of the current state
func (sm *CycleStateMachine) GetStateDescription() string {
	switch sm.currentState {
	case StateIdle:
		return "Waiting for forecast inputs"
	case StateCandidateSelected:
		return "Instrument(s) selected, quotes not yet requested"
	case StateQuotesPending:
		return "Fetching live quotes"
	case StatePriced:
		return "Recommendation priced from live quotes"
	case StateUnpriced:
		return "Recommendation found but no market is currently available"
	default:
		return "Unknown state"
	}
}
