package marketdata

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/eddiefleurent/options_wizard/internal/models"
	"github.com/sony/gobreaker"
)

// Provider defines the market-data operations the wizard consumes.
type Provider interface {
	// GetCurrencies lists tradable currencies with spot prices; used only to
	// populate forecast inputs.
	GetCurrencies(ctx context.Context) ([]Currency, error)

	// GetInstruments returns the active option universe for one currency,
	// already excluding expired instruments.
	GetInstruments(ctx context.Context, currency string) ([]models.Instrument, error)

	// GetTicker returns the best bid/ask for one instrument.
	GetTicker(ctx context.Context, instrumentName string) (models.Quote, error)
}

// Ensure DeribitAPI implements Provider at compile time.
var _ Provider = (*DeribitAPI)(nil)

// CircuitBreakerProvider wraps a Provider with circuit breaker functionality
type CircuitBreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// execBreaker is a generic helper for circuit breaker wrapper methods
func execBreaker[T any](
	breaker *gobreaker.CircuitBreaker,
	provider Provider,
	fn func(Provider) (T, error),
) (T, error) {
	var zero T
	res, err := breaker.Execute(func() (interface{}, error) { return fn(provider) })
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	v, ok := res.(T)
	if !ok {
		return zero, errors.New("circuit breaker: type assertion failed")
	}
	return v, nil
}

// CircuitBreakerSettings configures circuit breaker behavior
type CircuitBreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// NewCircuitBreakerProvider creates a CircuitBreakerProvider with sensible defaults
func NewCircuitBreakerProvider(provider Provider) *CircuitBreakerProvider {
	return NewCircuitBreakerProviderWithSettings(provider, CircuitBreakerSettings{
		MaxRequests:  3,                // Allow 3 requests when half-open
		Interval:     60 * time.Second, // Reset counts every minute
		Timeout:      30 * time.Second, // Open circuit for 30 seconds
		MinRequests:  5,                // Minimum requests before tripping
		FailureRatio: 0.6,              // Trip if 60% failure rate
	})
}

// NewCircuitBreakerProviderWithSettings creates a CircuitBreakerProvider with custom settings
func NewCircuitBreakerProviderWithSettings(provider Provider, settings CircuitBreakerSettings) *CircuitBreakerProvider {
	gbSettings := gobreaker.Settings{
		Name:        "MarketDataCircuitBreaker",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s state changed from %s to %s", name, from, to)
		},
	}

	return &CircuitBreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// Ensure CircuitBreakerProvider implements Provider at compile time.
var _ Provider = (*CircuitBreakerProvider)(nil)

// GetCurrencies wraps the underlying provider call with circuit breaker
func (c *CircuitBreakerProvider) GetCurrencies(ctx context.Context) ([]Currency, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) ([]Currency, error) {
		return p.GetCurrencies(ctx)
	})
}

// GetInstruments wraps the underlying provider call with circuit breaker
func (c *CircuitBreakerProvider) GetInstruments(ctx context.Context, currency string) ([]models.Instrument, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) ([]models.Instrument, error) {
		return p.GetInstruments(ctx, currency)
	})
}

// GetTicker wraps the underlying provider call with circuit breaker
func (c *CircuitBreakerProvider) GetTicker(ctx context.Context, instrumentName string) (models.Quote, error) {
	return execBreaker(c.breaker, c.provider, func(p Provider) (models.Quote, error) {
		return p.GetTicker(ctx, instrumentName)
	})
}
