// Package marketdata provides clients for the public market-data feed that
// supplies currencies, instrument chains, and tickers to the wizard.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eddiefleurent/options_wizard/internal/models"
)

// DefaultBaseURL is Deribit's public production API.
const DefaultBaseURL = "https://www.deribit.com/api/v2"

const defaultTimeout = 10 * time.Second

// APIError represents a feed error with status code and response body
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// DeribitAPI is a client for Deribit's public (unauthenticated) endpoints.
type DeribitAPI struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// NewDeribitAPI creates a client against the given base URL, or the public
// production API when baseURL is empty.
func NewDeribitAPI(baseURL string) *DeribitAPI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &DeribitAPI{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		timeout: defaultTimeout,
	}
}

// WithTimeout sets the HTTP client timeout duration.
func (d *DeribitAPI) WithTimeout(timeout time.Duration) *DeribitAPI {
	if timeout > 0 {
		d.timeout = timeout
		d.client.Timeout = timeout
	}
	return d
}

// WithHTTPClient allows overriding the HTTP client (tests, custom transport).
func (d *DeribitAPI) WithHTTPClient(c *http.Client) *DeribitAPI {
	if c != nil {
		d.client = c
	}
	return d
}

// ============ API response structures ============

// rpcEnvelope is the JSON-RPC style wrapper every public endpoint uses.
type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Currency is one tradable underlying with its current index (spot) price.
type Currency struct {
	Currency  string  `json:"currency"`
	SpotPrice float64 `json:"spot_price"`
}

// instrumentResult mirrors /public/get_instruments entries.
type instrumentResult struct {
	InstrumentName      string  `json:"instrument_name"`
	BaseCurrency        string  `json:"base_currency"`
	ExpirationTimestamp int64   `json:"expiration_timestamp"`
	Strike              float64 `json:"strike"`
	OptionType          string  `json:"option_type"`
	Kind                string  `json:"kind"`
	IsActive            bool    `json:"is_active"`
}

// tickerResult mirrors /public/ticker.
type tickerResult struct {
	InstrumentName string  `json:"instrument_name"`
	BestBidPrice   float64 `json:"best_bid_price"`
	BestAskPrice   float64 `json:"best_ask_price"`
}

// ============ Public endpoints ============

// GetCurrencies returns the tradable currencies with spot prices.
func (d *DeribitAPI) GetCurrencies(ctx context.Context) ([]Currency, error) {
	var result []Currency
	if err := d.get(ctx, "/public/get_currencies", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching currencies: %w", err)
	}
	return result, nil
}

// GetInstruments returns the active, non-expired option instruments for one
// currency. The feed guarantees the expired filter; this client additionally
// drops non-option kinds defensively since matching assumes options only.
func (d *DeribitAPI) GetInstruments(ctx context.Context, currency string) ([]models.Instrument, error) {
	params := url.Values{}
	params.Set("currency", currency)
	params.Set("kind", "option")
	params.Set("expired", "false")

	var result []instrumentResult
	if err := d.get(ctx, "/public/get_instruments", params, &result); err != nil {
		return nil, fmt.Errorf("fetching instruments for %s: %w", currency, err)
	}

	instruments := make([]models.Instrument, 0, len(result))
	for _, r := range result {
		if r.Kind != "" && r.Kind != "option" {
			continue
		}
		optType := models.OptionTypeCall
		if strings.EqualFold(r.OptionType, "put") || strings.EqualFold(r.OptionType, "P") {
			optType = models.OptionTypePut
		}
		instruments = append(instruments, models.Instrument{
			Name:     r.InstrumentName,
			Currency: r.BaseCurrency,
			Expiry:   r.ExpirationTimestamp,
			Strike:   r.Strike,
			Type:     optType,
		})
	}
	return instruments, nil
}

// GetTicker returns the best bid/ask for one instrument. A zero price means
// that side currently has no market; that is a valid quote, not an error.
func (d *DeribitAPI) GetTicker(ctx context.Context, instrumentName string) (models.Quote, error) {
	params := url.Values{}
	params.Set("instrument_name", instrumentName)

	var result tickerResult
	if err := d.get(ctx, "/public/ticker", params, &result); err != nil {
		return models.Quote{}, fmt.Errorf("fetching ticker for %s: %w", instrumentName, err)
	}

	return models.Quote{
		InstrumentName: result.InstrumentName,
		BestBid:        result.BestBidPrice,
		BestAsk:        result.BestAskPrice,
	}, nil
}

// get performs a GET against one public endpoint and decodes the result.
func (d *DeribitAPI) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := d.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("feed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	var envelope rpcEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Error != nil {
		return &APIError{Status: envelope.Error.Code, Body: envelope.Error.Message}
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	return nil
}
