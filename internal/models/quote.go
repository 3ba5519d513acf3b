package models

// Quote is a best bid/ask snapshot for one instrument, fetched on demand per
// candidate and never cached beyond the current recommendation.
//
// The feed reports "no market" as a zero price; absence and zero are the same
// signal by contract, and HasMarket is the one place that conflation lives.
type Quote struct {
	InstrumentName string  `json:"instrument_name"`
	BestBid        float64 `json:"best_bid_price"`
	BestAsk        float64 `json:"best_ask_price"`
}

// HasMarket reports whether the quote carries a usable ask side.
func (q Quote) HasMarket() bool {
	return q.BestAsk > 0
}

// HasBid reports whether the quote carries a usable bid side.
func (q Quote) HasBid() bool {
	return q.BestBid > 0
}
