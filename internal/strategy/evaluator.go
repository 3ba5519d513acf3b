package strategy

import (
	"context"
	"fmt"
	"math"

	"github.com/eddiefleurent/options_wizard/internal/models"
	"golang.org/x/sync/errgroup"
)

// QuoteLookup is the slice of the market-data provider the evaluator needs.
type QuoteLookup interface {
	GetTicker(ctx context.Context, instrumentName string) (models.Quote, error)
}

// Evaluate prices a candidate from live quotes and attaches its risk profile.
//
// A missing market (ask or required bid absent/zero) is not an error: the
// recommendation comes back unpriced and downstream renders "no market is
// currently available". Only transport failures from the quote lookup are
// returned as errors.
//
// The risk figures are deliberately the simplified retail bounds the product
// displays: no contract multiplier and no assignment mechanics. A long put's
// max gain is strike minus premium, without flooring intrinsic value at zero.
func Evaluate(ctx context.Context, candidate models.Candidate, quotes QuoteLookup) (*models.Recommendation, error) {
	if candidate.Strategy == models.StrategySpread {
		return evaluateSpread(ctx, candidate, quotes)
	}
	return evaluateSingle(ctx, candidate, quotes)
}

func evaluateSingle(ctx context.Context, candidate models.Candidate, quotes QuoteLookup) (*models.Recommendation, error) {
	quote, err := quotes.GetTicker(ctx, candidate.Leg.Name)
	if err != nil {
		return nil, fmt.Errorf("fetching quote for %s: %w", candidate.Leg.Name, err)
	}

	rec := &models.Recommendation{
		Candidate: candidate,
		LegQuote:  quote,
	}

	if !quote.HasMarket() {
		rec.Risk = models.RiskProfile{Status: models.PricingUnpriced}
		return rec, nil
	}

	risk := models.RiskProfile{
		Status:  models.PricingPriced,
		MaxLoss: quote.BestAsk, // premium paid
	}
	if candidate.Leg.Type == models.OptionTypePut {
		risk.MaxGain = candidate.Leg.Strike - quote.BestAsk
	} else {
		risk.MaxGainUnbounded = true
	}
	rec.Risk = risk
	return rec, nil
}

func evaluateSpread(ctx context.Context, candidate models.Candidate, quotes QuoteLookup) (*models.Recommendation, error) {
	var longQuote, shortQuote models.Quote

	// Both legs are fetched concurrently and both must complete before
	// evaluation; either failure fails the whole spread. No partial spread
	// is ever shown.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := quotes.GetTicker(gctx, candidate.Leg.Name)
		if err != nil {
			return fmt.Errorf("fetching quote for long leg %s: %w", candidate.Leg.Name, err)
		}
		longQuote = q
		return nil
	})
	g.Go(func() error {
		q, err := quotes.GetTicker(gctx, candidate.ShortLeg.Name)
		if err != nil {
			return fmt.Errorf("fetching quote for short leg %s: %w", candidate.ShortLeg.Name, err)
		}
		shortQuote = q
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := &models.Recommendation{
		Candidate:  candidate,
		LegQuote:   longQuote,
		ShortQuote: shortQuote,
	}

	// The spread is bought at the long leg's ask and sold at the short leg's
	// bid; both sides need a live market.
	if !longQuote.HasMarket() || !shortQuote.HasBid() {
		rec.Risk = models.RiskProfile{Status: models.PricingUnpriced}
		return rec, nil
	}

	netCost := math.Abs(longQuote.BestAsk - shortQuote.BestBid)
	label := models.NetCostDebit
	if candidate.SpreadKind == models.SpreadBearPut {
		label = models.NetCostCredit
	}

	rec.Risk = models.RiskProfile{
		Status:       models.PricingPriced,
		MaxLoss:      netCost,
		MaxGain:      candidate.StrikeWidth() - netCost,
		NetCost:      netCost,
		NetCostLabel: label,
	}
	return rec, nil
}
