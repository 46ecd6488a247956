// Package engine runs the per-symbol evaluation: fetch the latest price,
// classify it against the fractal zone model, derive the B5 ladder, and
// drive the paper-trade lifecycle in the ledger.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"traderscope/feed"
	"traderscope/ledger"
	"traderscope/levels"
	"traderscope/market"
	"traderscope/zone"
)

type Engine struct {
	feed      feed.Feed
	ledger    ledger.Ledger
	rule      Rule
	vol       *VolatilityTracker
	timeframe levels.Timeframe
}

func New(f feed.Feed, l ledger.Ledger, r Rule, vol *VolatilityTracker, tf levels.Timeframe) *Engine {
	if r == nil {
		r = NewZoneRule()
	}
	if vol == nil {
		vol = NewVolatilityTracker(0)
	}
	if tf == "" {
		tf = levels.M5
	}
	return &Engine{feed: f, ledger: l, rule: r, vol: vol, timeframe: tf}
}

// Tick evaluates one symbol once. Any failure aborts only this symbol's
// tick; the caller logs it and moves on to the next interval.
func (e *Engine) Tick(ctx context.Context, symbol string) error {
	sample, err := e.feed.LatestPrice(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch price: %w", err)
	}

	volatility := e.vol.Observe(symbol, sample.Price)
	digit := zone.SelectDigit(volatility)

	analysis, err := zone.Classify(sample.Price, digit)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}

	ladder, err := levels.Calculate(sample.Price, e.timeframe)
	if err != nil {
		return fmt.Errorf("calculate levels: %w", err)
	}

	// The ledger is the authority on position state. Always re-read it
	// here; a value cached from a prior tick may be stale.
	open, err := e.ledger.GetOpenTrade(symbol)
	if err != nil {
		return fmt.Errorf("read open trade: %w", err)
	}

	if open != nil {
		if reason, hit := stopOrTargetHit(open, sample.Price); hit {
			return e.close(open, sample, reason)
		}
	}

	switch sig := e.rule.Evaluate(analysis, ladder, sample.Price, open); sig {
	case EnterLong:
		if open != nil {
			return nil
		}
		return e.open(symbol, sample, ladder.BE1, ladder.BU2, analysis)

	case EnterShort:
		if open != nil {
			return nil
		}
		return e.open(symbol, sample, ladder.BU1, ladder.BE2, analysis)

	case Exit:
		if open == nil {
			return nil
		}
		return e.close(open, sample, "rule exit")

	default:
		log.Debug().
			Str("symbol", symbol).
			Float64("price", sample.Price).
			Int("digit", digit).
			Str("zone", analysis.Zone.Name).
			Msg("hold")
		return nil
	}
}

func (e *Engine) open(symbol string, sample market.PriceSample, stop, target float64, analysis zone.DigitAnalysis) error {
	t, err := e.ledger.OpenTrade(symbol, sample.Price, stop, target, sample.ObservedAt)
	if err != nil {
		// A DuplicateOpenTradeError here means another worker won the
		// race since our read; surfaced as a tick failure and retried
		// against fresh state next interval.
		return fmt.Errorf("open trade: %w", err)
	}

	log.Info().
		Str("symbol", symbol).
		Str("trade_id", t.ID).
		Float64("entry", t.EntryPrice).
		Float64("stop", t.StopPrice).
		Float64("target", t.TargetPrice).
		Str("zone", analysis.Zone.Name).
		Msg("trade opened")
	return nil
}

func (e *Engine) close(open *ledger.Trade, sample market.PriceSample, reason string) error {
	t, err := e.ledger.CloseTrade(open.ID, sample.Price, sample.ObservedAt)
	if err != nil {
		return fmt.Errorf("close trade: %w", err)
	}

	log.Info().
		Str("symbol", t.Symbol).
		Str("trade_id", t.ID).
		Float64("exit", sample.Price).
		Float64("pnl", *t.PnL).
		Str("reason", reason).
		Msg("trade closed")
	return nil
}

// stopOrTargetHit tells whether price touches the trade's stop or
// target. Direction is inferred from the stop side: a stop below entry
// is a long, above entry a short.
func stopOrTargetHit(t *ledger.Trade, price float64) (string, bool) {
	long := t.StopPrice < t.EntryPrice
	if long {
		if price <= t.StopPrice {
			return "stop", true
		}
		if price >= t.TargetPrice {
			return "target", true
		}
		return "", false
	}
	if price >= t.StopPrice {
		return "stop", true
	}
	if price <= t.TargetPrice {
		return "target", true
	}
	return "", false
}
