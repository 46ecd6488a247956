package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traderscope/feed"
	"traderscope/ledger"
	"traderscope/levels"
	"traderscope/zone"
)

func newTestLedger(t *testing.T) *ledger.SQLite {
	t.Helper()

	l, err := ledger.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// enterExitRule goes long whenever flat and signals an exit once the
// price drops below the entry. Deterministic stand-in for a real rule.
type enterExitRule struct{}

func (enterExitRule) Evaluate(da zone.DigitAnalysis, ladder levels.Ladder, price float64, open *ledger.Trade) Signal {
	if open == nil {
		return EnterLong
	}
	if price < open.EntryPrice {
		return Exit
	}
	return Hold
}

func TestEngineLifecycle(t *testing.T) {
	t.Parallel()

	led := newTestLedger(t)
	prices := feed.NewStaticFeed(map[string]float64{"BTCUSDT": 100})
	eng := New(prices, led, enterExitRule{}, NewVolatilityTracker(10), levels.M5)
	ctx := context.Background()

	// Tick 1: flat, rule enters long at 100.
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))
	open, err := led.GetOpenTrade("BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, 100.0, open.EntryPrice)
	// Stop at BE1, target at BU2 of the 100-base ladder.
	assert.Equal(t, 73.89, open.StopPrice)
	assert.Equal(t, 152.22, open.TargetPrice)

	// Tick 2: price up but neither level touched, position held.
	prices.Set("BTCUSDT", 105)
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))
	still, err := led.GetOpenTrade("BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, open.ID, still.ID)

	// Tick 3: price below entry, rule signals exit.
	prices.Set("BTCUSDT", 95)
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))
	flat, err := led.GetOpenTrade("BTCUSDT")
	require.NoError(t, err)
	assert.Nil(t, flat)

	closed, err := led.List(ledger.Filter{Status: ledger.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.NotNil(t, closed[0].PnL)
	assert.Equal(t, -5.0, *closed[0].PnL)
	assert.Equal(t, 95.0, *closed[0].ExitPrice)
}

func TestEngineStopTouchCloses(t *testing.T) {
	t.Parallel()

	led := newTestLedger(t)
	prices := feed.NewStaticFeed(map[string]float64{"BTCUSDT": 100})
	eng := New(prices, led, enterExitRule{}, NewVolatilityTracker(10), levels.M5)
	ctx := context.Background()

	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))

	// BE1 of a 100 base is 73.89; a print through it closes at market.
	prices.Set("BTCUSDT", 70)
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))

	closed, err := led.List(ledger.Filter{Status: ledger.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, -30.0, *closed[0].PnL)
}

func TestEngineTargetTouchCloses(t *testing.T) {
	t.Parallel()

	led := newTestLedger(t)
	prices := feed.NewStaticFeed(map[string]float64{"BTCUSDT": 100})
	eng := New(prices, led, enterExitRule{}, NewVolatilityTracker(10), levels.M5)
	ctx := context.Background()

	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))

	prices.Set("BTCUSDT", 160)
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))

	closed, err := led.List(ledger.Filter{Status: ledger.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, 60.0, *closed[0].PnL)
}

func TestEngineFeedFailureIsolated(t *testing.T) {
	t.Parallel()

	led := newTestLedger(t)
	prices := feed.NewStaticFeed(map[string]float64{})
	eng := New(prices, led, enterExitRule{}, nil, "")

	err := eng.Tick(context.Background(), "MISSING")
	var fue *feed.FeedUnavailableError
	assert.True(t, errors.As(err, &fue))

	// Nothing written for the failed symbol.
	trades, err := led.List(ledger.Filter{})
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestEngineShortLifecycle(t *testing.T) {
	t.Parallel()

	led := newTestLedger(t)
	prices := feed.NewStaticFeed(map[string]float64{"BTCUSDT": 100})

	rule := &ZoneRule{ShortZones: []string{"major support"}}
	eng := New(prices, led, rule, NewVolatilityTracker(10), levels.M5)
	ctx := context.Background()

	// 100 sits at position 0 of its block: major support, short entry.
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))
	open, err := led.GetOpenTrade("BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, open)
	// Short: stop above entry at BU1, target below at BE2.
	assert.Equal(t, 126.11, open.StopPrice)
	assert.Equal(t, 47.78, open.TargetPrice)

	// Price through the short stop closes the trade.
	prices.Set("BTCUSDT", 130)
	require.NoError(t, eng.Tick(ctx, "BTCUSDT"))
	flat, err := led.GetOpenTrade("BTCUSDT")
	require.NoError(t, err)
	assert.Nil(t, flat)
}

func TestZoneRuleSignals(t *testing.T) {
	t.Parallel()

	rule := NewZoneRule()
	ladder, err := levels.Calculate(100, levels.M5)
	require.NoError(t, err)

	confirmation, err := zone.Classify(136, 1) // position 36
	require.NoError(t, err)
	assert.Equal(t, EnterLong, rule.Evaluate(confirmation, ladder, 136, nil))

	rejection, err := zone.Classify(196, 1) // position 96
	require.NoError(t, err)
	assert.Equal(t, EnterShort, rule.Evaluate(rejection, ladder, 196, nil))

	support, err := zone.Classify(105, 1) // position 5
	require.NoError(t, err)
	assert.Equal(t, Hold, rule.Evaluate(support, ladder, 105, nil))

	// Never adds while a position is open.
	open := &ledger.Trade{ID: "T1", Symbol: "X", EntryPrice: 100}
	assert.Equal(t, Hold, rule.Evaluate(confirmation, ladder, 136, open))
}

func TestVolatilityTracker(t *testing.T) {
	t.Parallel()

	v := NewVolatilityTracker(3)

	assert.Equal(t, 0.0, v.Observe("X", 100))
	assert.Equal(t, 5.0, v.Observe("X", 105))
	assert.Equal(t, 7.0, v.Observe("X", 98))

	// Window of 3: the original 100 falls out.
	assert.Equal(t, 7.0, v.Observe("X", 105))

	// Symbols are tracked independently.
	assert.Equal(t, 0.0, v.Observe("Y", 42))
}
