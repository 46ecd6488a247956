package feed

import (
	"context"
	"sync"
	"time"

	"traderscope/market"
)

// StaticFeed serves prices from an in-memory map. Used for offline scans
// and tests; Set may be called concurrently with LatestPrice.
type StaticFeed struct {
	mu     sync.RWMutex
	prices map[string]float64
}

func NewStaticFeed(prices map[string]float64) *StaticFeed {
	m := make(map[string]float64, len(prices))
	for s, p := range prices {
		m[s] = p
	}
	return &StaticFeed{prices: m}
}

func (f *StaticFeed) Set(symbol string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[symbol] = price
}

func (f *StaticFeed) LatestPrice(_ context.Context, symbol string) (market.PriceSample, error) {
	f.mu.RLock()
	p, ok := f.prices[symbol]
	f.mu.RUnlock()

	if !ok {
		return market.PriceSample{}, &FeedUnavailableError{Symbol: symbol}
	}
	return market.PriceSample{
		Symbol:     symbol,
		Price:      p,
		ObservedAt: time.Now().UTC(),
	}, nil
}
