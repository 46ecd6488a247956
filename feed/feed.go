package feed

import (
	"context"
	"fmt"

	"traderscope/market"
)

// Feed supplies the latest price for a symbol. Implementations may block
// on I/O; callers must pass a bounded context.
type Feed interface {
	LatestPrice(ctx context.Context, symbol string) (market.PriceSample, error)
}

// FeedUnavailableError is a transient failure talking to the price
// source: network error, bad status, malformed body, or the requested
// symbol missing from the response. Callers skip the symbol for this
// tick and retry on the next interval.
type FeedUnavailableError struct {
	Symbol string
	Err    error
}

func (e *FeedUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("feed unavailable for %q", e.Symbol)
	}
	return fmt.Sprintf("feed unavailable for %q: %v", e.Symbol, e.Err)
}

func (e *FeedUnavailableError) Unwrap() error { return e.Err }
