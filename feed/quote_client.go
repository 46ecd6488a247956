package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"traderscope/market"
)

// quoteTicker is one entry in the quote endpoint's JSON body.
type quoteTicker struct {
	Symbol string     `json:"symbol"`
	Price  priceValue `json:"price"`
}

// priceValue accepts both bare and quoted numbers; quote endpoints
// disagree on which they send.
type priceValue float64

func (p *priceValue) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", s, err)
	}
	*p = priceValue(v)
	return nil
}

// QuoteClient fetches prices from an HTTP quote endpoint returning a
// JSON array of tickers. Every request is rate limited and runs inside
// a circuit breaker so a flapping endpoint cannot soak the scheduler.
type QuoteClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// QuoteClientConfig tunes the client. Zero values fall back to defaults.
type QuoteClientConfig struct {
	Timeout time.Duration // per-request timeout
	RPS     float64       // token-bucket refill rate
	Burst   int           // token-bucket burst capacity
}

func NewQuoteClient(baseURL string, cfg QuoteClientConfig) *QuoteClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	st := gobreaker.Settings{Name: "quote-feed"}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 5
	}

	return &QuoteClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

// LatestPrice returns the current price for symbol, or a
// *FeedUnavailableError on any transport, parse, or lookup failure.
func (c *QuoteClient) LatestPrice(ctx context.Context, symbol string) (market.PriceSample, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return market.PriceSample{}, &FeedUnavailableError{Symbol: symbol, Err: err}
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchTickers(ctx)
	})
	if err != nil {
		return market.PriceSample{}, &FeedUnavailableError{Symbol: symbol, Err: err}
	}

	tickers := res.([]quoteTicker)
	for _, t := range tickers {
		if t.Symbol != symbol {
			continue
		}
		if t.Price <= 0 {
			return market.PriceSample{}, &FeedUnavailableError{
				Symbol: symbol,
				Err:    fmt.Errorf("non-positive quote %v", float64(t.Price)),
			}
		}
		return market.PriceSample{
			Symbol:     symbol,
			Price:      float64(t.Price),
			ObservedAt: time.Now().UTC(),
		}, nil
	}

	return market.PriceSample{}, &FeedUnavailableError{
		Symbol: symbol,
		Err:    fmt.Errorf("symbol not present in quote response"),
	}
}

func (c *QuoteClient) fetchTickers(ctx context.Context) ([]quoteTicker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote endpoint status %d: %s", resp.StatusCode, string(body))
	}

	var tickers []quoteTicker
	if err := json.NewDecoder(resp.Body).Decode(&tickers); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return tickers, nil
}
