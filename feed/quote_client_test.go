package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteClientLatestPrice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"BTCUSDT","price":64123.45},{"symbol":"ETHUSDT","price":3100.1}]`))
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{})

	s, err := c.LatestPrice(context.Background(), "ETHUSDT")
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", s.Symbol)
	assert.Equal(t, 3100.1, s.Price)
	assert.False(t, s.ObservedAt.IsZero())
}

func TestQuoteClientQuotedPrices(t *testing.T) {
	t.Parallel()

	// Binance-style bodies quote the price field.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"BTCUSDT","price":"64123.45"}]`))
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{})

	s, err := c.LatestPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 64123.45, s.Price)
}

func TestQuoteClientSymbolMissing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"BTCUSDT","price":64123.45}]`))
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{})

	_, err := c.LatestPrice(context.Background(), "DOGEUSDT")
	var fue *FeedUnavailableError
	require.True(t, errors.As(err, &fue))
	assert.Equal(t, "DOGEUSDT", fue.Symbol)
}

func TestQuoteClientMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"`))
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{})

	_, err := c.LatestPrice(context.Background(), "BTCUSDT")
	var fue *FeedUnavailableError
	assert.True(t, errors.As(err, &fue))
}

func TestQuoteClientBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{})

	_, err := c.LatestPrice(context.Background(), "BTCUSDT")
	var fue *FeedUnavailableError
	assert.True(t, errors.As(err, &fue))
}

func TestQuoteClientNonPositiveQuote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"BTCUSDT","price":0}]`))
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{})

	_, err := c.LatestPrice(context.Background(), "BTCUSDT")
	var fue *FeedUnavailableError
	assert.True(t, errors.As(err, &fue))
}

func TestQuoteClientTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{Timeout: 20 * time.Millisecond})

	_, err := c.LatestPrice(context.Background(), "BTCUSDT")
	var fue *FeedUnavailableError
	assert.True(t, errors.As(err, &fue))
}

func TestQuoteClientBreakerOpens(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewQuoteClient(srv.URL, QuoteClientConfig{RPS: 1000, Burst: 1000})

	for i := 0; i < 10; i++ {
		_, err := c.LatestPrice(context.Background(), "BTCUSDT")
		assert.Error(t, err)
	}
	// After five consecutive failures the breaker opens and stops
	// hitting the endpoint.
	assert.Equal(t, 5, hits)
}

func TestStaticFeed(t *testing.T) {
	t.Parallel()

	f := NewStaticFeed(map[string]float64{"BTCUSDT": 100})

	s, err := f.LatestPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.Price)

	f.Set("BTCUSDT", 105)
	s, err = f.LatestPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 105.0, s.Price)

	_, err = f.LatestPrice(context.Background(), "NOPE")
	var fue *FeedUnavailableError
	assert.True(t, errors.As(err, &fue))
}
