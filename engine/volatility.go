package engine

import "sync"

// VolatilityTracker keeps a bounded window of recent prices per symbol
// and reports the high-low range over that window. The range feeds
// zone.SelectDigit; a symbol with no history yet reports zero, which
// selects the units digit.
type VolatilityTracker struct {
	mu      sync.Mutex
	window  int
	samples map[string][]float64
}

func NewVolatilityTracker(window int) *VolatilityTracker {
	if window <= 1 {
		window = 20
	}
	return &VolatilityTracker{
		window:  window,
		samples: make(map[string][]float64),
	}
}

// Observe records a price and returns the current range estimate.
func (v *VolatilityTracker) Observe(symbol string, price float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := append(v.samples[symbol], price)
	if len(s) > v.window {
		s = s[len(s)-v.window:]
	}
	v.samples[symbol] = s

	lo, hi := s[0], s[0]
	for _, p := range s[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return hi - lo
}
