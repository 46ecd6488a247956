package market

import (
	"fmt"
	"math"
	"time"
)

// PriceSample is a single observed price for a symbol. Immutable once
// produced; everything downstream is computed from it at that instant.
type PriceSample struct {
	Symbol     string
	Price      float64
	ObservedAt time.Time
}

// InvalidPriceError reports a non-positive price handed to classification
// or level calculation. It is a precondition failure, never clamped.
type InvalidPriceError struct {
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %v: must be positive", e.Price)
}

// Round2 rounds to two decimal places, half away from zero. Idempotent:
// Round2(Round2(x)) == Round2(x).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
