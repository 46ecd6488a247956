package zone

import (
	"math"

	"traderscope/market"
)

// Supported magnitude digits, 1-indexed from the units place. Digit 1
// analyzes 100-unit blocks, digit 2 thousand-unit blocks, and so on.
const (
	MinDigit = 1
	MaxDigit = 4
)

// DigitAnalysis locates a price inside its 100-unit block for one
// magnitude digit. Recomputed every tick, never persisted.
type DigitAnalysis struct {
	Digit      int
	BlockStart float64
	BlockEnd   float64
	Position   float64 // percentage of price within the block, [0,100)
	Zone       Zone
}

// BlockSize returns the width of the analysis block for a digit.
func BlockSize(digit int) float64 {
	return 100 * math.Pow(10, float64(digit-1))
}

// Classify maps a price onto the zone partition for one magnitude digit.
func Classify(price float64, digit int) (DigitAnalysis, error) {
	if price <= 0 {
		return DigitAnalysis{}, &market.InvalidPriceError{Price: price}
	}

	size := BlockSize(digit)
	start := math.Floor(price/size) * size
	position := (price - start) / size * 100

	return DigitAnalysis{
		Digit:      digit,
		BlockStart: start,
		BlockEnd:   start + size,
		Position:   position,
		Zone:       ForPosition(position),
	}, nil
}

// AnalyzeAllDigits runs Classify for every supported digit, smallest
// magnitude first. Pure function of price.
func AnalyzeAllDigits(price float64) ([]DigitAnalysis, error) {
	if price <= 0 {
		return nil, &market.InvalidPriceError{Price: price}
	}

	out := make([]DigitAnalysis, 0, MaxDigit-MinDigit+1)
	for d := MinDigit; d <= MaxDigit; d++ {
		da, err := Classify(price, d)
		if err != nil {
			return nil, err
		}
		out = append(out, da)
	}
	return out, nil
}
