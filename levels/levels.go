// Package levels derives the B5 ladder: five upper (BU) and five lower
// (BE) price levels spaced symmetrically around a base price by a
// magnitude-dependent factor.
package levels

import (
	"traderscope/market"
)

// Timeframe tags a ladder request. The factor table is currently
// timeframe-independent, but the tag is threaded through factorFor so
// per-timeframe tuning can be added without touching callers.
type Timeframe string

const (
	M1 Timeframe = "M1"
	M5 Timeframe = "M5"
	H1 Timeframe = "H1"
	D1 Timeframe = "D1"
)

// Ladder is the computed level set. All fields are rounded to two
// decimals; re-rounding is a no-op.
type Ladder struct {
	Base   float64
	Factor float64
	Points float64

	BU1, BU2, BU3, BU4, BU5 float64
	BE1, BE2, BE3, BE4, BE5 float64
}

// Upper returns BU1..BU5 in increasing order.
func (l Ladder) Upper() [5]float64 {
	return [5]float64{l.BU1, l.BU2, l.BU3, l.BU4, l.BU5}
}

// Lower returns BE1..BE5 in decreasing order (BE1 closest to base).
func (l Ladder) Lower() [5]float64 {
	return [5]float64{l.BE1, l.BE2, l.BE3, l.BE4, l.BE5}
}

// factorFor selects the spacing factor for a base price. Boundaries are
// half-open on the upper side: 999.99 uses 0.2611, 1000.00 uses 0.02611.
// The timeframe tag does not currently alter the table.
func factorFor(base float64, tf Timeframe) float64 {
	switch {
	case base < 1000:
		return 0.2611
	case base < 10000:
		return 0.02611
	default:
		return 0.002611
	}
}

// Calculate builds the B5 ladder around basePrice.
//
// Levels carry two decimals, so the ladder is only strictly ordered
// while the step between adjacent levels survives rounding: bases of
// about 0.04 and up. Below that, neighbouring levels can land on the
// same cent (at 0.01 the step itself rounds away and BU1 equals Base).
// Calculate still returns such ladders; callers trading sub-cent
// instruments should scale prices before building the ladder.
func Calculate(basePrice float64, tf Timeframe) (Ladder, error) {
	if basePrice <= 0 {
		return Ladder{}, &market.InvalidPriceError{Price: basePrice}
	}

	factor := factorFor(basePrice, tf)
	points := basePrice * factor

	l := Ladder{
		Base:   market.Round2(basePrice),
		Factor: factor,
		Points: market.Round2(points),
	}

	up := []*float64{&l.BU1, &l.BU2, &l.BU3, &l.BU4, &l.BU5}
	down := []*float64{&l.BE1, &l.BE2, &l.BE3, &l.BE4, &l.BE5}
	for i := 0; i < 5; i++ {
		step := float64(i+1) * points
		*up[i] = market.Round2(basePrice + step)
		*down[i] = market.Round2(basePrice - step)
	}

	return l, nil
}
