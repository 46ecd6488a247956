package zone

// Type is the trading-relevant meaning of a zone.
type Type string

const (
	Support      Type = "support"
	Resistance   Type = "resistance"
	Confirmation Type = "confirmation"
	Rejection    Type = "rejection"
	Momentum     Type = "momentum"
	Midpoint     Type = "midpoint"
)

// Zone is a named sub-range of a 100-unit price block. Lower and Upper are
// percentages within the block. A zone with Lower == Upper is a boundary
// point: it matches only the exact value.
type Zone struct {
	Name  string
	Type  Type
	Lower float64
	Upper float64
}

// Partition is the fixed, ordered zone table covering [0,100).
//
// Convention: ranges are lower-inclusive, upper-exclusive. Boundary points
// (50, 61.8, 78, 88) are listed before the range that starts at the same
// value and match on exact equality only.
var Partition = []Zone{
	{Name: "major support", Type: Support, Lower: 0, Upper: 11.8},
	{Name: "early support", Type: Support, Lower: 11.8, Upper: 22},
	{Name: "floor", Type: Support, Lower: 22, Upper: 28},
	{Name: "support test", Type: Support, Lower: 28, Upper: 35},
	{Name: "confirmation", Type: Confirmation, Lower: 35, Upper: 38},
	{Name: "first retracement", Type: Rejection, Lower: 38, Upper: 45},
	{Name: "rejection", Type: Rejection, Lower: 45, Upper: 50},
	{Name: "midpoint", Type: Midpoint, Lower: 50, Upper: 50},
	{Name: "trend building", Type: Momentum, Lower: 50, Upper: 61.8},
	{Name: "major fib target", Type: Resistance, Lower: 61.8, Upper: 61.8},
	{Name: "acceleration", Type: Momentum, Lower: 61.8, Upper: 78},
	{Name: "fast-trend start", Type: Momentum, Lower: 78, Upper: 78},
	{Name: "high momentum", Type: Momentum, Lower: 78, Upper: 88},
	{Name: "decision point", Type: Resistance, Lower: 88, Upper: 88},
	{Name: "late trend", Type: Momentum, Lower: 88, Upper: 95},
	{Name: "major rejection", Type: Resistance, Lower: 95, Upper: 100},
}

// ForPosition returns the zone containing position, which must be in
// [0,100). Boundary points win over the range sharing their lower bound.
func ForPosition(position float64) Zone {
	for _, z := range Partition {
		if z.Lower == z.Upper {
			if position == z.Lower {
				return z
			}
			continue
		}
		if position >= z.Lower && position < z.Upper {
			return z
		}
	}
	// position >= 100 or < 0 cannot happen for a valid classification;
	// fall back to the outermost zones rather than panic.
	if position < 0 {
		return Partition[0]
	}
	return Partition[len(Partition)-1]
}
