package zone

// Volatility thresholds for digit selection. A recent-range or stddev
// estimate below 1 stays on the units digit; each decade up moves the
// analysis one magnitude higher.
var digitBuckets = []struct {
	below float64
	digit int
}{
	{below: 1, digit: 1},
	{below: 10, digit: 2},
	{below: 100, digit: 3},
}

// SelectDigit maps a volatility estimate to the magnitude digit to
// analyze. Monotonic: higher volatility never selects a smaller digit.
// Out-of-range inputs clamp to the nearest bucket.
func SelectDigit(volatility float64) int {
	for _, b := range digitBuckets {
		if volatility < b.below {
			return b.digit
		}
	}
	return MaxDigit
}
