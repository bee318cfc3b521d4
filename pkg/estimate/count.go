package estimate

import "math"

// MaxCount is the largest representable path count. Arithmetic that would
// exceed it stops there and marks the result Saturated.
const MaxCount = math.MaxInt64

// maxCountFloat is 2^63, the first float64 that does not fit in an int64.
const maxCountFloat = float64(1 << 63)

// CountFromFloat converts a non-negative integral value to a count.
// Values at or above 2^63, +Inf and NaN saturate; negative values are 0.
func CountFromFloat(x float64) (n int64, saturated bool) {
	if x <= 0 {
		return 0, false
	}
	if !(x < maxCountFloat) {
		return MaxCount, true
	}
	return int64(x), false
}

// AddCounts returns a+b for non-negative counts, saturating at MaxCount.
func AddCounts(a, b int64) (int64, bool) {
	if a > MaxCount-b {
		return MaxCount, true
	}
	return a + b, false
}

// MulCounts returns a*b for non-negative counts, saturating at MaxCount.
func MulCounts(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	if a > MaxCount/b {
		return MaxCount, true
	}
	return a * b, false
}
