package calc

import (
	"math"
)

// Root finds a zero of f inside [lo, hi] by bisection. The second return
// value reports whether a zero was bracketed at all: if f(lo) and f(hi) have
// the same sign, Root returns (0, false) and the caller is expected to take
// its own fallback branch. No error or panic is involved in that case.
func Root(f func(float64) float64, lo, hi float64) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, true
	} else if fhi == 0 {
		return hi, true
	} else if (flo > 0) == (fhi > 0) {
		return 0, false
	}

	// 100 halvings puts the bracket width below any float64 spacing that
	// could occur for the ranges used in this module.
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if mid == lo || mid == hi {
			break
		}
		fmid := f(mid)
		if fmid == 0 {
			return mid, true
		}
		if (fmid > 0) == (flo > 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
		if math.Abs(hi-lo) < 1e-12*(1+math.Abs(lo)) {
			break
		}
	}
	return (lo + hi) / 2, true
}
