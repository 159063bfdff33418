package interpolate

import (
	"fmt"
	"math"
)

// ExtendLog extends the table (xs, ys) to the range [lo, hi] assuming
// power-law behavior at both ends, i.e. the table is extrapolated linearly
// in log-log space with the slope measured from the outermost point pairs.
// The spacing of the added points matches the (logarithmic) spacing of the
// table ends. Both input slices are left untouched; the returned slices
// always contain the original table in full.
//
// xs must be strictly increasing and positive, ys strictly positive, and
// lo <= xs[0], hi >= xs[len(xs)-1].
func ExtendLog(xs, ys []float64, lo, hi float64) ([]float64, []float64) {
	n := len(xs)
	if len(ys) != n {
		panic(fmt.Sprintf("len(xs) = %d, but len(ys) = %d.", n, len(ys)))
	} else if n < 2 {
		panic(fmt.Sprintf("ExtendLog() given table of length %d.", n))
	} else if lo > xs[0] || hi < xs[n-1] {
		panic(fmt.Sprintf("ExtendLog() range [%g, %g] does not contain "+
			"table range [%g, %g].", lo, hi, xs[0], xs[n-1]))
	}

	dlnLo := math.Log(xs[1] / xs[0])
	dlnHi := math.Log(xs[n-1] / xs[n-2])
	nLo := int(math.Ceil(math.Log(xs[0]/lo) / dlnLo))
	nHi := int(math.Ceil(math.Log(hi/xs[n-1]) / dlnHi))

	slopeLo := math.Log(ys[1]/ys[0]) / dlnLo
	slopeHi := math.Log(ys[n-1]/ys[n-2]) / dlnHi

	outX := make([]float64, 0, nLo+n+nHi)
	outY := make([]float64, 0, nLo+n+nHi)

	for i := nLo; i >= 1; i-- {
		lnx := math.Log(xs[0]) - float64(i)*dlnLo
		outX = append(outX, math.Exp(lnx))
		outY = append(outY, ys[0]*math.Exp(slopeLo*(lnx-math.Log(xs[0]))))
	}
	outX = append(outX, xs...)
	outY = append(outY, ys...)
	for i := 1; i <= nHi; i++ {
		lnx := math.Log(xs[n-1]) + float64(i)*dlnHi
		outX = append(outX, math.Exp(lnx))
		outY = append(outY, ys[n-1]*math.Exp(slopeHi*(lnx-math.Log(xs[n-1]))))
	}

	return outX, outY
}
