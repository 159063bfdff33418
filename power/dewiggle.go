/*package power provides the linear-spectrum collaborators of the halofit
engine: a BAO de-wiggling filter and an Eisenstein-Hu (1998) no-wiggle
linear power spectrum for callers without a Boltzmann solver.
*/
package power

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/halofit/math/interpolate"
)

// The BAO features live inside this wavenumber range (h/Mpc).
const (
	baoKLow  = 2.8e-2
	baoKHigh = 4.5e-1
)

// RemoveBAO smooths out the baryon acoustic oscillations of a tabulated
// power spectrum and returns the "no-wiggle" broadband curve, with the same
// length and k domain as the input. Points outside the BAO range are left on
// the input curve (up to spline round-off); inside the range the broadband
// is the log-log spline through the out-of-range points, corrected by the
// Savitzky-Golay-smoothed trend of the wiggle ratio.
//
// k must be strictly increasing and (approximately) log-uniform, and pk
// strictly positive.
func RemoveBAO(k, pk []float64) []float64 {
	n := len(k)
	if len(pk) != n {
		panic(fmt.Sprintf("len(k) = %d, but len(pk) = %d.", n, len(pk)))
	}

	// Spline the log-log points outside the BAO range; across the gap the
	// spline traces the broadband shape.
	lnkOut, lnpOut := []float64{}, []float64{}
	for i := range k {
		if k[i] <= baoKLow || k[i] >= baoKHigh {
			lnkOut = append(lnkOut, math.Log(k[i]))
			lnpOut = append(lnpOut, math.Log(pk[i]))
		}
	}
	if len(lnkOut) < 4 {
		panic("RemoveBAO() needs points outside the BAO range " +
			"[0.028, 0.45] h/Mpc.")
	}
	broadSpline := interpolate.NewSpline(lnkOut, lnpOut)

	broad := make([]float64, n)
	ratio := make([]float64, n)
	for i := range k {
		broad[i] = math.Exp(broadSpline.Eval(math.Log(k[i])))
		ratio[i] = pk[i] / broad[i]
	}

	// Smooth the wiggle ratio on a uniform-in-k grid: the BAO are periodic
	// in k (period ~0.06 h/Mpc), so a fixed window there covers the same
	// number of oscillations at every scale. The window spans ~2.5 periods
	// and repeated passes kill the residual oscillation while the
	// polynomial part of the broadband trend survives.
	const (
		dkUnif   = 1.5e-3
		width    = 101
		nPasses  = 3
		savOrder = 2
	)
	nUnif := int(math.Floor((baoKHigh-baoKLow)/dkUnif)) + 1
	kUnif := make([]float64, nUnif)
	rUnif := make([]float64, nUnif)
	for i := range kUnif {
		kUnif[i] = baoKLow + float64(i)*dkUnif
		rUnif[i] = lerp(k, ratio, kUnif[i])
	}

	kern := interpolate.NewSavGolKernel(savOrder, width)
	for pass := 0; pass < nPasses; pass++ {
		rUnif = kern.Convolve(rUnif)
	}

	out := make([]float64, n)
	for i := range k {
		if k[i] > baoKLow && k[i] < baoKHigh {
			out[i] = broad[i] * lerp(kUnif, rUnif, k[i])
		} else {
			out[i] = pk[i]
		}
	}
	return out
}

// lerp linearly interpolates the table (xs, ys) at x, clamping to the table
// range. xs must be increasing.
func lerp(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	} else if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	i := sort.SearchFloat64s(xs, x) - 1
	t := (x - xs[i]) / (xs[i+1] - xs[i])
	return ys[i] + t*(ys[i+1]-ys[i])
}
