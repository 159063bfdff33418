/*package interpolate provides the interpolation routines used by the halofit
engine: a natural cubic spline with analytic derivatives, power-law table
extension in log-log space, and Savitzky-Golay smoothing kernels.
*/
package interpolate

import (
	"fmt"
)

type splineCoeff struct {
	a, b, c, d float64
}

// Spline is a 1D natural cubic spline through a table of strictly increasing
// x values. Unlike a generic interpolator it also exposes the analytic first
// derivative of the fitted curve, which the engine uses for the effective
// spectral index.
type Spline struct {
	xs, ys []float64
	coeffs []splineCoeff
	// Estimate of the point spacing, used to seed the bin search.
	dx float64
}

// NewSpline creates a spline through the given table. The x values must be
// strictly increasing and the table must contain at least three points.
func NewSpline(xs, ys []float64) *Spline {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("Table given to NewSpline() has len(xs) = %d "+
			"but len(ys) = %d.", len(xs), len(ys)))
	} else if len(xs) < 3 {
		panic(fmt.Sprintf("Table given to NewSpline() has length %d.",
			len(xs)))
	}
	for i := 0; i < len(xs)-1; i++ {
		if xs[i+1] <= xs[i] {
			panic("Table given to NewSpline() not strictly increasing.")
		}
	}

	sp := &Spline{
		xs: xs, ys: ys,
		coeffs: make([]splineCoeff, len(xs)-1),
		dx:     (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1),
	}
	sp.calcCoeffs()
	return sp
}

// calcCoeffs solves the tridiagonal system for the second derivatives at the
// table points with natural boundary conditions, then converts them to
// per-interval cubic coefficients.
func (sp *Spline) calcCoeffs() {
	n := len(sp.xs)
	y2 := make([]float64, n)
	u := make([]float64, n-1)

	// Forward sweep. Natural boundaries: y2[0] = y2[n-1] = 0.
	for i := 1; i < n-1; i++ {
		sig := (sp.xs[i] - sp.xs[i-1]) / (sp.xs[i+1] - sp.xs[i-1])
		p := sig*y2[i-1] + 2
		y2[i] = (sig - 1) / p
		du := (sp.ys[i+1]-sp.ys[i])/(sp.xs[i+1]-sp.xs[i]) -
			(sp.ys[i]-sp.ys[i-1])/(sp.xs[i]-sp.xs[i-1])
		u[i] = (6*du/(sp.xs[i+1]-sp.xs[i-1]) - sig*u[i-1]) / p
	}
	y2[n-1] = 0
	for i := n - 2; i >= 0; i-- {
		y2[i] = y2[i]*y2[i+1] + u[i]
	}

	for i := 0; i < n-1; i++ {
		h := sp.xs[i+1] - sp.xs[i]
		// y(x) = a dx^3 + b dx^2 + c dx + d on [xs[i], xs[i+1]].
		sp.coeffs[i] = splineCoeff{
			a: (y2[i+1] - y2[i]) / (6 * h),
			b: y2[i] / 2,
			c: (sp.ys[i+1]-sp.ys[i])/h - h*(2*y2[i]+y2[i+1])/6,
			d: sp.ys[i],
		}
	}
}

// Eval computes the value of the spline at x.
//
// x must be within the range of x values given to NewSpline().
func (sp *Spline) Eval(x float64) float64 {
	i := sp.bsearch(x)
	dx := x - sp.xs[i]
	co := &sp.coeffs[i]
	return ((co.a*dx+co.b)*dx+co.c)*dx + co.d
}

// EvalAll evaluates the spline at every given point. An optional output
// slice may be passed to avoid an allocation.
func (sp *Spline) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i := range xs {
		out[0][i] = sp.Eval(xs[i])
	}
	return out[0]
}

// Deriv computes the first derivative of the spline at x.
//
// x must be within the range of x values given to NewSpline().
func (sp *Spline) Deriv(x float64) float64 {
	i := sp.bsearch(x)
	dx := x - sp.xs[i]
	co := &sp.coeffs[i]
	return (3*co.a*dx+2*co.b)*dx + co.c
}

// bsearch returns the index of the interval containing x.
func (sp *Spline) bsearch(x float64) int {
	if x < sp.xs[0] || x > sp.xs[len(sp.xs)-1] {
		panic(fmt.Sprintf("Point %g given to Spline out of bounds [%g, %g].",
			x, sp.xs[0], sp.xs[len(sp.xs)-1]))
	}

	// Guess under the assumption of uniform spacing.
	guess := int((x - sp.xs[0]) / sp.dx)
	if guess >= 0 && guess < len(sp.xs)-1 &&
		sp.xs[guess] <= x && x <= sp.xs[guess+1] {
		return guess
	}

	lo, hi := 0, len(sp.xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= sp.xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
