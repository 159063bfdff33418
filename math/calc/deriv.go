/*package calc provides the small calculus routines used by the halofit
engine: grid derivatives, bracketed root finding, and the sine and cosine
integrals.
*/
package calc

import (
	"fmt"
)

// Deriv computes the numerical derivative dy/dx of a tabulated sequence of
// (x, y) points. Interior points use the second-order central difference and
// the endpoints use second-order one-sided differences, so the result is
// second-order accurate everywhere on the grid.
//
// An optional output slice may be passed to avoid an allocation. The points
// do not need to be uniformly spaced, but the one-sided endpoint formulas
// assume locally uniform spacing.
func Deriv(xs, ys []float64, out ...[]float64) []float64 {
	n := len(xs)
	if len(ys) != n {
		panic(fmt.Sprintf("len(xs) = %d, but len(ys) = %d.", n, len(ys)))
	} else if n < 3 {
		panic(fmt.Sprintf("Deriv() needs at least 3 points, got %d.", n))
	}

	var dy []float64
	if len(out) == 0 {
		dy = make([]float64, n)
	} else {
		dy = out[0]
		if len(dy) != n {
			panic(fmt.Sprintf(
				"len(xs) = %d, but len(out) = %d.", n, len(dy),
			))
		}
	}

	for i := 1; i < n-1; i++ {
		dy[i] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
	}
	dy[0] = (-3*ys[0] + 4*ys[1] - ys[2]) / (xs[2] - xs[0])
	dy[n-1] = (3*ys[n-1] - 4*ys[n-2] + ys[n-3]) / (xs[n-1] - xs[n-3])

	return dy
}
