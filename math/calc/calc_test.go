package calc

import (
	"math"
	"testing"
)

func almostEq(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps
}

func TestDerivQuadratic(t *testing.T) {
	// Second-order differences are exact on quadratics, including the
	// one-sided endpoint formulas.
	xs := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x*x - 2*x + 1
	}

	dy := Deriv(xs, ys)
	for i, x := range xs {
		want := 6*x - 2
		if !almostEq(dy[i], want, 1e-12) {
			t.Errorf("Deriv()[%d] = %g, want %g", i, dy[i], want)
		}
	}
}

func TestDerivOut(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 2, 4, 6}
	out := make([]float64, 4)
	ret := Deriv(xs, ys, out)
	if &ret[0] != &out[0] {
		t.Errorf("Deriv() did not write to the supplied output slice.")
	}
	for i := range out {
		if !almostEq(out[i], 2, 1e-12) {
			t.Errorf("Deriv()[%d] = %g, want 2", i, out[i])
		}
	}
}

func TestRoot(t *testing.T) {
	f := func(x float64) float64 { return x*x - 2 }

	x, ok := Root(f, 0, 2)
	if !ok {
		t.Fatalf("Root() failed to bracket a zero of x^2 - 2 on [0, 2].")
	}
	if !almostEq(x, math.Sqrt2, 1e-10) {
		t.Errorf("Root() = %g, want %g", x, math.Sqrt2)
	}

	// Decreasing function through zero.
	g := func(x float64) float64 { return math.Exp(-x) - 0.5 }
	x, ok = Root(g, 0, 10)
	if !ok || !almostEq(x, math.Ln2, 1e-10) {
		t.Errorf("Root() = (%g, %v), want (%g, true)", x, ok, math.Ln2)
	}
}

func TestRootNotBracketed(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }
	if _, ok := Root(f, -5, 5); ok {
		t.Errorf("Root() claimed to bracket a zero of x^2 + 1.")
	}
}

func TestRootEndpoint(t *testing.T) {
	f := func(x float64) float64 { return x }
	if x, ok := Root(f, 0, 1); !ok || x != 0 {
		t.Errorf("Root() = (%g, %v), want (0, true)", x, ok)
	}
}
