package power

import (
	"math"
	"testing"

	"github.com/phil-mansfield/halofit/cosmo"
)

func logspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	dln := (math.Log(hi) - math.Log(lo)) / float64(n-1)
	for i := range out {
		out[i] = lo * math.Exp(float64(i)*dln)
	}
	return out
}

func TestEisensteinHu(t *testing.T) {
	p := cosmo.Default()
	k := logspace(1e-4, 1e2, 1001)
	z := []float64{0, 1}
	pk := EisensteinHu(p, z, k, 0.8)

	if len(pk) != 2 || len(pk[0]) != len(k) {
		t.Fatalf("EisensteinHu() shape (%d, %d), want (2, %d)",
			len(pk), len(pk[0]), len(k))
	}
	for iz := range pk {
		for i := range k {
			if !(pk[iz][i] > 0) || math.IsInf(pk[iz][i], 0) {
				t.Fatalf("pk[%d][%d] = %g", iz, i, pk[iz][i])
			}
		}
	}

	// z = 0 row carries the requested normalization.
	if got := cosmo.Sigma8(k, pk[0]); math.Abs(got-0.8) > 1e-6 {
		t.Errorf("Sigma8(EH, z=0) = %g, want 0.8", got)
	}

	// Rows scale with the growth factor squared.
	d := p.D1(1)
	for i := 0; i < len(k); i += 100 {
		if math.Abs(pk[1][i]/pk[0][i]-d*d) > 1e-10 {
			t.Errorf("pk(z=1)/pk(z=0) = %g at k = %g, want %g",
				pk[1][i]/pk[0][i], k[i], d*d)
		}
	}

	// The spectrum turns over: rising at the largest scales, falling at
	// the smallest.
	if !(pk[0][10] > pk[0][0]) {
		t.Errorf("EH spectrum not rising at low k.")
	}
	if !(pk[0][len(k)-1] < pk[0][len(k)-100]) {
		t.Errorf("EH spectrum not falling at high k.")
	}
}

func TestRemoveBAOSmoothInput(t *testing.T) {
	// The EH zero-baryon spectrum has no wiggles: de-wiggling should be
	// close to the identity.
	p := cosmo.Default()
	k := logspace(1e-4, 1e2, 1001)
	pk := EisensteinHu(p, []float64{0}, k, 0.8)[0]

	nw := RemoveBAO(k, pk)
	if len(nw) != len(k) {
		t.Fatalf("RemoveBAO() length %d, want %d", len(nw), len(k))
	}
	for i := range k {
		if math.Abs(nw[i]/pk[i]-1) > 0.03 {
			t.Errorf("RemoveBAO() moved a smooth spectrum by %g%% "+
				"at k = %g", 100*(nw[i]/pk[i]-1), k[i])
		}
	}
	// Outside the BAO range the input is passed through untouched.
	for i := range k {
		if k[i] <= 2.8e-2 || k[i] >= 4.5e-1 {
			if nw[i] != pk[i] {
				t.Errorf("RemoveBAO() changed a point outside the BAO "+
					"range at k = %g", k[i])
			}
		}
	}
}

func TestRemoveBAOInteriorGrid(t *testing.T) {
	// The smoothing runs on an internal uniform-in-k resampling of the BAO
	// range. Every point inside the range must come back finite and
	// positive, including the ones nearest the range edges.
	p := cosmo.Default()
	k := logspace(1e-3, 1e1, 301)
	pk := EisensteinHu(p, []float64{0}, k, 0.8)[0]

	nw := RemoveBAO(k, pk)
	for i := range k {
		if k[i] > 2.8e-2 && k[i] < 4.5e-1 {
			if !(nw[i] > 0) || math.IsInf(nw[i], 0) {
				t.Errorf("RemoveBAO()[%d] = %g at k = %g", i, nw[i], k[i])
			}
		}
	}
}

func TestRemoveBAODampsWiggles(t *testing.T) {
	p := cosmo.Default()
	k := logspace(1e-4, 1e2, 1001)
	smooth := EisensteinHu(p, []float64{0}, k, 0.8)[0]

	// Synthetic BAO: oscillations confined to the BAO range, with the
	// right period in k, tapered at the range edges.
	pk := make([]float64, len(k))
	for i := range k {
		w := 0.0
		if k[i] > 2.8e-2 && k[i] < 4.5e-1 {
			taper := math.Sin(math.Pi *
				math.Log(k[i]/2.8e-2) / math.Log(4.5e-1/2.8e-2))
			w = 0.04 * taper * math.Sin(2*math.Pi*k[i]/0.06)
		}
		pk[i] = smooth[i] * (1 + w)
	}

	nw := RemoveBAO(k, pk)

	var rmsIn, rmsOut float64
	n := 0
	for i := range k {
		if k[i] > 4e-2 && k[i] < 3e-1 {
			din := pk[i]/smooth[i] - 1
			dout := nw[i]/smooth[i] - 1
			rmsIn += din * din
			rmsOut += dout * dout
			n++
		}
	}
	rmsIn = math.Sqrt(rmsIn / float64(n))
	rmsOut = math.Sqrt(rmsOut / float64(n))

	if rmsOut > rmsIn/3 {
		t.Errorf("RemoveBAO() rms wiggle %g, input %g: reduction < 3x",
			rmsOut, rmsIn)
	}
}
