package halofit

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/phil-mansfield/halofit/math/calc"
	"github.com/phil-mansfield/halofit/math/interpolate"
)

// ABar is the minimum halo concentration of the Mead et al. model. It also
// sets the normalization of the bloating parameter eta.
const ABar = 3.13

// The scalar fit parameters below are the empirical formulas of Mead et al.
// in the background quantities Omega_cb(z), sigma8(z) and sigma_d(z).

// deltaV computes the virial overdensity of a collapsed halo.
func deltaV(omCbZ, fNu float64) float64 {
	return 418 * math.Pow(omCbZ, -0.352) * (1 + 0.916*fNu)
}

// deltaC computes the critical linear density at collapse.
func deltaC(sig8, omCbZ, fNu float64) float64 {
	return (1.59 + 0.0314*math.Log(sig8)) *
		(1 + 0.0123*math.Log10(omCbZ)) *
		(1 + 0.262*fNu)
}

// fDamp computes the 2-halo damping amplitude from the displacement
// dispersion in 100 Mpc/h spheres.
func fDamp(sigDisp100 float64) float64 {
	return 0.0095 * math.Pow(sigDisp100, 1.37)
}

// etaBloat computes the halo bloating exponent.
func etaBloat(sig8 float64) float64 {
	return 0.98 - 0.12*ABar - 0.3*sig8
}

// kStar computes the 1-halo damping scale from the unsmoothed displacement
// dispersion.
func kStar(sigDisp float64) float64 {
	return 0.584 / sigDisp
}

// Bounds on the quasi-linear softening exponent. The fit formula has no
// intrinsic limit and a pathological n_eff would overflow pow(P, alpha).
const (
	alphaMin = 0.1
	alphaMax = 10.0
)

// alpha computes the quasi-linear softening exponent from the effective
// spectral index, clipped to [alphaMin, alphaMax].
func alpha(neff float64) float64 {
	a := 3.24 * math.Pow(1.85, neff)
	if a < alphaMin {
		return alphaMin
	} else if a > alphaMax {
		return alphaMax
	}
	return a
}

// neffAt computes the effective spectral index of the linear spectrum at the
// non-linear mass scale: the mass M1 where sigma^2(M1) = deltaC^2 is located
// by root finding on a spline of the variance table, and the index follows
// from the log-derivative of sigma^2 there. When no root is bracketed on the
// mass grid the empirical seed log10 M1 = 13 - 1.75 (1+z) is used instead.
func neffAt(lnMass, sig2Row []float64, dc, z float64) float64 {
	sig2Spline := interpolate.NewSpline(lnMass, sig2Row)

	lo, hi := lnMass[0], lnMass[len(lnMass)-1]
	lnM1, ok := calc.Root(func(lnm float64) float64 {
		return sig2Spline.Eval(lnm) - dc*dc
	}, lo, hi)
	if !ok {
		lnM1 = (13 - 1.75*(1+z)) * math.Ln10
		if lnM1 < lo {
			lnM1 = lo
		} else if lnM1 > hi {
			lnM1 = hi
		}
	}

	lnSig2 := make([]float64, len(sig2Row))
	for i := range sig2Row {
		lnSig2[i] = math.Log(sig2Row[i])
	}
	logDer := interpolate.NewSpline(lnMass, lnSig2).Deriv(lnM1)
	return -3 - 3*logDer
}

// growthInverse tabulates the linear growth factor on a coarse redshift grid
// and returns a monotone interpolant of z as a function of D, together with
// the valid D range. Used by the formation redshift solver.
type growthInverse struct {
	fit        interp.FritschButland
	dMin, dMax float64
}

func newGrowthInverse(d1 func(float64) float64) *growthInverse {
	const (
		zMax = 30.0
		n    = 1001
	)

	// D1 decreases with z; reverse both tables so the abscissa increases.
	ds := make([]float64, n)
	zs := make([]float64, n)
	for i := 0; i < n; i++ {
		z := zMax * float64(n-1-i) / float64(n-1)
		zs[i] = z
		ds[i] = d1(z)
	}

	gi := &growthInverse{dMin: ds[0], dMax: ds[n-1]}
	if err := gi.fit.Fit(ds, zs); err != nil {
		panic("Growth factor table is not monotone.")
	}
	return gi
}

// zAt inverts D1(z) = d. The second return value is false when d lies
// outside the tabulated growth range.
func (gi *growthInverse) zAt(d float64) (float64, bool) {
	if d < gi.dMin || d > gi.dMax {
		return 0, false
	}
	return gi.fit.Predict(d), true
}

// zForm computes the formation redshift for every mass on the grid at a
// single observation redshift z: the redshift where the growth factor
// reaches D1(z) deltaC / sigma(0.01 M). Inversions that land outside the
// tabulated growth range, or below z itself, are clamped to z: a halo
// cannot form after it is observed.
func zForm(
	gi *growthInverse, mass, lnMass, sig2Row []float64,
	d1z, dc, z float64,
) []float64 {
	const frac = 0.01

	// sigma(M) needs to be evaluated at 0.01 M, below the mass grid, so
	// extend it as a power law first.
	sig := make([]float64, len(mass))
	for i := range sig2Row {
		sig[i] = math.Sqrt(sig2Row[i])
	}
	mExt, sigExt := interpolate.ExtendLog(
		mass, sig, 0.1*frac*mass[0], 10*mass[len(mass)-1])
	lnmExt := make([]float64, len(mExt))
	lnSigExt := make([]float64, len(mExt))
	for i := range mExt {
		lnmExt[i] = math.Log(mExt[i])
		lnSigExt[i] = math.Log(sigExt[i])
	}
	sigSpline := interpolate.NewSpline(lnmExt, lnSigExt)

	out := make([]float64, len(mass))
	for i := range mass {
		sFM := math.Exp(sigSpline.Eval(math.Log(frac) + lnMass[i]))
		zf, ok := gi.zAt(d1z * dc / sFM)
		if !ok || zf < z {
			zf = z
		}
		out[i] = zf
	}
	return out
}

// concentration computes the halo concentration from the formation
// redshift, c = ABar (1 + zf) / (1 + z).
func concentration(zf, z float64) float64 {
	return ABar * (1 + zf) / (1 + z)
}
