package halofit

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/phil-mansfield/halofit/cosmo"
	"github.com/phil-mansfield/halofit/math/interpolate"
)

// Power spectrum tables are extended to this range as power laws before the
// variance integrals are taken. Without the extension the top-hat integrals
// pick up truncation bias at both ends of the mass grid.
const (
	extKMin = 1e-6
	extKMax = 1e8
)

// extendPk returns the log-log power-law extension of a single P(k) row,
// along with ln k of the extended grid.
func extendPk(k, pk []float64) (kExt, lnkExt, pkExt []float64) {
	kExt, pkExt = interpolate.ExtendLog(k, pk, extKMin, extKMax)
	lnkExt = make([]float64, len(kExt))
	for i := range kExt {
		lnkExt[i] = math.Log(kExt[i])
	}
	return kExt, lnkExt, pkExt
}

// sigma2 computes the mass variance sigma^2(M) for every mass on the grid,
// from the (already extended) power spectrum: the integral of
// k^3 P(k)/(2 pi^2) W(kR)^2 in ln k, with W the top-hat window and R the
// Lagrangian radius of each mass.
func sigma2(kExt, lnkExt, pkExt, rr []float64) []float64 {
	pre := make([]float64, len(kExt))
	for i := range kExt {
		pre[i] = kExt[i] * kExt[i] * kExt[i] * pkExt[i] /
			(2 * math.Pi * math.Pi)
	}

	integrand := make([]float64, len(kExt))
	out := make([]float64, len(rr))
	for j, r := range rr {
		for i := range kExt {
			w := cosmo.TopHat(kExt[i] * r)
			integrand[i] = pre[i] * w * w
		}
		out[j] = integrate.Trapezoidal(lnkExt, integrand)
	}
	return out
}

// sigmaDisp computes the rms displacement sigma_d for a top-hat window of
// radius R: the sigma^2 integrand divided by k^2, with the 1/3 factor from
// averaging the displacement components.
func sigmaDisp(kExt, lnkExt, pkExt []float64, r float64) float64 {
	integrand := make([]float64, len(kExt))
	for i := range kExt {
		w := cosmo.TopHat(kExt[i] * r)
		integrand[i] = kExt[i] * pkExt[i] / (6 * math.Pi * math.Pi) * w * w
	}
	return math.Sqrt(integrate.Trapezoidal(lnkExt, integrand))
}
