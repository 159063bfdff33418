package halofit

import (
	"math"

	"github.com/phil-mansfield/halofit/math/calc"
)

// UNFW computes the Fourier transform of the NFW halo profile at x = k r_s
// for a halo of concentration c, normalized so that UNFW(c, 0) = 1 (the
// profile integrates to unit mass).
func UNFW(c, x float64) float64 {
	if x < 1e-8 {
		return 1
	}

	si1, ci1 := calc.SinCosIntegral(x)
	si2, ci2 := calc.SinCosIntegral((1 + c) * x)
	den := math.Log(1+c) - c/(1+c)
	return (math.Sin(x)*(si2-si1) + math.Cos(x)*(ci2-ci1) -
		math.Sin(c*x)/((1+c)*x)) / den
}

// STMassFunction computes the Sheth-Tormen universal mass function f(nu) at
// the given peak height, with the standard a = 0.707, p = 0.3 and the
// amplitude fixed so that the function integrates to unity over all nu.
func STMassFunction(nu float64) float64 {
	const (
		a = 0.707
		p = 0.3
	)
	amp := 1 / (1 + math.Pow(2, -p)*math.Gamma(0.5-p)/math.Sqrt(math.Pi))

	an2 := a * nu * nu
	return amp * math.Sqrt(2*an2/math.Pi) *
		(1 + math.Pow(an2, -p)) * math.Exp(-an2/2)
}

// dndM computes the Sheth-Tormen halo mass function dn/dM over the mass
// grid from one row of the peak height table. The d ln(nu) / d ln(M)
// factor is a second-order numerical gradient on the fixed log-mass grid.
func dndM(lnMass, mass, nuRow []float64, rhoField float64) []float64 {
	dnu := calc.Deriv(lnMass, nuRow)
	out := make([]float64, len(mass))
	for i := range mass {
		logDer := dnu[i] / nuRow[i]
		out[i] = rhoField / (mass[i] * mass[i]) * logDer *
			STMassFunction(nuRow[i])
	}
	return out
}
