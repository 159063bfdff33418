package halofit

import (
	"math"

	"gonum.org/v1/gonum/integrate"
)

// assemble computes the mass function, NFW profiles, and the final power
// spectrum blend for a single redshift. Iteration order is M outer, k inner
// for the profile table and k outer, M inner for the mass integral, so the
// integral sums run in fixed grid order.
func (e *Engine) assemble(iz int) {
	nk := len(e.K)

	e.Hmf[iz] = dndM(e.LnMass, e.Mass, e.Nu[iz], e.RhoField)

	// Fourier-space NFW profile, bloated by nu^eta.
	u := make([][]float64, nMass)
	for im := 0; im < nMass; im++ {
		rBloat := math.Pow(e.Nu[iz][im], e.Eta[iz]) * e.Rs[iz][im]
		c := e.Conc[iz][im]
		row := make([]float64, nk)
		for ik := 0; ik < nk; ik++ {
			row[ik] = UNFW(c, e.K[ik]*rBloat)
		}
		u[im] = row
	}

	pk1h := make([]float64, nk)
	pk2h := make([]float64, nk)
	pknl := make([]float64, nk)

	integrand := make([]float64, nMass)
	for ik := 0; ik < nk; ik++ {
		// 1-halo mass integral in ln M.
		for im := 0; im < nMass; im++ {
			m := e.Mass[im]
			mw := m / e.RhoField
			uu := u[im][ik]
			integrand[im] = mw * mw * e.Hmf[iz][im] * uu * uu * m
		}
		p1 := integrate.Trapezoidal(e.LnMass, integrand)

		// Low-k damping of the 1-halo term. The damping is
		// (1 - exp(-2 k/k*))^3, which deviates from the published Mead
		// et al. formula and is kept for parity with the fits this model
		// was calibrated against.
		ex := math.Exp(-e.K[ik] / e.KStar[iz])
		d := 1 - ex*ex
		pk1h[ik] = p1 * d * d * d

		// 2-halo term: de-wiggled spectrum with high-k damping.
		t := math.Tanh(e.K[ik] * e.SigDisp[iz] / math.Sqrt(e.FDamp[iz]))
		pk2h[ik] = e.PkDeWiggled[iz][ik] * (1 - e.FDamp[iz]*t*t)

		// Smooth-minimum blend.
		a := e.Alpha[iz]
		pknl[ik] = math.Pow(
			math.Pow(pk1h[ik], a)+math.Pow(pk2h[ik], a), 1/a)
	}

	e.Pk1H[iz] = pk1h
	e.Pk2H[iz] = pk2h
	e.PkNL[iz] = pknl
}
