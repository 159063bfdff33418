package power

import (
	"math"

	"github.com/phil-mansfield/halofit/cosmo"
)

// EisensteinHu computes linear power spectra on the given (z, k) grid using
// the Eisenstein & Hu (1998) zero-baryon transfer function, i.e. a smooth
// no-wiggle shape with baryonic suppression folded into an effective shape
// parameter. The z = 0 spectrum is normalized to the requested sigma8 and
// the other rows are scaled by the growth factor squared.
//
// k is in h/Mpc and the returned spectra are in (Mpc/h)^3. This cannot
// handle massive neutrinos or scale-dependent growth; it exists so that
// tests and quick-look callers do not need a Boltzmann solver.
func EisensteinHu(p *cosmo.Params, z, k []float64, sigma8 float64) [][]float64 {
	theta := p.TCMB / 2.7
	om := p.OmegaM * p.H100 * p.H100
	ob := p.OmegaB * p.H100 * p.H100
	fb := p.OmegaB / p.OmegaM

	// Sound horizon in Mpc and the effective shape parameter suppression.
	s := 44.5 * math.Log(9.83/om) / math.Sqrt(1+10*math.Pow(ob, 0.75))
	alphaGamma := 1 - 0.328*math.Log(431*om)*fb + 0.38*math.Log(22.3*om)*fb*fb

	pk0 := make([]float64, len(k))
	for i, kh := range k {
		kMpc := kh * p.H100
		gammaEff := p.OmegaM * p.H100 *
			(alphaGamma + (1-alphaGamma)/(1+math.Pow(0.43*kMpc*s, 4)))
		q := kMpc * theta * theta / gammaEff
		l0 := math.Log(2*math.E + 1.8*q)
		c0 := 14.2 + 731/(1+62.5*q)
		t := l0 / (l0 + c0*q*q)
		pk0[i] = math.Pow(kh, p.NS) * t * t
	}
	pk0 = cosmo.NormalizePk(k, pk0, sigma8)

	out := make([][]float64, len(z))
	for iz := range z {
		d := p.D1(z[iz])
		row := make([]float64, len(k))
		for i := range k {
			row[i] = pk0[i] * d * d
		}
		out[iz] = row
	}
	return out
}
