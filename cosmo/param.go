/*package cosmo provides the background cosmology consumed by the halofit
engine: an immutable parameter snapshot, density parameters as functions of
redshift, the critical density, the LCDM growth factor, and sigma8 computed
from a tabulated power spectrum.
*/
package cosmo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/phil-mansfield/halofit/math/interpolate"
)

// Params is an immutable snapshot of a flat-ish wCDM cosmology with (at
// most) massive neutrinos treated as matter. All density parameters are
// present-day values. Construct with NewParams so the derived quantities and
// the growth factor table are filled in.
type Params struct {
	H100 float64 // H0 / (100 km/s/Mpc)

	OmegaM      float64 // total matter: cdm + baryons + neutrinos
	OmegaCDM    float64
	OmegaB      float64
	OmegaNu     float64 // sum over massive species
	OmegaCb     float64 // cdm + baryons
	OmegaLambda float64
	OmegaK      float64

	FNu float64 // OmegaNu / OmegaM
	FCb float64 // OmegaCb / OmegaM

	W0, WA float64 // dark energy equation of state
	NS     float64 // scalar spectral index
	TCMB   float64 // CMB temperature in K

	growth *interpolate.Spline // D(a) table, a increasing
	aMin   float64
}

// NewParams creates a parameter snapshot from the independent parameters and
// computes everything derived, including the growth factor table. Curvature
// is fixed by flatness: OmegaLambda = 1 - OmegaM - OmegaK.
func NewParams(
	h, omegaCDM, omegaB, omegaNu, omegaK, w0, wa, ns float64,
) *Params {
	if h <= 0 {
		panic(fmt.Sprintf("NewParams() given h = %g.", h))
	}

	p := &Params{
		H100:     h,
		OmegaCDM: omegaCDM,
		OmegaB:   omegaB,
		OmegaNu:  omegaNu,
		OmegaK:   omegaK,
		W0:       w0,
		WA:       wa,
		NS:       ns,
		TCMB:     TCMBDefault,
	}
	p.OmegaCb = omegaCDM + omegaB
	p.OmegaM = p.OmegaCb + omegaNu
	p.OmegaLambda = 1 - p.OmegaM - omegaK
	p.FNu = p.OmegaNu / p.OmegaM
	p.FCb = p.OmegaCb / p.OmegaM

	p.tabulateGrowth()
	return p
}

// Default returns the default cosmology: Planck-like parameters with
// massless neutrinos.
func Default() *Params {
	return NewParams(0.6774, 0.2603, 0.0486, 0.0, 0.0, -1.0, 0.0, 0.9667)
}

// E computes the dimensionless Hubble factor H(z)/H0. Massive neutrinos are
// treated as pure matter, which is accurate to well below a percent at the
// redshifts the halofit engine cares about.
func (p *Params) E(z float64) float64 {
	zp1 := 1 + z
	wde := p.W0 + p.WA*z/zp1
	return math.Sqrt(p.OmegaM*zp1*zp1*zp1 +
		p.OmegaK*zp1*zp1 +
		p.OmegaLambda*math.Pow(zp1, 3*(1+wde)))
}

// Hubble computes H(z) in km/s/Mpc.
func (p *Params) Hubble(z float64) float64 {
	return 100 * p.H100 * p.E(z)
}

// OmegaMZ computes the total matter density parameter at redshift z.
func (p *Params) OmegaMZ(z float64) float64 {
	zp1 := 1 + z
	e := p.E(z)
	return p.OmegaM * zp1 * zp1 * zp1 / (e * e)
}

// OmegaCbZ computes the cdm+baryon density parameter at redshift z.
func (p *Params) OmegaCbZ(z float64) float64 {
	return p.OmegaMZ(z) * p.OmegaCb / p.OmegaM
}

// RhoCrit0 computes the critical density of the universe today in
// h^2 MSun / Mpc^3 (equivalently, MSun/h per (Mpc/h)^3). This is the density
// the engine's halo definitions are anchored to.
func (p *Params) RhoCrit0() float64 {
	return 3 * 1e4 / (8 * math.Pi * GMks)
}

// D1 computes the linear growth factor for an LCDM-like cosmology,
// normalized to 1 today. Scale-independent: the standard integral
// D(a) ~ E(a) * int_0^a da' / (a' E(a'))^3, read off a table built at
// construction time.
func (p *Params) D1(z float64) float64 {
	a := 1 / (1 + z)
	if a < p.aMin {
		// Deep matter domination: D grows like a.
		return p.growth.Eval(p.aMin) * a / p.aMin
	}
	return p.growth.Eval(a)
}

// tabulateGrowth builds the D(a) table on a log-spaced scale factor grid.
// The integral below aMin is handled analytically assuming matter
// domination, where 1/(a E)^3 = a^(3/2) / OmegaM^(3/2).
func (p *Params) tabulateGrowth() {
	const (
		n    = 1024
		aMin = 1e-5
	)

	as := make([]float64, n)
	dln := -math.Log(aMin) / float64(n-1)
	for i := range as {
		as[i] = aMin * math.Exp(float64(i)*dln)
	}
	as[n-1] = 1

	om32 := math.Pow(p.OmegaM, 1.5)
	integral := 0.4 * math.Pow(aMin, 2.5) / om32

	ds := make([]float64, n)
	prev := aMin
	prevF := invAE3(p, aMin)
	ds[0] = p.E(1/aMin-1) * integral
	for i := 1; i < n; i++ {
		f := invAE3(p, as[i])
		integral += 0.5 * (prevF + f) * (as[i] - prev)
		prev, prevF = as[i], f
		ds[i] = p.E(1/as[i]-1) * integral
	}

	d0 := ds[n-1]
	for i := range ds {
		ds[i] /= d0
	}

	p.growth = interpolate.NewSpline(as, ds)
	p.aMin = aMin
}

func invAE3(p *Params, a float64) float64 {
	ae := a * p.E(1/a-1)
	return 1 / (ae * ae * ae)
}

// TopHat computes the spherical top-hat window function in Fourier space,
// 3 (sin x - x cos x) / x^3. A series expansion is used at small x where the
// closed form loses all its significant digits.
func TopHat(x float64) float64 {
	if x < 1e-3 {
		x2 := x * x
		return 1 - x2/10 + x2*x2/280
	}
	return 3 * (math.Sin(x) - x*math.Cos(x)) / (x * x * x)
}

// Sigma8 computes sigma8, the rms linear density fluctuation in spheres of
// 8 Mpc/h, from a tabulated power spectrum. The integral is done with
// Simpson's rule in ln k. The k table should satisfy the same convergence
// heuristics as the halofit engine's (k_min <= 0.001, k_max >= 10, at least
// 100 points); no validation is performed here.
func Sigma8(k, pk []float64) float64 {
	if len(k) != len(pk) {
		panic(fmt.Sprintf("len(k) = %d, but len(pk) = %d.", len(k), len(pk)))
	}

	const R = 8.0
	lnk := make([]float64, len(k))
	integrand := make([]float64, len(k))
	for i := range k {
		lnk[i] = math.Log(k[i])
		w := TopHat(k[i] * R)
		integrand[i] = k[i] * k[i] * k[i] * pk[i] / (2 * math.Pi * math.Pi) *
			w * w
	}
	return math.Sqrt(integrate.Simpsons(lnk, integrand))
}

// NormalizePk rescales a power spectrum so that its sigma8 matches the
// target value and returns the rescaled copy.
func NormalizePk(k, pk []float64, sigma8 float64) []float64 {
	s8 := Sigma8(k, pk)
	scale := sigma8 * sigma8 / (s8 * s8)
	out := make([]float64, len(pk))
	for i := range pk {
		out[i] = pk[i] * scale
	}
	return out
}
