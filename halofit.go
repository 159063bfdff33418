/*package halofit converts a tabulated linear matter power spectrum into its
non-linear counterpart with the halo-model fitting formula of Mead et al.
(arXiv:1505.07833, arXiv:1602.02154).

An Engine is built once per (z, k, P_lin) triple. Construction eagerly runs
the whole pipeline: mass variance, displacement dispersions, the fitted
scalar parameters, per-mass halo properties (peak height, formation
redshift, concentration, radii), the Fourier-space NFW profile, the
Sheth-Tormen mass function, and finally the damped 1-halo + 2-halo blend.
All intermediate tables are exported read-only fields; nothing is mutated
after New returns.
*/
package halofit

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/phil-mansfield/halofit/cosmo"
	"github.com/phil-mansfield/halofit/math/interpolate"
	"github.com/phil-mansfield/halofit/power"
)

// Field selects the density field the input spectra describe, which fixes
// the background density the halo definitions are anchored to.
type Field int

const (
	// FieldCB anchors halo masses to the cold dark matter + baryon density.
	FieldCB Field = iota
	// FieldTotal anchors halo masses to the total matter density.
	FieldTotal
)

func (f Field) String() string {
	switch f {
	case FieldCB:
		return "cb"
	case FieldTotal:
		return "tot"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

var (
	// ErrShape reports a P(k) table whose shape does not match the grid.
	ErrShape = errors.New("pk table shape does not match (len(z), len(k))")
	// ErrField reports an unknown Field value.
	ErrField = errors.New("unknown density field")
)

var log = logrus.StandardLogger()

// The fixed mass grid: 512 logarithmic points covering every halo that
// could matter, from 1 to 1e18 MSun/h.
const (
	nMass   = 512
	massMin = 1.0
	massMax = 1e18
)

// Engine holds the full set of tables derived from one linear power
// spectrum. Per-redshift slices are indexed like Z; 2D tables are indexed
// [iz][im] over (Z, Mass) or [iz][ik] over (Z, K). Treat every field as
// read-only once New has returned.
type Engine struct {
	Cosmo       *cosmo.Params
	Field       Field
	BAOSmearing bool

	Z, K  []float64
	PkLin [][]float64

	// RhoField is rho_crit(0) times Omega_cb or Omega_m, depending on Field.
	RhoField float64
	// The fixed halo mass grid and the Lagrangian radius of each mass.
	Mass, LnMass, R []float64

	PkNoWiggle  [][]float64
	PkDeWiggled [][]float64

	Sig8       []float64
	SigDisp100 []float64 // sigma_d in 100 Mpc/h spheres
	SigDisp    []float64 // sigma_d with an (effectively) vanishing window

	Sigma2 [][]float64 // mass variance over (Z, Mass)

	OmegaMZ, OmegaCbZ                 []float64
	DeltaV, DeltaC, FDamp, Eta, KStar []float64
	Neff, Alpha                       []float64

	Nu, Zf, Conc, Rv, Rs [][]float64

	Hmf [][]float64 // Sheth-Tormen dn/dM over (Z, Mass)

	Pk1H, Pk2H, PkNL [][]float64
}

// New constructs an Engine and runs the full pipeline. z and k must be
// increasing, pk must have one row of len(k) values per redshift, and all
// slices are retained by the Engine without copying: the caller must not
// modify them afterwards.
//
// Inputs that fail the convergence heuristics (fewer than 100 k points,
// max k < 10 h/Mpc, min k > 0.001 h/Mpc) are accepted with a logged
// warning: the result degrades gracefully rather than failing.
func New(
	z, k []float64, pk [][]float64,
	field Field, baoSmearing bool, c *cosmo.Params,
) (*Engine, error) {
	nz, nk := len(z), len(k)
	if nz == 0 || nk == 0 || len(pk) != nz {
		return nil, fmt.Errorf("%w: len(z) = %d, len(k) = %d, "+
			"len(pk) = %d", ErrShape, nz, nk, len(pk))
	}
	for i := range pk {
		if len(pk[i]) != nk {
			return nil, fmt.Errorf("%w: len(pk[%d]) = %d, len(k) = %d",
				ErrShape, i, len(pk[i]), nk)
		}
	}
	for i := 0; i < nk-1; i++ {
		if k[i+1] <= k[i] {
			return nil, fmt.Errorf("%w: k is not strictly increasing "+
				"at index %d", ErrShape, i)
		}
	}

	if nk < 100 || k[nk-1] < 10 || k[0] > 0.001 {
		log.WithFields(logrus.Fields{
			"nk": nk, "kMin": k[0], "kMax": k[nk-1],
		}).Warn("halofit: k grid below convergence heuristics " +
			"(want >= 100 points covering [0.001, 10] h/Mpc)")
	}

	e := &Engine{
		Cosmo:       c,
		Field:       field,
		BAOSmearing: baoSmearing,
		Z:           z,
		K:           k,
		PkLin:       pk,
	}

	switch field {
	case FieldCB:
		e.RhoField = c.RhoCrit0() * c.OmegaCb
	case FieldTotal:
		e.RhoField = c.RhoCrit0() * c.OmegaM
	default:
		return nil, fmt.Errorf("%w: %d (choose FieldCB or FieldTotal)",
			ErrField, int(field))
	}

	e.Mass = floats.LogSpan(make([]float64, nMass), massMin, massMax)
	e.LnMass = make([]float64, nMass)
	e.R = make([]float64, nMass)
	for i, m := range e.Mass {
		e.LnMass[i] = math.Log(m)
		e.R[i] = e.radiusOfMass(m)
	}

	e.compute()
	return e, nil
}

// radiusOfMass computes the Lagrangian radius in Mpc/h of a sphere of the
// given mass at the mean field density.
func (e *Engine) radiusOfMass(m float64) float64 {
	return math.Cbrt(3 * m / (4 * math.Pi * e.RhoField))
}

// compute runs the pipeline in stage order. Every stage only reads tables
// written by earlier stages.
func (e *Engine) compute() {
	nz := len(e.Z)

	e.dewiggle()

	// Stage 1: variance and displacement tables.
	e.Sig8 = make([]float64, nz)
	e.SigDisp100 = make([]float64, nz)
	e.SigDisp = make([]float64, nz)
	e.Sigma2 = make([][]float64, nz)
	for iz := range e.Z {
		kExt, lnkExt, pkExt := extendPk(e.K, e.PkLin[iz])
		e.Sig8[iz] = cosmo.Sigma8(e.K, e.PkLin[iz])
		e.Sigma2[iz] = sigma2(kExt, lnkExt, pkExt, e.R)
		e.SigDisp100[iz] = sigmaDisp(kExt, lnkExt, pkExt, 100)
		e.SigDisp[iz] = sigmaDisp(kExt, lnkExt, pkExt, 1e-3)
	}

	// Stage 2: scalar fit parameters per redshift.
	e.OmegaMZ = make([]float64, nz)
	e.OmegaCbZ = make([]float64, nz)
	e.DeltaV = make([]float64, nz)
	e.DeltaC = make([]float64, nz)
	e.FDamp = make([]float64, nz)
	e.Eta = make([]float64, nz)
	e.KStar = make([]float64, nz)
	for iz, z := range e.Z {
		e.OmegaMZ[iz] = e.Cosmo.OmegaMZ(z)
		e.OmegaCbZ[iz] = e.Cosmo.OmegaCbZ(z)
		e.DeltaV[iz] = deltaV(e.OmegaCbZ[iz], e.Cosmo.FNu)
		e.DeltaC[iz] = deltaC(e.Sig8[iz], e.OmegaCbZ[iz], e.Cosmo.FNu)
		e.FDamp[iz] = fDamp(e.SigDisp100[iz])
		e.Eta[iz] = etaBloat(e.Sig8[iz])
		e.KStar[iz] = kStar(e.SigDisp[iz])
	}

	// Stage 3: per-(z, M) halo properties.
	gi := newGrowthInverse(e.Cosmo.D1)
	e.Nu = make([][]float64, nz)
	e.Zf = make([][]float64, nz)
	e.Conc = make([][]float64, nz)
	e.Rv = make([][]float64, nz)
	e.Rs = make([][]float64, nz)
	e.Neff = make([]float64, nz)
	e.Alpha = make([]float64, nz)
	for iz, z := range e.Z {
		nu := make([]float64, nMass)
		for im := range e.Mass {
			nu[im] = e.DeltaC[iz] / math.Sqrt(e.Sigma2[iz][im])
		}
		e.Nu[iz] = nu

		e.Zf[iz] = zForm(gi, e.Mass, e.LnMass, e.Sigma2[iz],
			e.Cosmo.D1(z), e.DeltaC[iz], z)

		conc := make([]float64, nMass)
		rv := make([]float64, nMass)
		rs := make([]float64, nMass)
		for im, m := range e.Mass {
			conc[im] = concentration(e.Zf[iz][im], z)
			rv[im] = math.Cbrt(3 * m /
				(4 * math.Pi * e.RhoField * e.DeltaV[iz]))
			rs[im] = rv[im] / conc[im]
		}
		e.Conc[iz], e.Rv[iz], e.Rs[iz] = conc, rv, rs

		e.Neff[iz] = neffAt(e.LnMass, e.Sigma2[iz], e.DeltaC[iz], z)
		e.Alpha[iz] = alpha(e.Neff[iz])
	}

	// Stage 4: mass function, profiles, and the 1-halo/2-halo blend.
	// Redshifts are independent of each other; each goroutine writes only
	// its own rows and the per-(z, k) sums stay in grid order, so the
	// result does not depend on scheduling.
	e.Hmf = make([][]float64, nz)
	e.Pk1H = make([][]float64, nz)
	e.Pk2H = make([][]float64, nz)
	e.PkNL = make([][]float64, nz)
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for iz := range e.Z {
		iz := iz
		g.Go(func() error {
			e.assemble(iz)
			return nil
		})
	}
	g.Wait()
}

// dewiggle fills the no-wiggle and de-wiggled spectra. With BAO smearing
// disabled both tables alias the linear spectrum exactly.
func (e *Engine) dewiggle() {
	nz := len(e.Z)
	e.PkNoWiggle = make([][]float64, nz)
	e.PkDeWiggled = make([][]float64, nz)

	if !e.BAOSmearing {
		for iz := range e.Z {
			e.PkNoWiggle[iz] = e.PkLin[iz]
			e.PkDeWiggled[iz] = e.PkLin[iz]
		}
		return
	}

	lnk := make([]float64, len(e.K))
	for i := range e.K {
		lnk[i] = math.Log(e.K[i])
	}

	integrand := make([]float64, len(e.K))
	for iz := range e.Z {
		nw := power.RemoveBAO(e.K, e.PkLin[iz])
		e.PkNoWiggle[iz] = nw

		// One-time non-linear displacement variance per redshift.
		for i := range e.K {
			integrand[i] = e.K[i] * e.PkLin[iz][i]
		}
		sv2 := integrate.Trapezoidal(lnk, integrand) /
			(6 * math.Pi * math.Pi)

		dw := make([]float64, len(e.K))
		for i := range e.K {
			dw[i] = (e.PkLin[iz][i]-nw[i])*
				math.Exp(-e.K[i]*e.K[i]*sv2) + nw[i]
		}
		e.PkDeWiggled[iz] = dw
	}
}

// MStar computes the typical collapsing mass at the first redshift of the
// grid: the mass where the peak height crosses unity. The second return
// value is false when nu = 1 is not crossed on the mass grid (or the nu
// table is not monotone there, which only happens for pathological input
// spectra).
func (e *Engine) MStar() (float64, bool) {
	nu := e.Nu[0]
	for i := 0; i < len(nu)-1; i++ {
		if nu[i+1] <= nu[i] {
			return 0, false
		}
	}
	if nu[0] > 1 || nu[len(nu)-1] < 1 {
		return 0, false
	}
	lnM := interpolate.NewSpline(nu, e.LnMass).Eval(1)
	return math.Exp(lnM), true
}

// TotalMatter combines the engine's non-linear cb spectrum with the linear
// cb-neutrino cross spectrum and the linear neutrino auto spectrum into the
// total matter non-linear spectrum (the "CDM prescription"):
//
//	P_mm = fcb^2 P_cbcb^NL + 2 fnu fcb P_cbnu + fnu^2 P_nunu
//
// Both input tables must match the (z, k) grid. Only meaningful when the
// engine was built with FieldCB on a cb spectrum.
func (e *Engine) TotalMatter(pkCbNu, pkNuNu [][]float64) ([][]float64, error) {
	nz, nk := len(e.Z), len(e.K)
	if len(pkCbNu) != nz || len(pkNuNu) != nz {
		return nil, fmt.Errorf("%w: len(pkCbNu) = %d, len(pkNuNu) = %d, "+
			"len(z) = %d", ErrShape, len(pkCbNu), len(pkNuNu), nz)
	}

	fNu, fCb := e.Cosmo.FNu, e.Cosmo.FCb
	out := make([][]float64, nz)
	for iz := 0; iz < nz; iz++ {
		if len(pkCbNu[iz]) != nk || len(pkNuNu[iz]) != nk {
			return nil, fmt.Errorf("%w: row %d", ErrShape, iz)
		}
		row := make([]float64, nk)
		for ik := 0; ik < nk; ik++ {
			row[ik] = fCb*fCb*e.PkNL[iz][ik] +
				2*fNu*fCb*pkCbNu[iz][ik] +
				fNu*fNu*pkNuNu[iz][ik]
		}
		out[iz] = row
	}
	return out, nil
}
