package cosmo

const (
	// GMks is Newton's constant in Mpc (km/s)^2 / MSun.
	GMks = 4.30091e-9
	// TCMBDefault is the CMB temperature today in K.
	TCMBDefault = 2.7255
)
