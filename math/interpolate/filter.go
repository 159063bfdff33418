package interpolate

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kernel is a 1D smoothing kernel. The de-wiggling filter runs these over
// uniformly log-spaced power spectrum samples.
type Kernel struct {
	cs     []float64
	center int
}

// NewTophatKernel creates a constant smoothing kernel of the given width.
// width must be odd.
func NewTophatKernel(width int) *Kernel {
	if width%2 != 1 {
		panic("Kernel width must be odd.")
	}

	k := &Kernel{cs: make([]float64, width), center: width / 2}
	for i := range k.cs {
		k.cs[i] = 1 / float64(width)
	}
	return k
}

// NewGaussianKernel creates a Gaussian kernel, exp(-x^2 / (2 sigma^2)),
// with the given window width and point separation dx. width must be odd.
func NewGaussianKernel(width int, sigma, dx float64) *Kernel {
	if width%2 != 1 {
		panic("Kernel width must be odd.")
	}

	k := &Kernel{cs: make([]float64, width), center: width / 2}
	sum := 0.0
	for i := range k.cs {
		x := float64(i-k.center) * dx
		k.cs[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k.cs[i]
	}
	for i := range k.cs {
		k.cs[i] /= sum
	}
	return k
}

// NewSavGolKernel creates a Savitzky-Golay smoothing kernel: convolving with
// it is equivalent to a least-squares fit of a polynomial of the given order
// inside each window, evaluated at the window center. Unlike a tophat or
// Gaussian kernel it preserves the broadband slope and curvature of the
// input, which is what the BAO de-wiggler needs.
//
// width must be odd and larger than order.
func NewSavGolKernel(order, width int) *Kernel {
	if width%2 != 1 {
		panic("Kernel width must be odd.")
	} else if width <= order {
		panic("Kernel width must be larger than the polynomial order.")
	}

	k := &Kernel{cs: make([]float64, width), center: width / 2}

	// Normal equations (A^T A) x = e0 for the design matrix A_ij = i^j,
	// i = -center..center, j = 0..order. The kernel coefficient at offset i
	// is then sum_j x_j i^j.
	ata := mat.NewDense(order+1, order+1, nil)
	for r := 0; r <= order; r++ {
		for c := 0; c <= order; c++ {
			sum := 0.0
			for i := -k.center; i <= k.center; i++ {
				sum += math.Pow(float64(i), float64(r+c))
			}
			ata.Set(r, c, sum)
		}
	}
	e0 := mat.NewVecDense(order+1, nil)
	e0.SetVec(0, 1)

	var x mat.VecDense
	if err := x.SolveVec(ata, e0); err != nil {
		panic("Savitzky-Golay normal equations are singular.")
	}

	for i := -k.center; i <= k.center; i++ {
		c, pow := 0.0, 1.0
		for j := 0; j <= order; j++ {
			c += x.AtVec(j) * pow
			pow *= float64(i)
		}
		k.cs[i+k.center] = c
	}
	return k
}

// Convolve smooths the sequence xs with the kernel. Windows that extend past
// the ends of the sequence are filled with the boundary value.
func (k *Kernel) Convolve(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}

	n := len(xs)
	for i := range xs {
		sum := 0.0
		for j, c := range k.cs {
			idx := i + j - k.center
			if idx < 0 {
				idx = 0
			} else if idx >= n {
				idx = n - 1
			}
			sum += xs[idx] * c
		}
		out[0][i] = sum
	}
	return out[0]
}
