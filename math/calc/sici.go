package calc

import (
	"math"
	"math/cmplx"
)

const eulerGamma = 0.5772156649015328606

// SinCosIntegral evaluates the sine integral Si(x) and the cosine integral
// Ci(x) for x > 0. For small arguments it sums the power series; above the
// crossover it evaluates the complex continued fraction for the auxiliary
// function E1(ix) with the modified Lentz algorithm. Accuracy is close to
// machine precision over the full range used by the NFW profile.
//
// Si(0) = 0 and Ci(x) diverges to -Inf as x -> 0+; SinCosIntegral(0)
// returns (0, -Inf).
func SinCosIntegral(x float64) (si, ci float64) {
	if x < 0 {
		si, ci = SinCosIntegral(-x)
		return -si, ci
	}
	if x == 0 {
		return 0, math.Inf(-1)
	}

	const crossover = 2.0
	if x <= crossover {
		return siciSeries(x)
	}
	return siciLentz(x)
}

func siciSeries(x float64) (si, ci float64) {
	// Si = sum (-1)^n x^(2n+1) / ((2n+1)(2n+1)!)
	// Ci = gamma + ln x + sum (-1)^n x^(2n) / ((2n)(2n)!)
	sumS, sumC := x, 0.0
	termS := x
	termC := 1.0
	for n := 1; n < 40; n++ {
		k := float64(2 * n)
		termC *= -x * x / ((k - 1) * k)
		sumC += termC / k
		termS *= -x * x / (k * (k + 1))
		sumS += termS / (k + 1)
		if math.Abs(termS) < 1e-17*math.Abs(sumS) &&
			math.Abs(termC) < 1e-17 {
			break
		}
	}
	return sumS, eulerGamma + math.Log(x) + sumC
}

func siciLentz(x float64) (si, ci float64) {
	const (
		eps   = 1e-16
		fpMin = 1e-300
		itMax = 200
	)

	b := complex(1, x)
	c := complex(1/fpMin, 0)
	d := 1 / b
	h := d
	for i := 2; i <= itMax; i++ {
		a := complex(-float64(i-1)*float64(i-1), 0)
		b += 2
		d = 1 / (a*d + b)
		c = b + a/c
		del := c * d
		h *= del
		if cmplx.Abs(del-1) < eps {
			break
		}
	}
	h *= complex(math.Cos(x), -math.Sin(x))

	return math.Pi/2 + imag(h), -real(h)
}
