/*
Copyright © 2024 the ESPA Atmospheric Parameters authors.
This file is part of espa-atmospheric-parameters.

espa-atmospheric-parameters is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

espa-atmospheric-parameters is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with espa-atmospheric-parameters.  If not, see <http://www.gnu.org/licenses/>.
*/

package atmo

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Planck computes the blackbody spectral radiance at each wavelength in
// wavelengthsUm (microns) and temperature tempK (Kelvin), in units of
// W*cm^-2*sr^-1*um^-1 (§4.A).
//
// For tempK <= 0 the function short-circuits to an all-zero result -- a
// well-defined sentinel the reducer treats as "no radiance" rather than
// evaluating exp(+Inf).
func Planck(wavelengthsUm []float64, tempK float64) []float64 {
	out := make([]float64, len(wavelengthsUm))
	if tempK <= 0 {
		return out
	}
	for i, lambdaUm := range wavelengthsUm {
		lambdaM := lambdaUm * 1e-6
		num := 2 * planckH * speedOfLight * speedOfLight * 1e-6
		denom := math.Pow(lambdaM, 5) * (math.Exp(planckH*speedOfLight/(lambdaM*boltzmannK*tempK)) - 1)
		// num/denom is in W*m^-2*sr^-1*um^-1; convert to W*cm^-2*sr^-1*um^-1.
		out[i] = (num / denom) * 1e-4
	}
	return out
}

// Spline is a natural cubic spline built from strictly increasing x values
// (§4.A, §9 -- the evaluator carries no state between calls; the last
// bracketing interval found by Eval is not remembered).
type Spline struct {
	x, y   []float64
	y2     []float64 // second derivatives
}

// NewSpline builds the second-derivative table for a natural (or
// clamped-boundary) cubic spline through (x, y). yp1 and ypn give the first
// derivative at the two endpoints; a magnitude greater than 1e30 requests
// the natural boundary condition (zero second derivative) at that end.
//
// x must be strictly increasing and len(x) == len(y) >= 2.
func NewSpline(x, y []float64, yp1, ypn float64) (*Spline, error) {
	n := len(x)
	if n != len(y) {
		return nil, newErr(KindDomain, "NewSpline", fmt.Errorf("len(x)=%d != len(y)=%d", n, len(y)))
	}
	if n < 2 {
		return nil, newErr(KindDomain, "NewSpline", fmt.Errorf("need at least 2 points, got %d", n))
	}
	for i := 1; i < n; i++ {
		if x[i] <= x[i-1] {
			return nil, newErr(KindDomain, "NewSpline", fmt.Errorf("x is not strictly increasing at index %d", i))
		}
	}

	y2 := make([]float64, n)
	u := make([]float64, n)

	if math.Abs(yp1) > 1e30 {
		y2[0] = 0
		u[0] = 0
	} else {
		y2[0] = -0.5
		u[0] = (3 / (x[1] - x[0])) * ((y[1]-y[0])/(x[1]-x[0]) - yp1)
	}

	for i := 1; i < n-1; i++ {
		sig := (x[i] - x[i-1]) / (x[i+1] - x[i-1])
		p := sig*y2[i-1] + 2
		y2[i] = (sig - 1) / p
		u[i] = (y[i+1]-y[i])/(x[i+1]-x[i]) - (y[i]-y[i-1])/(x[i]-x[i-1])
		u[i] = (6*u[i]/(x[i+1]-x[i-1]) - sig*u[i-1]) / p
	}

	var qn, un float64
	if math.Abs(ypn) > 1e30 {
		qn, un = 0, 0
	} else {
		qn = 0.5
		un = (3 / (x[n-1] - x[n-2])) * (ypn - (y[n-1]-y[n-2])/(x[n-1]-x[n-2]))
	}
	y2[n-1] = (un - qn*u[n-2]) / (qn*y2[n-2] + 1)

	for k := n - 2; k >= 0; k-- {
		y2[k] = y2[k]*y2[k+1] + u[k]
	}

	return &Spline{x: append([]float64(nil), x...), y: append([]float64(nil), y...), y2: y2}, nil
}

// Eval evaluates the spline at xq. Values outside [x[0], x[n-1]] are
// clamped to the nearest endpoint value rather than extrapolated (§4.A).
func (s *Spline) Eval(xq float64) float64 {
	n := len(s.x)
	if xq <= s.x[0] {
		return s.y[0]
	}
	if xq >= s.x[n-1] {
		return s.y[n-1]
	}

	// klo is the index such that x[klo] <= xq < x[klo+1].
	klo := sort.SearchFloat64s(s.x, xq)
	if klo > 0 && (klo == n || s.x[klo] != xq) {
		klo--
	}
	khi := klo + 1

	h := s.x[khi] - s.x[klo]
	if h == 0 {
		return 0
	}
	a := (s.x[khi] - xq) / h
	b := (xq - s.x[klo]) / h
	return a*s.y[klo] + b*s.y[khi] +
		((a*a*a-a)*s.y2[klo]+(b*b*b-b)*s.y2[khi])*(h*h)/6
}

// Integrate performs tabulated integration of f(x) over [x[0], x[n-1]]
// using a five-point (Boole's rule) Newton-Cotes scheme applied to a
// resampled, spline-smoothed version of f (§4.A).
//
// The segment count is rounded up to the next multiple of 4 (each Boole
// block spans 4 segments / 5 samples). Integrate needs at least 5 input
// points.
func Integrate(x, f []float64) (float64, error) {
	n := len(x)
	if n != len(f) {
		return 0, newErr(KindDomain, "Integrate", fmt.Errorf("len(x)=%d != len(f)=%d", n, len(f)))
	}
	if n < 5 {
		return 0, newErr(KindDomain, "Integrate", fmt.Errorf("need at least 5 points, got %d", n))
	}

	spl, err := NewSpline(x, f, 1e31, 1e31)
	if err != nil {
		return 0, newErr(KindResourceExhausted, "Integrate", err)
	}

	segments := n - 1
	if rem := segments % 4; rem != 0 {
		segments += 4 - rem
	}

	h := (x[n-1] - x[0]) / float64(segments)
	z := make([]float64, segments+1)
	for j := range z {
		xj := x[0] + float64(j)*h
		z[j] = spl.Eval(xj)
	}

	var total float64
	for k := 0; k+4 <= segments; k += 4 {
		total += 14*(z[k]+z[k+4]) + 64*(z[k+1]+z[k+3]) + 24*z[k+2]
	}
	return total * h / 45, nil
}

// sum is a thin wrapper over gonum's vector sum, used by the interpolator
// to total the inverse-distance weights.
func sum(v []float64) float64 {
	return floats.Sum(v)
}
