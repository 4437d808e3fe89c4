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
	"math"
	"testing"
)

// different reports whether a and b differ by more than tolerance, measured
// relative to their magnitude.
func different(a, b, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	if a == b {
		return false
	}
	return 2*math.Abs(a-b)/math.Abs(a+b) > tolerance
}

// closeAbs reports whether a and b differ by no more than tolerance in
// absolute terms, for quantities expected near zero where a relative
// comparison is meaningless.
func closeAbs(a, b, tolerance float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return math.Abs(a-b) <= tolerance
}

func TestPlanck(t *testing.T) {
	b := Planck([]float64{10}, 300)
	want := 9.9505e-7
	if !closeAbs(b[0], want, 1e-9) {
		t.Errorf("Planck(10um, 300K) = %v, want %v", b[0], want)
	}
}

func TestPlanckZeroTemp(t *testing.T) {
	b := Planck([]float64{10, 11, 12}, 0)
	for i, v := range b {
		if v != 0 {
			t.Errorf("Planck at T=0: b[%d] = %v, want 0", i, v)
		}
	}
}

func TestSplineAtKnot(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}
	spl, err := NewSpline(x, y, 1e31, 1e31)
	if err != nil {
		t.Fatalf("NewSpline: %v", err)
	}
	for i, xi := range x {
		got := spl.Eval(xi)
		if closeAbs(got, y[i], 1e-12) == false {
			t.Errorf("Eval(%v) = %v, want %v", xi, got, y[i])
		}
	}
}

func TestSplineClampsOutsideRange(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}
	spl, err := NewSpline(x, y, 1e31, 1e31)
	if err != nil {
		t.Fatalf("NewSpline: %v", err)
	}
	if got := spl.Eval(-5); got != y[0] {
		t.Errorf("Eval(-5) = %v, want %v", got, y[0])
	}
	if got := spl.Eval(100); got != y[len(y)-1] {
		t.Errorf("Eval(100) = %v, want %v", got, y[len(y)-1])
	}
}

func TestIntegrateConstant(t *testing.T) {
	x := []float64{0, 0.25, 0.5, 0.75, 1}
	f := []float64{3, 3, 3, 3, 3}
	got, err := Integrate(x, f)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if closeAbs(got, 3, 1e-9) == false {
		t.Errorf("Integrate(const 3) over [0,1] = %v, want 3", got)
	}
}

func TestIntegrateLinear(t *testing.T) {
	x := []float64{0, 0.25, 0.5, 0.75, 1}
	f := []float64{0, 0.25, 0.5, 0.75, 1}
	got, err := Integrate(x, f)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if closeAbs(got, 0.5, 1e-9) == false {
		t.Errorf("Integrate(x) over [0,1] = %v, want 0.5", got)
	}
}

func TestIntegrateQuadratic17Samples(t *testing.T) {
	n := 17
	x := make([]float64, n)
	f := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) / float64(n-1)
		f[i] = x[i] * x[i]
	}
	got, err := Integrate(x, f)
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}
	if closeAbs(got, 1.0/3.0, 1e-6) == false {
		t.Errorf("Integrate(x^2) over [0,1] = %v, want 1/3", got)
	}
}

func TestIntegrateRejectsShortInput(t *testing.T) {
	_, err := Integrate([]float64{0, 1, 2}, []float64{0, 1, 2})
	if err == nil {
		t.Fatal("Integrate with 3 points: want error, got nil")
	}
	if !IsKind(err, KindDomain) {
		t.Errorf("Integrate with 3 points: want KindDomain, got %v", err)
	}
}
