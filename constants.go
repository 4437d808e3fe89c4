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

import "github.com/ctessum/unit"

// Constants of record (§6). These are the only physical constants the
// engine depends on; none of them is configurable.
const (
	// planckH is Planck's constant, J*s.
	planckH = 6.6260755e-34
	// boltzmannK is Boltzmann's constant, J/K.
	boltzmannK = 1.3806503e-23
	// speedOfLight is the speed of light in vacuum, m/s.
	speedOfLight = 299792458.0

	// WaterEmissivity is the water-body emissivity used to invert the
	// downwelled radiance Ld from the (T=0K, albedo=0.1) MODTRAN run (§4.E,
	// §9). It belongs to this upstream water-body inversion; the downstream
	// pixel-radiance equation uses a different, read-from-file emissivity
	// that is out of scope here.
	WaterEmissivity = 0.98988

	// WaterAlbedo is 1 - WaterEmissivity.
	WaterAlbedo = 1 - WaterEmissivity

	// EquatorialRadiusMeters is the earth equatorial radius used by the
	// haversine distance calculation (§4.F).
	EquatorialRadiusMeters = 6378137.0

	// radianceCm2ToM2 converts W*cm^-2*sr^-1*um^-1 band-integrated radiance
	// to W*m^-2*sr^-1 once the spectral integral collapses the um^-1 factor
	// (§4.F step 8).
	radianceCm2ToM2 = 1e4
)

// init asserts, once at package load, that the constants above are
// dimensionally consistent -- the same role inmap's io.go checkDim plays for
// a single configuration value, not a per-pixel check.
func init() {
	h := unit.New(planckH, unit.Dimensions{
		unit.MassDim:   1,
		unit.LengthDim: 2,
		unit.TimeDim:   -1,
	})
	if err := h.Check(unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -1}); err != nil {
		panic("atmo: Planck's constant has the wrong dimensions: " + err.Error())
	}

	r := unit.New(EquatorialRadiusMeters, unit.Dimensions{unit.LengthDim: 1})
	if err := r.Check(unit.Dimensions{unit.LengthDim: 1}); err != nil {
		panic("atmo: equatorial radius has the wrong dimensions: " + err.Error())
	}
}
