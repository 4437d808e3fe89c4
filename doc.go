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

// Package atmo computes per-pixel atmospheric radiative-transfer parameters
// (transmittance, upwelled radiance, downwelled radiance) for a Landsat
// thermal scene by reducing MODTRAN radiative-transfer runs tabulated on a
// sparse NARR grid and interpolating the result to every valid thermal
// pixel.
//
// The package fuses three inputs: a structured lat/lon mesh of grid points
// (Store), MODTRAN spectral radiance output reduced per (point, elevation)
// into (τ, Lu, Ld) triples (Reducer), and per-pixel geolocation/elevation
// streams (Interpolator). Driving MODTRAN, reading Landsat metadata,
// computing surface temperature, and map projection math are all out of
// scope and are represented here only as collaborator interfaces.
package atmo

// Version is the version of this module.
const Version = "1.0.0"
