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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// modtranRun identifies one of the three fixed MODTRAN runs a reducer pass
// reads per elevation (§3, §4.E).
type modtranRun struct {
	tempK   int
	albedo  float64
	column  int // 1, 2, or 3 in the N x 4 matrix
}

var modtranRuns = [3]modtranRun{
	{tempK: 273, albedo: 0.0, column: 1},
	{tempK: 310, albedo: 0.0, column: 2},
	{tempK: 0, albedo: 0.1, column: 3},
}

// Reducer holds the inputs shared across every (point, elevation) reduction:
// the scene's sensor response and the band-integrated Lt(273) and Lt(310).
// It keeps no working buffer between elevations: readRuns allocates new
// wavelength and radiance slices for every elevation it reads.
type Reducer struct {
	Response *SpectralResponse
	Log      logrus.FieldLogger

	lt273 float64
	lt310 float64
	ready bool

	// wavelength and radiance are not read or written by any method;
	// readRuns returns freshly allocated slices instead.
	wavelength []float64
	radiance   [3][]float64
}

// NewReducer builds a Reducer for response. Lt(273) and Lt(310) are computed
// once here since they depend only on the sensor response, not on any point
// or elevation (§4.E step 3).
func NewReducer(response *SpectralResponse, log logrus.FieldLogger) (*Reducer, error) {
	const fn = "NewReducer"
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Reducer{Response: response, Log: log}

	b273 := Planck(response.Wavelength, 273)
	b310 := Planck(response.Wavelength, 310)

	lt273, err := bandIntegrate(response, b273)
	if err != nil {
		return nil, newErr(KindResourceExhausted, fn, err)
	}
	lt310, err := bandIntegrate(response, b310)
	if err != nil {
		return nil, newErr(KindResourceExhausted, fn, err)
	}
	r.lt273 = lt273
	r.lt310 = lt310
	r.ready = true
	return r, nil
}

// bandIntegrate computes integral(f*R dλ) / integral(R dλ) over the
// response's wavelength grid (§4.E step 3/4).
func bandIntegrate(response *SpectralResponse, f []float64) (float64, error) {
	n := len(f)
	num := make([]float64, n)
	for i := range f {
		num[i] = f[i] * response.Response[i]
	}
	numInt, err := Integrate(response.Wavelength, num)
	if err != nil {
		return 0, err
	}
	denInt, err := Integrate(response.Wavelength, response.Response)
	if err != nil {
		return 0, err
	}
	if denInt == 0 {
		return 0, fmt.Errorf("response integral is zero")
	}
	return numInt / denInt, nil
}

// ReduceScene runs the reducer over every point marked RunMODTRAN in store,
// reading MODTRAN output from modtranDir (§4.E, §5). The first elevation-slot
// failure aborts the scene with an error; the failing slot is left untouched,
// while slots reduced before it (on this point or earlier points) keep their
// new values (§7).
func (r *Reducer) ReduceScene(store *MODTRANStore, modtranDir string) error {
	const fn = "ReduceScene"
	for _, p := range store.Points {
		if !p.RanMODTRAN {
			continue
		}
		pointDir := filepath.Join(modtranDir, fmt.Sprintf("%d_%d_%d_%d", p.Row, p.Col, p.NARRRow, p.NARRCol))
		for i := range p.Elevations {
			if err := r.reduceSlot(pointDir, &p.Elevations[i]); err != nil {
				return newErr(KindDomain, fn, fmt.Errorf("point (%d,%d) elevation %.3fkm: %w", p.Row, p.Col, p.Elevations[i].ElevationKm, err))
			}
		}
		r.Log.WithFields(logrus.Fields{"row": p.Row, "col": p.Col}).Debug("reduced point")
	}
	return nil
}

// reduceSlot performs the full §4.E reduction for one elevation slot,
// writing τ, Lu, Ld into it on success and leaving it untouched on failure.
func (r *Reducer) reduceSlot(pointDir string, slot *ElevationSlot) error {
	const fn = "reduceSlot"
	elevDir := filepath.Join(pointDir, fmt.Sprintf("%.3f", slot.ElevationKm))

	zeroTemp, wavelength, radiance, err := r.readRuns(elevDir)
	if err != nil {
		return newErr(KindIORead, fn, err)
	}

	ltZero, err := bandIntegrate(r.Response, Planck(r.Response.Wavelength, zeroTemp))
	if err != nil {
		return newErr(KindResourceExhausted, fn, err)
	}

	var lobs [3]float64
	for k := 0; k < 3; k++ {
		onGrid := interpOntoResponseGrid(wavelength, radiance[k], r.Response.Wavelength)
		conv := make([]float64, len(onGrid))
		for i := range onGrid {
			conv[i] = onGrid[i] * r.Response.Response[i]
		}
		num, err := Integrate(r.Response.Wavelength, conv)
		if err != nil {
			return newErr(KindResourceExhausted, fn, err)
		}
		den, err := Integrate(r.Response.Wavelength, r.Response.Response)
		if err != nil {
			return newErr(KindResourceExhausted, fn, err)
		}
		if den == 0 {
			return newErr(KindDomain, fn, fmt.Errorf("response integral is zero"))
		}
		lobs[k] = num / den
	}

	delta := r.lt310 - r.lt273
	if delta == 0 {
		return newErr(KindDomain, fn, fmt.Errorf("Lt(310) == Lt(273), singular system"))
	}
	tau := (lobs[1] - lobs[0]) / delta
	lu := (r.lt310*lobs[0] - r.lt273*lobs[1]) / delta
	if tau == 0 {
		return newErr(KindDomain, fn, fmt.Errorf("recovered transmission is zero"))
	}

	ld := ((lobs[2]-lu)/tau - ltZero*WaterEmissivity) / WaterAlbedo

	slot.Transmission = tau
	slot.UpwelledRadiance = lu
	slot.DownwelledRadiance = ld
	return nil
}

// readRuns reads the (T=0K, albedo=0.1) header for ground temperature and
// sample count, then the three MODTRAN data files for this elevation (§4.E
// steps 1-2, §5 directory layout).
func (r *Reducer) readRuns(elevDir string) (zeroTemp float64, wavelength []float64, radiance [3][]float64, err error) {
	zeroDir := filepath.Join(elevDir, "000", "0.1")
	hdrPath := filepath.Join(zeroDir, "st_modtran.hdr")
	zeroTemp, n, err := readMODTRANHeader(hdrPath)
	if err != nil {
		return 0, nil, radiance, fmt.Errorf("reading header %q: %w", hdrPath, err)
	}

	for k, run := range modtranRuns {
		dir := filepath.Join(elevDir, fmt.Sprintf("%03d", run.tempK), fmt.Sprintf("%.1f", run.albedo))
		dataPath := filepath.Join(dir, "st_modtran.data")
		wl, rad, err := readMODTRANData(dataPath, n)
		if err != nil {
			return 0, nil, radiance, fmt.Errorf("reading data %q: %w", dataPath, err)
		}
		// MODTRAN's documented convention is wavelength decreasing by row
		// (§9); verify rather than assume, normalizing to ascending order
		// for the response-grid interpolation below.
		if monotoneDecreasing(wl) {
			reverseFloats(wl)
			reverseFloats(rad)
		}
		if k == 0 {
			wavelength = wl
		}
		radiance[k] = rad
	}
	return zeroTemp, wavelength, radiance, nil
}

// readMODTRANHeader parses the ground-surface temperature and radiance
// record count from a st_modtran.hdr file (§4.E step 1).
func readMODTRANHeader(path string) (zeroTemp float64, n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var vals []float64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing header line %q: %w", line, err)
		}
		vals = append(vals, v)
		if len(vals) == 2 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("expected 2 header lines (temp, count), got %d", len(vals))
	}
	return vals[0], int(vals[1]), nil
}

// readMODTRANData reads an N x 4 whitespace-separated table: wavelength plus
// one radiance column (§3, §4.E step 2).
func readMODTRANData(path string, n int) (wavelength, radiance []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	wavelength = make([]float64, 0, n)
	radiance = make([]float64, 0, n)
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("%s:%d: expected at least 2 columns, got %d", path, lineNum, len(fields))
		}
		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: parsing wavelength: %w", path, lineNum, err)
		}
		rad, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: parsing radiance: %w", path, lineNum, err)
		}
		wavelength = append(wavelength, w)
		radiance = append(radiance, rad)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	if len(wavelength) != n {
		return nil, nil, fmt.Errorf("%s: header says %d records, found %d", path, n, len(wavelength))
	}
	return wavelength, radiance, nil
}

// monotoneDecreasing reports whether v is non-increasing, the MODTRAN file
// convention the reducer verifies rather than assumes (§9).
func monotoneDecreasing(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] > v[i-1] {
			return false
		}
	}
	return true
}

func reverseFloats(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

// interpOntoResponseGrid piecewise-linearly interpolates a MODTRAN column
// (wl, val), assumed strictly increasing after reduceSlot's reversal step,
// onto target (the sensor response wavelength grid). Targets left of range
// extrapolate using the first two samples; right of range, the last two
// (§4.E edge cases).
func interpOntoResponseGrid(wl, val, target []float64) []float64 {
	n := len(wl)
	out := make([]float64, len(target))
	for i, t := range target {
		out[i] = linterp(wl, val, n, t)
	}
	return out
}

func linterp(wl, val []float64, n int, t float64) float64 {
	var lo int
	switch {
	case t <= wl[0]:
		lo = 0
	case t >= wl[n-1]:
		lo = n - 2
	default:
		lo = 0
		for i := 0; i < n-1; i++ {
			if wl[i] <= t && t <= wl[i+1] {
				lo = i
				break
			}
		}
	}
	hi := lo + 1
	span := wl[hi] - wl[lo]
	if span == 0 {
		return val[lo]
	}
	frac := (t - wl[lo]) / span
	return val[lo] + frac*(val[hi]-val[lo])
}
