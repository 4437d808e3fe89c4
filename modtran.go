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
	"math"
	"os"
	"strconv"
	"strings"
)

// ElevationSlot holds the reduced radiative-transfer triple for one
// (point, elevation) pair (§3).
type ElevationSlot struct {
	ElevationKm        float64
	ElevationDirectory string // numeric tag identifying the MODTRAN output subdirectory

	Transmission      float64 // τ
	UpwelledRadiance  float64 // Lu
	DownwelledRadiance float64 // Ld
}

// Valid reports whether the slot's radiative-transfer fields satisfy the
// post-reducer invariant (§8): finite, τ in (0, 1.5], Lu and Ld >= 0.
func (e *ElevationSlot) Valid() bool {
	if math.IsNaN(e.Transmission) || math.IsInf(e.Transmission, 0) {
		return false
	}
	if math.IsNaN(e.UpwelledRadiance) || math.IsInf(e.UpwelledRadiance, 0) {
		return false
	}
	if math.IsNaN(e.DownwelledRadiance) || math.IsInf(e.DownwelledRadiance, 0) {
		return false
	}
	if e.Transmission <= 0 || e.Transmission > 1.5 {
		return false
	}
	if e.UpwelledRadiance < 0 || e.DownwelledRadiance < 0 {
		return false
	}
	return true
}

// MODTRANPoint mirrors a GridPoint and owns its own sequence of elevation
// slots (§3). Count is identical across all points in a Scene -- it is set
// from the scene's configured elevation profile (max 8-16 entries), not
// discovered per point.
type MODTRANPoint struct {
	*GridPoint
	RanMODTRAN bool
	Elevations []ElevationSlot

	// GroundElevationM is the point's surveyed surface elevation from
	// grid_elevations.txt, distinct from the synthetic profile elevations
	// in Elevations (§3). Zero until ApplyGridElevations runs.
	GroundElevationM float64
}

// MODTRANStore mirrors a Store 1:1 (§3). It is allocated once from the grid
// Store and owns all of its points' elevation slot arrays.
type MODTRANStore struct {
	Rows, Cols int
	Points     []*MODTRANPoint
}

// NewMODTRANStore allocates a MODTRANStore mirroring grid, with count
// elevation slots per point (pre-filled with ElevationKm from elevationsKm,
// in order).
func NewMODTRANStore(grid *Store, elevationsKm []float64) *MODTRANStore {
	count := len(elevationsKm)
	points := make([]*MODTRANPoint, len(grid.Points))
	for i, gp := range grid.Points {
		mp := &MODTRANPoint{
			GridPoint:  gp,
			RanMODTRAN: gp.RunMODTRAN,
			Elevations: make([]ElevationSlot, count),
		}
		for j, km := range elevationsKm {
			mp.Elevations[j].ElevationKm = km
		}
		points[i] = mp
	}
	return &MODTRANStore{Rows: grid.Rows, Cols: grid.Cols, Points: points}
}

// ApplyGridElevations reads grid_elevations.txt from path and assigns each
// entry's ground elevation and directory tag to the corresponding
// run-MODTRAN point, matched in store order (§6): entries are produced by
// the same process, in the same order, that set RunMODTRAN on the grid, so
// the i'th entry belongs to the i'th point with RanMODTRAN true. The tag is
// copied onto every one of that point's elevation slots, since the file
// carries one tag per point, not per slot.
func (s *MODTRANStore) ApplyGridElevations(path string) error {
	const fn = "ApplyGridElevations"
	entries, err := ReadGridElevations(path)
	if err != nil {
		return err
	}

	var runPoints []*MODTRANPoint
	for _, p := range s.Points {
		if p.RanMODTRAN {
			runPoints = append(runPoints, p)
		}
	}
	if len(entries) != len(runPoints) {
		return newErr(KindDomain, fn, fmt.Errorf("%s: %d entries, but %d points ran MODTRAN", path, len(entries), len(runPoints)))
	}

	for i, e := range entries {
		p := runPoints[i]
		p.GroundElevationM = e.ElevationM
		for j := range p.Elevations {
			p.Elevations[j].ElevationDirectory = e.DirTag
		}
	}
	return nil
}

// At returns the point at mesh position (row, col), or nil if out of
// bounds.
func (s *MODTRANStore) At(row, col int) *MODTRANPoint {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return nil
	}
	return s.Points[row*s.Cols+col]
}

// ReadModtranElevations reads modtran_elevations.txt: a count on the first
// line followed by one elevation (km) per line (§6).
func ReadModtranElevations(path string) ([]float64, error) {
	const fn = "ReadModtranElevations"
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening %q: %w", path, err))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, newErr(KindIORead, fn, fmt.Errorf("%q: missing count line", path))
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, newErr(KindIORead, fn, fmt.Errorf("%q: parsing count: %w", path, err))
	}

	out := make([]float64, 0, count)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, newErr(KindIORead, fn, fmt.Errorf("%q: parsing elevation: %w", path, err))
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, newErr(KindIORead, fn, err)
	}
	if len(out) != count {
		return nil, newErr(KindDomain, fn, fmt.Errorf("%q: header says %d elevations, found %d", path, count, len(out)))
	}
	return out, nil
}

// gridElevation is one line of grid_elevations.txt: the elevation (m) and
// directory tag for a point that ran MODTRAN.
type gridElevation struct {
	ElevationM float64
	DirTag     string
}

// ReadGridElevations reads grid_elevations.txt: one line per point that ran
// MODTRAN, "elevation_m elevation_dir_tag" (§6). Lines are returned in file
// order; callers associate them with points by the order MODTRAN was run,
// which matches the order run-MODTRAN points appear in the grid store.
func ReadGridElevations(path string) ([]gridElevation, error) {
	const fn = "ReadGridElevations"
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening %q: %w", path, err))
	}
	defer f.Close()

	var out []gridElevation
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
			return nil, newErr(KindIORead, fn, fmt.Errorf("%s:%d: expected 2 fields, got %d", path, lineNum, len(fields)))
		}
		elev, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, newErr(KindIORead, fn, fmt.Errorf("%s:%d: parsing elevation: %w", path, lineNum, err))
		}
		out = append(out, gridElevation{ElevationM: elev, DirTag: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, newErr(KindIORead, fn, err)
	}
	return out, nil
}
