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
	"sync"

	"github.com/sirupsen/logrus"
)

// ThermalBand is the external reference-band collaborator: the scene's
// thermal radiance input, its no-data mask, and the raster geometry needed
// to walk it line by line (§1 Non-goals -- reading the Landsat XML and the
// thermal band itself are delegated; this is the minimal surface the
// pipeline needs from that collaborator).
type ThermalBand struct {
	Lines, Samples int
	Radiance       []float32 // lines*samples, row-major
	NoData         []bool    // lines*samples, true where Radiance is no-data
	ElevationM     []float64 // lines*samples, per-pixel elevation in metres

	ULEasting, ULNorthing float64
	PixelSize             float64
}

// Scene ties the grid store, MODTRAN-point store, sensor response,
// elevation profile, geolocation collaborator and output directory together
// as the single entry point the CLI drives, mirroring the role the
// teacher's top-level VarGridConfig aggregate plays.
type Scene struct {
	Grid       *Store
	MODTRAN    *MODTRANStore
	Response   *SpectralResponse
	Geo        Geolocator
	ModtranDir string
	OutDir     string

	// Workers bounds how many goroutines share the point-reducer loop and
	// the per-line pixel loop (§5). 0 or 1 runs sequentially, matching the
	// spec's single-threaded baseline; each worker owns disjoint points (for
	// the reducer) or disjoint lines with thread-local center-point state
	// (for the interpolator), so no cross-goroutine mutable state is shared.
	Workers int

	Log logrus.FieldLogger
}

// Reduce runs the point-level reducer over the scene's MODTRAN-point store,
// optionally sharded across Workers goroutines (§4.E, §5).
func (s *Scene) Reduce() error {
	const fn = "Scene.Reduce"
	reducer, err := NewReducer(s.Response, s.Log)
	if err != nil {
		return newErr(KindDomain, fn, err)
	}

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		return reducer.ReduceScene(s.MODTRAN, s.ModtranDir)
	}

	var toRun []*MODTRANPoint
	for _, p := range s.MODTRAN.Points {
		if p.RanMODTRAN {
			toRun = append(toRun, p)
		}
	}

	errs := make([]error, len(toRun))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, p := range toRun {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *MODTRANPoint) {
			defer wg.Done()
			defer func() { <-sem }()
			pointDir := pointDirFor(s.ModtranDir, p)
			for j := range p.Elevations {
				if err := reducer.reduceSlot(pointDir, &p.Elevations[j]); err != nil {
					errs[i] = fmt.Errorf("point (%d,%d) elevation %.3fkm: %w", p.Row, p.Col, p.Elevations[j].ElevationKm, err)
					return
				}
			}
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return newErr(KindDomain, fn, err)
		}
	}
	return nil
}

func pointDirFor(modtranDir string, p *MODTRANPoint) string {
	return fmt.Sprintf("%s/%d_%d_%d_%d", modtranDir, p.Row, p.Col, p.NARRRow, p.NARRCol)
}

// Interpolate walks every pixel of band, writing the four raster bands via w
// (§4.F, §6). It does not write atmospheric_parameters.txt or
// used_points.txt; WriteAtmosphericParameters and WriteUsedPoints do.
func (s *Scene) Interpolate(band *ThermalBand, w *RasterWriter) error {
	const fn = "Scene.Interpolate"

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		return s.interpolateLines(band, w, 0, band.Lines)
	}

	chunk := (band.Lines + workers - 1) / workers
	results := make([][]Params, workers)
	thermals := make([][]float32, workers)
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for wi := 0; wi < workers; wi++ {
		start := wi * chunk
		end := start + chunk
		if end > band.Lines {
			end = band.Lines
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(wi, start, end int) {
			defer wg.Done()
			ip := NewInterpolator(s.MODTRAN, band.ULEasting, band.ULNorthing, band.PixelSize)
			out := make([]Params, (end-start)*band.Samples)
			therm := make([]float32, (end-start)*band.Samples)
			for line := start; line < end; line++ {
				ip.BeginLine()
				for sample := 0; sample < band.Samples; sample++ {
					idx := line*band.Samples + sample
					local := (line-start)*band.Samples + sample
					therm[local] = band.Radiance[idx]
					if band.NoData[idx] {
						out[local] = NoDataParams
						continue
					}
					lon, lat, err := s.Geo.LineSampleToLonLat(line, sample)
					if err != nil {
						errs[wi] = newErr(KindDomain, fn, err)
						return
					}
					easting := band.ULEasting + float64(sample)*band.PixelSize
					northing := band.ULNorthing - float64(line)*band.PixelSize
					out[local] = ip.Pixel(true, lon, lat, easting, northing, band.ElevationM[idx])
				}
			}
			results[wi] = out
			thermals[wi] = therm
		}(wi, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for wi := 0; wi < workers; wi++ {
		for i, p := range results[wi] {
			if err := w.WritePixel(thermals[wi][i], p); err != nil {
				return newErr(KindIOWrite, fn, err)
			}
		}
	}
	return nil
}

// interpolateLines processes lines [start, end) sequentially, writing each
// pixel to w in scan order.
func (s *Scene) interpolateLines(band *ThermalBand, w *RasterWriter, start, end int) error {
	const fn = "Scene.interpolateLines"
	ip := NewInterpolator(s.MODTRAN, band.ULEasting, band.ULNorthing, band.PixelSize)
	for line := start; line < end; line++ {
		ip.BeginLine()
		for sample := 0; sample < band.Samples; sample++ {
			idx := line*band.Samples + sample
			therm := band.Radiance[idx]
			if band.NoData[idx] {
				if err := w.WritePixel(therm, NoDataParams); err != nil {
					return newErr(KindIOWrite, fn, err)
				}
				continue
			}
			lon, lat, err := s.Geo.LineSampleToLonLat(line, sample)
			if err != nil {
				return newErr(KindDomain, fn, err)
			}
			easting := band.ULEasting + float64(sample)*band.PixelSize
			northing := band.ULNorthing - float64(line)*band.PixelSize
			p := ip.Pixel(true, lon, lat, easting, northing, band.ElevationM[idx])
			if err := w.WritePixel(therm, p); err != nil {
				return newErr(KindIOWrite, fn, err)
			}
		}
	}
	return nil
}
