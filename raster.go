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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// readFloat32Raster fills out with little-endian float32 values read from r.
func readFloat32Raster(r io.Reader, out []float32) error {
	buf := make([]byte, 4)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf))
	}
	return nil
}

// RasterWriter streams the four derived bands (thermal radiance, τ, Lu, Ld)
// to disk as flat binary float32 rasters registered to the reference band
// (§4, component G; §6).
type RasterWriter struct {
	lines, samples int

	thermal *bufio.Writer
	tau     *bufio.Writer
	lu      *bufio.Writer
	ld      *bufio.Writer

	thermalF, tauF, luF, ldF *os.File
}

// NewRasterWriter creates the four output files under dir, sized for a
// lines x samples scene.
func NewRasterWriter(dir string, lines, samples int) (*RasterWriter, error) {
	const fn = "NewRasterWriter"

	open := func(name string) (*os.File, *bufio.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, newErr(KindIOWrite, fn, fmt.Errorf("creating %q: %w", name, err))
		}
		return f, bufio.NewWriter(f), nil
	}

	thermalF, thermal, err := open("thermal_radiance.img")
	if err != nil {
		return nil, err
	}
	tauF, tau, err := open("transmittance.img")
	if err != nil {
		return nil, err
	}
	luF, lu, err := open("upwelled_radiance.img")
	if err != nil {
		return nil, err
	}
	ldF, ld, err := open("downwelled_radiance.img")
	if err != nil {
		return nil, err
	}

	return &RasterWriter{
		lines: lines, samples: samples,
		thermal: thermal, tau: tau, lu: lu, ld: ld,
		thermalF: thermalF, tauF: tauF, luF: luF, ldF: ldF,
	}, nil
}

// WritePixel appends one pixel's four band values, in raster scan order.
// The caller is responsible for propagating the no-data sentinel into
// thermal when the input thermal pixel was itself no-data (§3 -- "pixels
// with no-data in the input thermal band receive a sentinel no-data value
// in all three derived bands").
func (w *RasterWriter) WritePixel(thermal float32, p Params) error {
	const fn = "WritePixel"
	if err := writeFloat32(w.thermal, thermal); err != nil {
		return newErr(KindIOWrite, fn, err)
	}
	if err := writeFloat32(w.tau, float32(p.Transmission)); err != nil {
		return newErr(KindIOWrite, fn, err)
	}
	if err := writeFloat32(w.lu, float32(p.UpwelledRadiance)); err != nil {
		return newErr(KindIOWrite, fn, err)
	}
	if err := writeFloat32(w.ld, float32(p.DownwelledRadiance)); err != nil {
		return newErr(KindIOWrite, fn, err)
	}
	return nil
}

func writeFloat32(w *bufio.Writer, v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	_, err := w.Write(buf[:])
	return err
}

// Close flushes and closes all four output files.
func (w *RasterWriter) Close() error {
	const fn = "Close"
	for _, bw := range []*bufio.Writer{w.thermal, w.tau, w.lu, w.ld} {
		if err := bw.Flush(); err != nil {
			return newErr(KindIOWrite, fn, err)
		}
	}
	for _, f := range []*os.File{w.thermalF, w.tauF, w.luF, w.ldF} {
		if err := f.Close(); err != nil {
			return newErr(KindIOWrite, fn, err)
		}
	}
	return nil
}

// WriteAtmosphericParameters writes atmospheric_parameters.txt: one CSV row
// per (point, elevation) that ran MODTRAN, lat,lon,elevation_km,τ,Lu,Ld with
// 12-digit-precision numeric fields (§6).
func WriteAtmosphericParameters(path string, store *MODTRANStore) error {
	const fn = "WriteAtmosphericParameters"
	f, err := os.Create(path)
	if err != nil {
		return newErr(KindIOWrite, fn, fmt.Errorf("creating %q: %w", path, err))
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range store.Points {
		if !p.RanMODTRAN {
			continue
		}
		for _, e := range p.Elevations {
			_, err := fmt.Fprintf(w, "%.12f,%.12f,%.12f,%.12f,%.12f,%.12f\n",
				p.Lat, p.Lon, e.ElevationKm, e.Transmission, e.UpwelledRadiance, e.DownwelledRadiance)
			if err != nil {
				return newErr(KindIOWrite, fn, err)
			}
		}
	}
	return newErr(KindIOWrite, fn, w.Flush())
}

// WriteUsedPoints writes used_points.txt: pipe-and-quote-delimited
// "index"|"map_x"|"map_y" rows for every point that ran MODTRAN (§6).
func WriteUsedPoints(path string, store *MODTRANStore) error {
	const fn = "WriteUsedPoints"
	f, err := os.Create(path)
	if err != nil {
		return newErr(KindIOWrite, fn, fmt.Errorf("creating %q: %w", path, err))
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range store.Points {
		if !p.RanMODTRAN {
			continue
		}
		_, err := fmt.Fprintf(w, "%q|%q|%q\n",
			fmt.Sprintf("%d", p.Index), fmt.Sprintf("%.12f", p.Map.X), fmt.Sprintf("%.12f", p.Map.Y))
		if err != nil {
			return newErr(KindIOWrite, fn, err)
		}
	}
	return newErr(KindIOWrite, fn, w.Flush())
}
