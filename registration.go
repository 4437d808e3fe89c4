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
	"encoding/xml"
	"fmt"
	"os"
)

// SceneRegistration is the thin boundary to the Landsat XML metadata and
// geolocation collaborators (§1 Non-goals -- reading Landsat XML, surface
// temperature and map projections are explicitly out of scope; this type
// carries only the handful of registration fields component F needs and
// satisfies Geolocator with the flat-earth approximation a real
// geolocation collaborator would replace).
type SceneRegistration struct {
	XMLName xml.Name `xml:"scene"`

	Sensor string `xml:"sensor"`

	Lines      int     `xml:"thermal_band>lines"`
	Samples    int     `xml:"thermal_band>samples"`
	ULEasting  float64 `xml:"projection>ul_x"`
	ULNorthing float64 `xml:"projection>ul_y"`
	PixelSize  float64 `xml:"projection>pixel_size"`

	ULLon float64 `xml:"corner>ul_lon"`
	ULLat float64 `xml:"corner>ul_lat"`
	LRLon float64 `xml:"corner>lr_lon"`
	LRLat float64 `xml:"corner>lr_lat"`

	RadianceFile string `xml:"thermal_band>file"`
	FillValue    string `xml:"thermal_band>fill_value"`
}

// ReadSceneRegistration reads the scene XML metadata file, delegating the
// full product-metadata schema to the real collaborator; only the fields
// the core pipeline needs are decoded here (§6).
func ReadSceneRegistration(path string) (*SceneRegistration, error) {
	const fn = "ReadSceneRegistration"
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening %q: %w", path, err))
	}
	defer f.Close()

	var reg SceneRegistration
	if err := xml.NewDecoder(f).Decode(&reg); err != nil {
		return nil, newErr(KindIORead, fn, fmt.Errorf("decoding %q: %w", path, err))
	}
	return &reg, nil
}

// LineSampleToLonLat implements Geolocator with a bilinear approximation
// across the scene's four corners. A production geolocation collaborator
// would consult the scene's actual map projection (§1 Non-goals); this
// stands in for it at the CLI boundary only.
func (r *SceneRegistration) LineSampleToLonLat(line, sample int) (lon, lat float64, err error) {
	if r.Lines <= 1 || r.Samples <= 1 {
		return 0, 0, newErr(KindDomain, "LineSampleToLonLat", fmt.Errorf("degenerate scene dimensions %dx%d", r.Lines, r.Samples))
	}
	fy := float64(line) / float64(r.Lines-1)
	fx := float64(sample) / float64(r.Samples-1)
	lon = r.ULLon + fx*(r.LRLon-r.ULLon)
	lat = r.ULLat + fy*(r.LRLat-r.ULLat)
	return lon, lat, nil
}

// ThermalBand reads the scene's thermal radiance band from the file named in
// the scene XML and marks as no-data every pixel whose value, formatted with
// %g, equals FillValue (§1 Non-goals -- the actual band decoder belongs to
// the Landsat-product collaborator; this reads the flat binary float32
// layout the core pipeline expects from it). No elevation data is read:
// ElevationM is returned all zero.
func (r *SceneRegistration) ThermalBand() (*ThermalBand, error) {
	const fn = "ThermalBand"
	f, err := os.Open(r.RadianceFile)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening %q: %w", r.RadianceFile, err))
	}
	defer f.Close()

	n := r.Lines * r.Samples
	radiance := make([]float32, n)
	nodata := make([]bool, n)
	elevation := make([]float64, n)

	if err := readFloat32Raster(f, radiance); err != nil {
		return nil, newErr(KindIORead, fn, fmt.Errorf("reading %q: %w", r.RadianceFile, err))
	}
	for i, v := range radiance {
		if fmt.Sprintf("%g", v) == r.FillValue {
			nodata[i] = true
		}
	}

	return &ThermalBand{
		Lines:      r.Lines,
		Samples:    r.Samples,
		Radiance:   radiance,
		NoData:     nodata,
		ElevationM: elevation,
		ULEasting:  r.ULEasting,
		ULNorthing: r.ULNorthing,
		PixelSize:  r.PixelSize,
	}, nil
}
