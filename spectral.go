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
)

// SpectralResponse is a sensor's ordered, strictly monotonically increasing
// wavelength/response table (§3, §4.B).
type SpectralResponse struct {
	Wavelength []float64 // microns
	Response   []float64
}

// sensorFile maps recognized (instrument, satellite) codes to the spectral
// response file name expected under ST_DATA_DIR.
var sensorFile = map[string]string{
	"L4-TM":     "L4_Spectral_Response.txt",
	"L5-TM":     "L5_Spectral_Response.txt",
	"L7-ETM":    "L7_Spectral_Response.txt",
	"L8-OLI":    "L8_Spectral_Response.txt",
	"L8-TIRS":   "L8_Spectral_Response.txt",
	"L8-OLI/TIRS": "L8_Spectral_Response.txt",
}

// LoadSpectralResponse loads the two-column wavelength/response table for
// sensor (one of "L4-TM", "L5-TM", "L7-ETM", "L8-OLI", "L8-TIRS",
// "L8-OLI/TIRS"; the three L8 codes share one file) from dataDir,
// which is expected to be the directory named by ST_DATA_DIR (§6).
func LoadSpectralResponse(dataDir, sensor string) (*SpectralResponse, error) {
	const fn = "LoadSpectralResponse"

	name, ok := sensorFile[sensor]
	if !ok {
		return nil, newErr(KindDomain, fn, fmt.Errorf("unrecognized sensor %q", sensor))
	}

	path := filepath.Join(dataDir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening spectral response file %q: %w", path, err))
	}
	defer f.Close()

	var wl, resp []float64
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
			return nil, newErr(KindIORead, fn, fmt.Errorf("%s:%d: expected 2 columns, got %d", path, lineNum, len(fields)))
		}
		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, newErr(KindIORead, fn, fmt.Errorf("%s:%d: parsing wavelength: %w", path, lineNum, err))
		}
		r, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, newErr(KindIORead, fn, fmt.Errorf("%s:%d: parsing response: %w", path, lineNum, err))
		}
		if len(wl) > 0 && w <= wl[len(wl)-1] {
			return nil, newErr(KindDomain, fn, fmt.Errorf("%s:%d: wavelength not strictly increasing", path, lineNum))
		}
		wl = append(wl, w)
		resp = append(resp, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, newErr(KindIORead, fn, err)
	}
	if len(wl) == 0 {
		return nil, newErr(KindDomain, fn, fmt.Errorf("%s: empty spectral response", path))
	}
	return &SpectralResponse{Wavelength: wl, Response: resp}, nil
}

// Len returns the number of wavelength/response pairs.
func (s *SpectralResponse) Len() int { return len(s.Wavelength) }
