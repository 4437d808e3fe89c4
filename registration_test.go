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
	"os"
	"path/filepath"
	"testing"
)

const sampleXML = `<scene>
  <sensor>L8-OLI/TIRS</sensor>
  <thermal_band>
    <lines>10</lines>
    <samples>10</samples>
    <file>thermal.img</file>
    <fill_value>-9999</fill_value>
  </thermal_band>
  <projection>
    <ul_x>500000</ul_x>
    <ul_y>4400000</ul_y>
    <pixel_size>30</pixel_size>
  </projection>
  <corner>
    <ul_lon>-97.0</ul_lon>
    <ul_lat>40.0</ul_lat>
    <lr_lon>-96.5</lr_lon>
    <lr_lat>39.5</lr_lat>
  </corner>
</scene>`

func TestReadSceneRegistration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.xml")
	if err := os.WriteFile(path, []byte(sampleXML), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	reg, err := ReadSceneRegistration(path)
	if err != nil {
		t.Fatalf("ReadSceneRegistration: %v", err)
	}
	if reg.Sensor != "L8-OLI/TIRS" {
		t.Errorf("Sensor = %q, want L8-OLI/TIRS", reg.Sensor)
	}
	if reg.Lines != 10 || reg.Samples != 10 {
		t.Errorf("dimensions = (%d,%d), want (10,10)", reg.Lines, reg.Samples)
	}
	if reg.PixelSize != 30 {
		t.Errorf("PixelSize = %v, want 30", reg.PixelSize)
	}
}

func TestLineSampleToLonLatCorners(t *testing.T) {
	reg := &SceneRegistration{Lines: 11, Samples: 11, ULLon: -97, ULLat: 40, LRLon: -96, LRLat: 39}
	lon, lat, err := reg.LineSampleToLonLat(0, 0)
	if err != nil {
		t.Fatalf("LineSampleToLonLat: %v", err)
	}
	if lon != -97 || lat != 40 {
		t.Errorf("UL corner = (%v,%v), want (-97,40)", lon, lat)
	}

	lon, lat, err = reg.LineSampleToLonLat(10, 10)
	if err != nil {
		t.Fatalf("LineSampleToLonLat: %v", err)
	}
	if lon != -96 || lat != 39 {
		t.Errorf("LR corner = (%v,%v), want (-96,39)", lon, lat)
	}
}

func TestLineSampleToLonLatDegenerate(t *testing.T) {
	reg := &SceneRegistration{Lines: 1, Samples: 1}
	_, _, err := reg.LineSampleToLonLat(0, 0)
	if err == nil {
		t.Fatal("want error for degenerate scene dimensions, got nil")
	}
}
