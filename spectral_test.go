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

func TestLoadSpectralResponse(t *testing.T) {
	dir := t.TempDir()
	content := "9.0 0.1\n10.0 0.8\n11.0 0.5\n"
	if err := os.WriteFile(filepath.Join(dir, "L5_Spectral_Response.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sr, err := LoadSpectralResponse(dir, "L5-TM")
	if err != nil {
		t.Fatalf("LoadSpectralResponse: %v", err)
	}
	if sr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", sr.Len())
	}
	if sr.Wavelength[1] != 10.0 || sr.Response[1] != 0.8 {
		t.Errorf("row 1 = (%v, %v), want (10, 0.8)", sr.Wavelength[1], sr.Response[1])
	}
}

func TestLoadSpectralResponseUnknownSensor(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSpectralResponse(dir, "L9-???")
	if err == nil {
		t.Fatal("want error for unknown sensor, got nil")
	}
	if !IsKind(err, KindDomain) {
		t.Errorf("want KindDomain, got %v", err)
	}
}

func TestLoadSpectralResponseMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadSpectralResponse(dir, "L8-OLI")
	if err == nil {
		t.Fatal("want error for missing file, got nil")
	}
	if !IsKind(err, KindConfigMissing) {
		t.Errorf("want KindConfigMissing, got %v", err)
	}
}

func TestLoadSpectralResponseNonMonotonic(t *testing.T) {
	dir := t.TempDir()
	content := "9.0 0.1\n8.5 0.8\n"
	if err := os.WriteFile(filepath.Join(dir, "L7_Spectral_Response.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	_, err := LoadSpectralResponse(dir, "L7-ETM")
	if err == nil {
		t.Fatal("want error for non-monotonic wavelengths, got nil")
	}
	if !IsKind(err, KindDomain) {
		t.Errorf("want KindDomain, got %v", err)
	}
}
