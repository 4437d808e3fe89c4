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

func TestReadModtranElevations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modtran_elevations.txt")
	if err := os.WriteFile(path, []byte("3\n0.000\n1.000\n2.000\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	got, err := ReadModtranElevations(path)
	if err != nil {
		t.Fatalf("ReadModtranElevations: %v", err)
	}
	want := []float64{0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("elevation[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReadModtranElevationsCountMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modtran_elevations.txt")
	if err := os.WriteFile(path, []byte("5\n0.000\n1.000\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	_, err := ReadModtranElevations(path)
	if err == nil {
		t.Fatal("want error for count mismatch, got nil")
	}
	if !IsKind(err, KindDomain) {
		t.Errorf("want KindDomain, got %v", err)
	}
}

func TestReadGridElevations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid_elevations.txt")
	if err := os.WriteFile(path, []byte("123.4 tagA\n567.8 tagB\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	got, err := ReadGridElevations(path)
	if err != nil {
		t.Fatalf("ReadGridElevations: %v", err)
	}
	if len(got) != 2 || got[0].DirTag != "tagA" || got[1].ElevationM != 567.8 {
		t.Errorf("unexpected parse result: %+v", got)
	}
}

func TestMODTRANStoreMirrorsGrid(t *testing.T) {
	grid := &Store{
		Rows: 1, Cols: 2,
		Points: []*GridPoint{
			{Row: 0, Col: 0, Index: 0, RunMODTRAN: true},
			{Row: 0, Col: 1, Index: 1, RunMODTRAN: false},
		},
	}
	elevations := []float64{0, 1, 2}
	store := NewMODTRANStore(grid, elevations)
	if store.Rows != 1 || store.Cols != 2 {
		t.Fatalf("store shape = (%d,%d), want (1,2)", store.Rows, store.Cols)
	}
	if len(store.Points[0].Elevations) != 3 {
		t.Fatalf("len(Elevations) = %d, want 3", len(store.Points[0].Elevations))
	}
	if !store.Points[0].RanMODTRAN || store.Points[1].RanMODTRAN {
		t.Error("RanMODTRAN flags should mirror the grid's RunMODTRAN flags")
	}
	if store.At(0, 1) != store.Points[1] {
		t.Error("At(0, 1) should return Points[1]")
	}
}

func TestApplyGridElevations(t *testing.T) {
	grid := &Store{
		Rows: 1, Cols: 3,
		Points: []*GridPoint{
			{Row: 0, Col: 0, Index: 0, RunMODTRAN: true},
			{Row: 0, Col: 1, Index: 1, RunMODTRAN: false},
			{Row: 0, Col: 2, Index: 2, RunMODTRAN: true},
		},
	}
	store := NewMODTRANStore(grid, []float64{0, 1})

	dir := t.TempDir()
	path := filepath.Join(dir, "grid_elevations.txt")
	if err := os.WriteFile(path, []byte("123.4 tagA\n567.8 tagB\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if err := store.ApplyGridElevations(path); err != nil {
		t.Fatalf("ApplyGridElevations: %v", err)
	}

	first := store.Points[0]
	if first.GroundElevationM != 123.4 {
		t.Errorf("Points[0].GroundElevationM = %v, want 123.4", first.GroundElevationM)
	}
	for _, e := range first.Elevations {
		if e.ElevationDirectory != "tagA" {
			t.Errorf("Points[0] slot ElevationDirectory = %q, want tagA", e.ElevationDirectory)
		}
	}

	third := store.Points[2]
	if third.GroundElevationM != 567.8 {
		t.Errorf("Points[2].GroundElevationM = %v, want 567.8", third.GroundElevationM)
	}
	for _, e := range third.Elevations {
		if e.ElevationDirectory != "tagB" {
			t.Errorf("Points[2] slot ElevationDirectory = %q, want tagB", e.ElevationDirectory)
		}
	}

	skipped := store.Points[1]
	if skipped.GroundElevationM != 0 || skipped.Elevations[0].ElevationDirectory != "" {
		t.Errorf("non-MODTRAN point should be untouched, got %+v", skipped)
	}
}

func TestApplyGridElevationsCountMismatch(t *testing.T) {
	grid := &Store{
		Rows: 1, Cols: 2,
		Points: []*GridPoint{
			{Row: 0, Col: 0, Index: 0, RunMODTRAN: true},
			{Row: 0, Col: 1, Index: 1, RunMODTRAN: true},
		},
	}
	store := NewMODTRANStore(grid, []float64{0})

	dir := t.TempDir()
	path := filepath.Join(dir, "grid_elevations.txt")
	if err := os.WriteFile(path, []byte("123.4 tagA\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if err := store.ApplyGridElevations(path); err == nil {
		t.Fatal("want error for entry/point count mismatch, got nil")
	}
}
