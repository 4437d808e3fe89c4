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
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/google/go-cmp/cmp"
)

func TestGridRecordRoundTrip(t *testing.T) {
	want := &GridPoint{
		Row: 3, Col: 4, NARRRow: 30, NARRCol: 40,
		Lon: -96.5, Lat: 38.25,
		Map:        geom.Point{X: 123456.789, Y: 987654.321},
		Index:      3*10 + 4,
		RunMODTRAN: true,
	}
	buf := encodeGridRecord(want)
	if len(buf) != gridRecordSize {
		t.Fatalf("encodeGridRecord: len = %d, want %d", len(buf), gridRecordSize)
	}
	got := decodeGridRecord(buf)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGridHeader(t *testing.T) {
	r := strings.NewReader("6\n2\n3\n")
	count, rows, cols, err := readGridHeader(r)
	if err != nil {
		t.Fatalf("readGridHeader: %v", err)
	}
	if count != 6 || rows != 2 || cols != 3 {
		t.Errorf("readGridHeader = (%d,%d,%d), want (6,2,3)", count, rows, cols)
	}
}

func TestReadGridHeaderDoesNotValidateCount(t *testing.T) {
	// readGridHeader only parses; LoadStore is responsible for checking
	// count == rows*cols.
	r := strings.NewReader("5\n2\n3\n")
	_, _, _, err := readGridHeader(r)
	if err != nil {
		t.Fatalf("readGridHeader: %v", err)
	}
}

func TestStoreAtOutOfBounds(t *testing.T) {
	s := &Store{Rows: 2, Cols: 2, Points: make([]*GridPoint, 4)}
	if s.At(-1, 0) != nil {
		t.Error("At(-1, 0) should be nil")
	}
	if s.At(0, 5) != nil {
		t.Error("At(0, 5) should be nil")
	}
}
