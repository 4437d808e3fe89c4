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
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

// GridPoint is a point on the structured NARR mesh (§3). Index is the flat
// index (Row*Cols + Col) of the point's position in the owning Store's
// Points slice; the invariant Index == position-in-array is checked at
// load time and never violated afterward.
type GridPoint struct {
	Row, Col         int
	NARRRow, NARRCol int
	Lon, Lat         float64

	// Map is the point's projected (map_x, map_y) location in the scene's
	// projection, metres.
	Map geom.Point

	Index int

	// RunMODTRAN is true if this point's columns lie within the scene
	// bounds and MODTRAN was executed for it.
	RunMODTRAN bool
}

// gridRecordSize is the fixed per-record size (bytes) of a packed GridPoint
// in grid_points.bin: 4 int32 fields, 4 float64 fields, 1 int32 index, and
// a 1-byte flag padded to a 4-byte boundary.
const gridRecordSize = 4*4 + 8*4 + 4 + 4

// Store owns the grid's point array and its rows/cols shape (§3, §9 --
// Store has a one-shot lifecycle aligned to program lifetime and is the
// sole owner of Points).
type Store struct {
	Rows, Cols int
	Points     []*GridPoint
}

// At returns the point at mesh position (row, col), or nil if out of
// bounds.
func (s *Store) At(row, col int) *GridPoint {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return nil
	}
	return s.Points[row*s.Cols+col]
}

// LoadStore reads grid_points.hdr and grid_points.bin from dir (§6).
func LoadStore(dir string) (*Store, error) {
	const fn = "LoadStore"

	hdrPath := dir + string(os.PathSeparator) + "grid_points.hdr"
	hf, err := os.Open(hdrPath)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening %q: %w", hdrPath, err))
	}
	defer hf.Close()

	count, rows, cols, err := readGridHeader(hf)
	if err != nil {
		return nil, newErr(KindIORead, fn, fmt.Errorf("%q: %w", hdrPath, err))
	}
	if count != rows*cols {
		return nil, newErr(KindDomain, fn, fmt.Errorf("%q: count %d != rows*cols %d", hdrPath, count, rows*cols))
	}

	binPath := dir + string(os.PathSeparator) + "grid_points.bin"
	bf, err := os.Open(binPath)
	if err != nil {
		return nil, newErr(KindConfigMissing, fn, fmt.Errorf("opening %q: %w", binPath, err))
	}
	defer bf.Close()

	points := make([]*GridPoint, count)
	buf := make([]byte, gridRecordSize)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(bf, buf); err != nil {
			return nil, newErr(KindIORead, fn, fmt.Errorf("%q: record %d: %w", binPath, i, err))
		}
		p := decodeGridRecord(buf)
		if p.Index != i {
			return nil, newErr(KindDomain, fn, fmt.Errorf("%q: record %d has index %d, want %d", binPath, i, p.Index, i))
		}
		points[i] = p
	}

	return &Store{Rows: rows, Cols: cols, Points: points}, nil
}

// readGridHeader parses the three ASCII-integer lines of grid_points.hdr:
// total point count, mesh rows, mesh columns (§6).
func readGridHeader(r io.Reader) (count, rows, cols int, err error) {
	scanner := bufio.NewScanner(r)
	vals := make([]int, 0, 3)
	for scanner.Scan() && len(vals) < 3 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parsing header line %q: %w", line, err)
		}
		vals = append(vals, v)
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, 0, err
	}
	if len(vals) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 header lines, got %d", len(vals))
	}
	return vals[0], vals[1], vals[2], nil
}

func decodeGridRecord(buf []byte) *GridPoint {
	le := binary.LittleEndian
	p := &GridPoint{}
	p.Row = int(int32(le.Uint32(buf[0:4])))
	p.Col = int(int32(le.Uint32(buf[4:8])))
	p.NARRRow = int(int32(le.Uint32(buf[8:12])))
	p.NARRCol = int(int32(le.Uint32(buf[12:16])))
	p.Lon = math.Float64frombits(le.Uint64(buf[16:24]))
	p.Lat = math.Float64frombits(le.Uint64(buf[24:32]))
	p.Map.X = math.Float64frombits(le.Uint64(buf[32:40]))
	p.Map.Y = math.Float64frombits(le.Uint64(buf[40:48]))
	p.Index = int(int32(le.Uint32(buf[48:52])))
	p.RunMODTRAN = buf[52] != 0
	return p
}

// encodeGridRecord is the inverse of decodeGridRecord; it is exercised by
// the round-trip test and by tools that synthesize grid_points.bin fixtures.
func encodeGridRecord(p *GridPoint) []byte {
	buf := make([]byte, gridRecordSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], uint32(int32(p.Row)))
	le.PutUint32(buf[4:8], uint32(int32(p.Col)))
	le.PutUint32(buf[8:12], uint32(int32(p.NARRRow)))
	le.PutUint32(buf[12:16], uint32(int32(p.NARRCol)))
	le.PutUint64(buf[16:24], math.Float64bits(p.Lon))
	le.PutUint64(buf[24:32], math.Float64bits(p.Lat))
	le.PutUint64(buf[32:40], math.Float64bits(p.Map.X))
	le.PutUint64(buf[40:48], math.Float64bits(p.Map.Y))
	le.PutUint32(buf[48:52], uint32(int32(p.Index)))
	if p.RunMODTRAN {
		buf[52] = 1
	}
	return buf
}
