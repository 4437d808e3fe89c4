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
	"math"
	"sort"
)

// Geolocator is the external geolocation collaborator (§6, Non-goals --
// map-projection handling is delegated entirely to it).
type Geolocator interface {
	// LineSampleToLonLat converts a (line, sample) pixel position to
	// (longitude, latitude) in decimal degrees.
	LineSampleToLonLat(line, sample int) (lon, lat float64, err error)
}

// Params is one pixel's interpolated radiative-transfer triple.
type Params struct {
	Transmission       float64
	UpwelledRadiance   float64
	DownwelledRadiance float64
}

// NoDataParams is the sentinel value written for no-data or out-of-mesh
// pixels.
var NoDataParams = Params{
	Transmission:       NoDataValue,
	UpwelledRadiance:   NoDataValue,
	DownwelledRadiance: NoDataValue,
}

// NoDataValue is the no-data sentinel for the derived rasters.
const NoDataValue = -9999.0

// gridItem pairs a grid index with its distance (metres) to the pixel
// currently being located (§4.F step 3).
type gridItem struct {
	index int
	dist  float64
}

// Interpolator holds the state the pixel loop reuses across pixels on a
// line: the MODTRAN point store and a reusable GridItem scratch buffer
// (§4.F, §5).
type Interpolator struct {
	Store *MODTRANStore

	// ULEasting, ULNorthing, PixelSize describe the scene's projected
	// raster grid (§4.F step 2). Pixel does not read them: it takes the
	// pixel's (easting, northing) from its caller.
	ULEasting, ULNorthing float64
	PixelSize             float64

	items      []gridItem
	haveCenter bool
	center     int
}

// NewInterpolator builds an Interpolator over store.
func NewInterpolator(store *MODTRANStore, ulEasting, ulNorthing, pixelSize float64) *Interpolator {
	return &Interpolator{
		Store:      store,
		ULEasting:  ulEasting,
		ULNorthing: ulNorthing,
		PixelSize:  pixelSize,
		items:      make([]gridItem, len(store.Points)),
	}
}

// BeginLine resets per-line center-point state; callers call this at the
// start of each scene line (§4.F step 3).
func (ip *Interpolator) BeginLine() {
	ip.haveCenter = false
}

// Pixel computes the interpolated parameters for one pixel, given its
// thermal validity, geographic position and elevation (metres) (§4.F).
func (ip *Interpolator) Pixel(valid bool, lon, lat, easting, northing, elevationM float64) Params {
	if !valid {
		ip.haveCenter = false
		return NoDataParams
	}

	center := ip.findCenter(lon, lat)
	ip.center = center
	ip.haveCenter = true

	ll, lc, ul, uc, ur, rc, lr, dc := neighborhood(center, ip.Store.Cols)
	quadrant := ip.selectQuadrant(lon, lat, center, ll, lc, ul, uc, ur, rc, lr, dc)

	p0, p1, p2, p3, ok := ip.quadrantVertices(quadrant, center, ll, lc, ul, uc, ur, rc, lr, dc)
	if !ok {
		return NoDataParams
	}

	elevKm := elevationM * 1e-3
	v0 := verticalInterp(p0, elevKm)
	v1 := verticalInterp(p1, elevKm)
	v2 := verticalInterp(p2, elevKm)
	v3 := verticalInterp(p3, elevKm)

	d0 := planarDistance(p0, easting, northing)
	d1 := planarDistance(p1, easting, northing)
	d2 := planarDistance(p2, easting, northing)
	d3 := planarDistance(p3, easting, northing)

	return scaleRadiance(idw4(v0, v1, v2, v3, d0, d1, d2, d3))
}

// scaleRadiance converts Lu/Ld from W*cm^-2*sr^-1 (the unit the reducer
// stores, §4.E) to W*m^-2*sr^-1 for the output rasters (§4.F step 8). τ is
// unitless and passes through unchanged.
func scaleRadiance(p Params) Params {
	p.UpwelledRadiance *= radianceCm2ToM2
	p.DownwelledRadiance *= radianceCm2ToM2
	return p
}

// findCenter locates the nearest grid point to (lon, lat): a global sort on
// the first valid pixel of a line, a 9-point-neighborhood sort thereafter
// (§4.F step 3).
func (ip *Interpolator) findCenter(lon, lat float64) int {
	if !ip.haveCenter {
		for i, p := range ip.Store.Points {
			ip.items[i] = gridItem{index: i, dist: haversine(lon, lat, p.Lon, p.Lat)}
		}
		sort.Slice(ip.items, func(a, b int) bool { return ip.items[a].dist < ip.items[b].dist })
		return ip.items[0].index
	}

	ll, lc, ul, uc, ur, rc, lr, dc := neighborhood(ip.center, ip.Store.Cols)
	candidates := [9]int{ip.center, ll, lc, ul, uc, ur, rc, lr, dc}
	items := make([]gridItem, 0, 9)
	for _, idx := range candidates {
		if p := ip.pointAt(idx); p != nil {
			items = append(items, gridItem{index: idx, dist: haversine(lon, lat, p.Lon, p.Lat)})
		}
	}
	sort.Slice(items, func(a, b int) bool { return items[a].dist < items[b].dist })
	return items[0].index
}

// pointAt returns the MODTRAN point at flat index idx, or nil if idx is
// outside [0, len(Points)) -- the mesh-boundary clamp recommended in §9.
func (ip *Interpolator) pointAt(idx int) *MODTRANPoint {
	if idx < 0 || idx >= len(ip.Store.Points) {
		return nil
	}
	return ip.Store.Points[idx]
}

// neighborhood computes the 9-point neighborhood indices around center in a
// mesh with cols columns (§4.F step 4).
func neighborhood(center, cols int) (ll, lc, ul, uc, ur, rc, lr, dc int) {
	ll = center - 1 - cols
	lc = center - 1
	ul = center - 1 + cols
	uc = center + cols
	ur = center + 1 + cols
	rc = center + 1
	lr = center + 1 - cols
	dc = center - cols
	return
}

// selectQuadrant computes the four averaged quadrant distances and returns
// the index of the smallest (§4.F step 5). Indices outside the point array
// contribute +Inf distance, which excludes their quadrant; if every quadrant
// is excluded, the LL quadrant (0) is returned.
func (ip *Interpolator) selectQuadrant(lon, lat float64, center, ll, lc, ul, uc, ur, rc, lr, dc int) int {
	dist := func(idx int) float64 {
		p := ip.pointAt(idx)
		if p == nil {
			return math.Inf(1)
		}
		return haversine(lon, lat, p.Lon, p.Lat)
	}

	dDC, dLL, dLC := dist(dc), dist(ll), dist(lc)
	dUL, dUC := dist(ul), dist(uc)
	dUR, dRC := dist(ur), dist(rc)
	dLR := dist(lr)

	quadLL := mean3(dDC, dLL, dLC)
	quadUL := mean3(dLC, dUL, dUC)
	quadUR := mean3(dUC, dUR, dRC)
	quadLR := mean3(dRC, dLR, dDC)

	best, bestVal := 0, quadLL
	if quadUL < bestVal {
		best, bestVal = 1, quadUL
	}
	if quadUR < bestVal {
		best, bestVal = 2, quadUR
	}
	if quadLR < bestVal {
		best, bestVal = 3, quadLR
	}
	return best
}

func mean3(a, b, c float64) float64 {
	return (a + b + c) / 3
}

// quadrantVertices returns the four MODTRAN points forming the chosen
// quadrant's 2x2 cell, in a fixed vertex order (§4.F step 5). ok is false if
// any vertex is off-mesh, in which case the caller should emit no-data --
// the §9 open-question alternative to silently dropping the vertex from the
// IDW mean.
func (ip *Interpolator) quadrantVertices(quadrant, center, ll, lc, ul, uc, ur, rc, lr, dc int) (p0, p1, p2, p3 *MODTRANPoint, ok bool) {
	var lowerLeft int
	switch quadrant {
	case 0: // LL quadrant: {DC, LL, LC, CC} -- lower-left vertex is LL
		lowerLeft = ll
	case 1: // UL quadrant: {LC, UL, UC, CC} -- lower-left vertex is LC
		lowerLeft = lc
	case 2: // UR quadrant: {UC, UR, RC, CC} -- lower-left vertex is CC
		lowerLeft = center
	default: // LR quadrant: {RC, LR, DC, CC} -- lower-left vertex is DC
		lowerLeft = dc
	}

	cols := ip.Store.Cols
	// A lower-left vertex in the last mesh column would take its right-hand
	// vertices from the next row; such a cell lies partly off the mesh.
	if lowerLeft < 0 || lowerLeft%cols == cols-1 {
		return nil, nil, nil, nil, false
	}
	p0 = ip.pointAt(lowerLeft)
	p1 = ip.pointAt(lowerLeft + 1)
	p2 = ip.pointAt(lowerLeft + cols)
	p3 = ip.pointAt(lowerLeft + 1 + cols)
	if p0 == nil || p1 == nil || p2 == nil || p3 == nil {
		return nil, nil, nil, nil, false
	}
	return p0, p1, p2, p3, true
}

// verticalInterp linearly interpolates τ, Lu, Ld for p to targetElevKm
// (§4.F step 6).
func verticalInterp(p *MODTRANPoint, targetElevKm float64) Params {
	n := len(p.Elevations)
	below, above := 0, 0
	switch {
	case n == 0:
		return NoDataParams
	case targetElevKm <= p.Elevations[0].ElevationKm:
		below, above = 0, 0
	case targetElevKm >= p.Elevations[n-1].ElevationKm:
		below, above = n-1, n-1
	default:
		below = -1
		for i := 0; i < n; i++ {
			if p.Elevations[i].ElevationKm < targetElevKm {
				below = i
			} else {
				break
			}
		}
		if below < 0 {
			below, above = 0, 0
		} else {
			above = below + 1
			if above > n-1 {
				above = n - 1
			}
		}
	}

	lo := p.Elevations[below]
	hi := p.Elevations[above]
	if below == above {
		return Params{Transmission: lo.Transmission, UpwelledRadiance: lo.UpwelledRadiance, DownwelledRadiance: lo.DownwelledRadiance}
	}

	span := hi.ElevationKm - lo.ElevationKm
	tauSlope := (hi.Transmission - lo.Transmission) / span
	luSlope := (hi.UpwelledRadiance - lo.UpwelledRadiance) / span
	ldSlope := (hi.DownwelledRadiance - lo.DownwelledRadiance) / span

	offset := targetElevKm - hi.ElevationKm
	return Params{
		Transmission:       tauSlope*offset + hi.Transmission,
		UpwelledRadiance:   luSlope*offset + hi.UpwelledRadiance,
		DownwelledRadiance: ldSlope*offset + hi.DownwelledRadiance,
	}
}

// planarDistance is the Euclidean distance (metres) in map coordinates
// between p's projected location and (easting, northing) (§4.F step 7).
func planarDistance(p *MODTRANPoint, easting, northing float64) float64 {
	dx := p.Map.X - easting
	dy := p.Map.Y - northing
	return math.Hypot(dx, dy)
}

// idw4 combines four vertex values by Shepard's method, power 1 (§4.F
// step 7). A zero distance (pixel exactly on a vertex) returns that
// vertex's value exactly.
func idw4(v0, v1, v2, v3 Params, d0, d1, d2, d3 float64) Params {
	dists := [4]float64{d0, d1, d2, d3}
	for i, d := range dists {
		if d == 0 {
			switch i {
			case 0:
				return v0
			case 1:
				return v1
			case 2:
				return v2
			default:
				return v3
			}
		}
	}

	w := [4]float64{1 / d0, 1 / d1, 1 / d2, 1 / d3}
	total := sum(w[:])

	vals := [4]Params{v0, v1, v2, v3}
	var out Params
	for i := range w {
		weight := w[i] / total
		out.Transmission += weight * vals[i].Transmission
		out.UpwelledRadiance += weight * vals[i].UpwelledRadiance
		out.DownwelledRadiance += weight * vals[i].DownwelledRadiance
	}
	return out
}

// haversine computes great-circle distance (metres) between two
// longitude/latitude pairs in decimal degrees (§4.F, §9 -- the source's
// "R*2 + asin(...)" form is a bug; this is the mathematically correct
// "R*2*asin(...)").
func haversine(lon1, lat1, lon2, lat2 float64) float64 {
	rad := math.Pi / 180
	phi1, phi2 := lat1*rad, lat2*rad
	dphi := (lat2 - lat1) * rad
	dlambda := (lon2 - lon1) * rad

	a := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlambda/2)*math.Sin(dlambda/2)
	return EquatorialRadiusMeters * 2 * math.Asin(math.Sqrt(a))
}
