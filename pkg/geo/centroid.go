package geo

import "github.com/paulmach/orb"

// Centroid returns the vertex mean of an area geometry's outer ring.
// Polygons use their outer ring; multipolygons use the outer ring of their
// first polygon. Any other geometry has no centroid.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) == 0 {
			return orb.Point{}, false
		}
		return RingCentroid(geom[0])
	case orb.MultiPolygon:
		if len(geom) == 0 || len(geom[0]) == 0 {
			return orb.Point{}, false
		}
		return RingCentroid(geom[0][0])
	}
	return orb.Point{}, false
}

// RingCentroid averages the ring's vertices, leaving out the last one since
// GeoJSON rings repeat their first vertex to close. A single-vertex ring
// returns that vertex.
func RingCentroid(r orb.Ring) (orb.Point, bool) {
	switch len(r) {
	case 0:
		return orb.Point{}, false
	case 1:
		return r[0], true
	}

	var sumLon, sumLat float64
	n := len(r) - 1
	for i := 0; i < n; i++ {
		sumLon += r[i][0]
		sumLat += r[i][1]
	}
	return orb.Point{sumLon / float64(n), sumLat / float64(n)}, true
}
