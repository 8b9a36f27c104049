// Package spatial answers "what is under this point" for campus area features.
package spatial

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

type entry struct {
	seq     int
	area    float64
	geom    orb.Geometry
	feature *geojson.Feature
}

// Index is an R-tree over the bounding boxes of polygon and multipolygon
// features. It is read-only after construction.
type Index struct {
	tree rtree.RTreeG[entry]
	size int
}

// NewIndex indexes the area features in features; everything else is ignored.
func NewIndex(features []*geojson.Feature) *Index {
	idx := &Index{}
	for i, f := range features {
		if f == nil {
			continue
		}
		geom, ok := areaGeometry(f.Geometry)
		if !ok {
			continue
		}
		b := geom.Bound()
		idx.tree.Insert(
			[2]float64{b.Min.Lon(), b.Min.Lat()},
			[2]float64{b.Max.Lon(), b.Max.Lat()},
			entry{seq: i, area: math.Abs(planar.Area(geom)), geom: geom, feature: f},
		)
		idx.size++
	}
	return idx
}

// Len returns the number of indexed features.
func (idx *Index) Len() int { return idx.size }

// At returns the features whose geometry contains p, smallest first, so a
// room is listed before the building around it. Equal areas keep input order.
func (idx *Index) At(p orb.Point) []*geojson.Feature {
	var hits []entry
	pt := [2]float64{p.Lon(), p.Lat()}
	idx.tree.Search(pt, pt, func(_, _ [2]float64, e entry) bool {
		if contains(e.geom, p) {
			hits = append(hits, e)
		}
		return true
	})

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].area != hits[j].area {
			return hits[i].area < hits[j].area
		}
		return hits[i].seq < hits[j].seq
	})

	out := make([]*geojson.Feature, len(hits))
	for i, h := range hits {
		out[i] = h.feature
	}
	return out
}

// areaGeometry returns the indexable part of g: a polygon with an outer ring,
// or a multipolygon with the ringless members dropped.
func areaGeometry(g orb.Geometry) (orb.Geometry, bool) {
	switch geom := g.(type) {
	case orb.Polygon:
		return geom, hasOuterRing(geom)
	case orb.MultiPolygon:
		var kept orb.MultiPolygon
		for _, poly := range geom {
			if hasOuterRing(poly) {
				kept = append(kept, poly)
			}
		}
		return kept, len(kept) > 0
	}
	return nil, false
}

func hasOuterRing(p orb.Polygon) bool {
	return len(p) > 0 && len(p[0]) > 0
}

func contains(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return hasOuterRing(geom) && planar.PolygonContains(geom, p)
	case orb.MultiPolygon:
		for _, poly := range geom {
			if hasOuterRing(poly) && planar.PolygonContains(poly, p) {
				return true
			}
		}
	}
	return false
}
