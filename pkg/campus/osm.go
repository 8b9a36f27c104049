package campus

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmgeojson"
	"github.com/paulmach/osm/osmpbf"
)

// walkHighways lists highway tag values usable on foot.
var walkHighways = map[string]bool{
	"footway":       true,
	"path":          true,
	"pedestrian":    true,
	"steps":         true,
	"corridor":      true,
	"living_street": true,
	"service":       true,
	"residential":   true,
	"track":         true,
	"cycleway":      true,
	"unclassified":  true,
	"tertiary":      true,
	"secondary":     true,
	"primary":       true,
}

// isWalkable returns true if the way can be walked.
func isWalkable(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !walkHighways[hw] {
		return false
	}

	// Pedestrian plazas are areas, not paths.
	if tags.Find("area") == "yes" {
		return false
	}

	switch tags.Find("foot") {
	case "yes", "designated", "permissive":
		return true
	case "no":
		return false
	}

	access := tags.Find("access")
	return access != "no" && access != "private"
}

// ImportStats counts what an import kept and dropped.
type ImportStats struct {
	Paths   int
	Areas   int
	Points  int
	Skipped int
}

// ImportOSMXML converts an OSM XML export into a campus feature collection.
func ImportOSMXML(r io.Reader) (*geojson.FeatureCollection, ImportStats, error) {
	o := &osm.OSM{}
	if err := xml.NewDecoder(r).Decode(o); err != nil {
		return nil, ImportStats{}, fmt.Errorf("decode osm xml: %w", err)
	}
	return convertOSM(o)
}

// ImportOSMPBF converts an OSM PBF extract into a campus feature collection.
func ImportOSMPBF(ctx context.Context, r io.Reader) (*geojson.FeatureCollection, ImportStats, error) {
	o := &osm.OSM{}

	scanner := osmpbf.New(ctx, r, 1)
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			o.Nodes = append(o.Nodes, obj)
		case *osm.Way:
			o.Ways = append(o.Ways, obj)
		case *osm.Relation:
			o.Relations = append(o.Relations, obj)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, ImportStats{}, fmt.Errorf("scan osm pbf: %w", err)
	}
	scanner.Close()

	return convertOSM(o)
}

// convertOSM turns OSM objects into features with flat properties: the OSM
// tags plus an "@id" of the form "way/123". Lines survive only when walkable.
func convertOSM(o *osm.OSM) (*geojson.FeatureCollection, ImportStats, error) {
	var stats ImportStats

	converted, err := osmgeojson.Convert(o,
		osmgeojson.NoMeta(true),
		osmgeojson.NoRelationMembership(true),
	)
	if err != nil {
		return nil, stats, fmt.Errorf("convert osm: %w", err)
	}

	fc := geojson.NewFeatureCollection()
	for _, f := range converted.Features {
		tags := featureTags(f)

		switch geom := f.Geometry.(type) {
		case orb.LineString:
			if len(geom) < 2 || !isWalkable(tags) {
				stats.Skipped++
				continue
			}
			stats.Paths++
		case orb.Polygon, orb.MultiPolygon:
			stats.Areas++
		case orb.Point:
			if len(tags) == 0 {
				stats.Skipped++
				continue
			}
			stats.Points++
		default:
			stats.Skipped++
			continue
		}

		out := geojson.NewFeature(f.Geometry)
		for _, t := range tags {
			out.Properties[t.Key] = t.Value
		}
		id := osmID(f)
		out.ID = id
		out.Properties[IDProperty] = id
		fc.Append(out)
	}

	return fc, stats, nil
}

// featureTags reads the "tags" property osmgeojson attaches to each feature.
func featureTags(f *geojson.Feature) osm.Tags {
	var tags osm.Tags
	switch m := f.Properties["tags"].(type) {
	case map[string]string:
		for k, v := range m {
			tags = append(tags, osm.Tag{Key: k, Value: v})
		}
	case map[string]interface{}:
		for k, v := range m {
			if s, ok := v.(string); ok {
				tags = append(tags, osm.Tag{Key: k, Value: s})
			}
		}
	case osm.Tags:
		tags = append(tags, m...)
	}
	tags.SortByKeyValue()
	return tags
}

// osmID returns the "type/ref" identity of a converted feature.
func osmID(f *geojson.Feature) string {
	if id, ok := f.ID.(string); ok && id != "" {
		return id
	}
	typ := stringValue(f.Properties["type"])
	ref := stringValue(f.Properties["id"])
	if typ == "" || ref == "" {
		return ""
	}
	return typ + "/" + ref
}
