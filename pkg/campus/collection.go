// Package campus loads the campus feature collection and interprets the
// properties the map data carries (ids, names, floor counts).
package campus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInvalidCollection is returned when a document is not a feature
// collection wrapper around an array of features.
var ErrInvalidCollection = errors.New("invalid feature collection")

// Parse decodes a GeoJSON feature collection. Only the top-level shape is
// validated; individual features are accepted as the geojson decoder reads them.
func Parse(data []byte) (*geojson.FeatureCollection, error) {
	var shape struct {
		Type     string          `json:"type"`
		Features json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	if shape.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q", ErrInvalidCollection, shape.Type)
	}
	if f := bytes.TrimSpace(shape.Features); len(f) == 0 || f[0] != '[' {
		return nil, fmt.Errorf("%w: features is not an array", ErrInvalidCollection)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return fc, nil
}

// Load reads and parses the feature collection stored at path.
func Load(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read campus data: %w", err)
	}
	fc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// Write encodes fc as indented GeoJSON.
func Write(w io.Writer, fc *geojson.FeatureCollection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode campus data: %w", err)
	}
	return nil
}

// Clip returns a collection holding the features of fc whose bounding box
// intersects b. Features are shared, not copied.
func Clip(fc *geojson.FeatureCollection, b orb.Bound) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if b.Intersects(f.Geometry.Bound()) {
			out.Append(f)
		}
	}
	return out
}
