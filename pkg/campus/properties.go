package campus

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"campus_router/pkg/geo"
)

// Property keys used by the campus data.
const (
	IDProperty                = "@id"
	NameProperty              = "name"
	RoomNameProperty          = "room_name"
	RoomNumberProperty        = "room_number"
	BuildingProperty          = "building"
	POIProperty               = "poi"
	LevelsProperty            = "building:levels"
	UndergroundLevelsProperty = "building:levels:underground"
)

// Location is a feature a user can pick as a navigation endpoint.
type Location struct {
	ID                string
	Name              string
	Kind              string // "building" or "poi"
	Levels            int
	UndergroundLevels int
	Centroid          orb.Point
	HasCentroid       bool
	Feature           *geojson.Feature
}

// FeatureID returns the feature's "@id" property, falling back to the
// GeoJSON feature id. Numeric ids are formatted without a fraction.
func FeatureID(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	if id := stringValue(f.Properties[IDProperty]); id != "" {
		return id
	}
	return stringValue(f.ID)
}

// DisplayName returns name, room_name or "Room <room_number>", in that
// order, or "" when the feature carries none of them.
func DisplayName(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	if name := stringValue(f.Properties[NameProperty]); name != "" {
		return name
	}
	if name := stringValue(f.Properties[RoomNameProperty]); name != "" {
		return name
	}
	if num := stringValue(f.Properties[RoomNumberProperty]); num != "" {
		return "Room " + num
	}
	return ""
}

// Levels returns the above- and below-ground floor counts.
func Levels(f *geojson.Feature) (above, below int) {
	if f == nil {
		return 0, 0
	}
	above, _ = intValue(f.Properties[LevelsProperty])
	below, _ = intValue(f.Properties[UndergroundLevelsProperty])
	return above, below
}

// IsSelectable reports whether f can be offered as a navigation endpoint: it
// needs a name source, an id, and a building or poi tag.
func IsSelectable(f *geojson.Feature) bool {
	if f == nil {
		return false
	}
	p := f.Properties
	named := truthy(p[NameProperty]) || truthy(p[RoomNameProperty]) || truthy(p[RoomNumberProperty])
	return named && truthy(p[IDProperty]) && (truthy(p[BuildingProperty]) || truthy(p[POIProperty]))
}

// NewLocation describes f as a Location.
func NewLocation(f *geojson.Feature) Location {
	loc := Location{
		ID:      FeatureID(f),
		Name:    DisplayName(f),
		Kind:    "poi",
		Feature: f,
	}
	if loc.Name == "" {
		loc.Name = "Unnamed Location"
	}
	if truthy(f.Properties[BuildingProperty]) {
		loc.Kind = "building"
	}
	loc.Levels, loc.UndergroundLevels = Levels(f)
	loc.Centroid, loc.HasCentroid = geo.Centroid(f.Geometry)
	return loc
}

// Locations lists the selectable features of fc sorted by name, then id.
func Locations(fc *geojson.FeatureCollection) []Location {
	if fc == nil {
		return nil
	}
	var locs []Location
	for _, f := range fc.Features {
		if IsSelectable(f) {
			locs = append(locs, NewLocation(f))
		}
	}
	sort.SliceStable(locs, func(i, j int) bool {
		a, b := strings.ToLower(locs[i].Name), strings.ToLower(locs[j].Name)
		if a != b {
			return a < b
		}
		return locs[i].ID < locs[j].ID
	})
	return locs
}

// Find returns the first feature whose id is id.
func Find(fc *geojson.FeatureCollection, id string) *geojson.Feature {
	if fc == nil || id == "" {
		return nil
	}
	for _, f := range fc.Features {
		if FeatureID(f) == id {
			return f
		}
	}
	return nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<63 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return ""
	}
	return fmt.Sprint(v)
}

func intValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case int64:
		return int(val), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// truthy mirrors how the map data marks flags: missing, false, zero and
// empty string all count as unset.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	}
	return true
}
