package tgis

import (
	"fmt"
	"strings"
)

// Map is a time-stamped reference to a raster, 3D raster or vector
// layer in the native spatial data store. A Map with an empty ID is a
// synthetic gap entry produced by the sampling engine.
type Map struct {
	ID      string
	Name    string
	Mapset  string
	Layer   int // vector sub-layer, 0 when unused
	Kind    Kind
	Creator string

	Extent  TemporalExtent
	Spatial SpatialExtent

	// RegisterTable names the per-map table listing the datasets this
	// map is registered in. Empty until the first registration.
	RegisterTable string
}

// MapID builds the canonical map identifier: name@mapset, or
// name:layer@mapset when a vector sub-layer is addressed.
func MapID(name, mapset string, layer int) string {
	if layer > 0 {
		return fmt.Sprintf("%s:%d@%s", name, layer, mapset)
	}
	return name + "@" + mapset
}

// SplitID decomposes a canonical identifier into name, mapset and
// layer. An identifier without a mapset part yields an empty mapset.
func SplitID(id string) (name, mapset string, layer int) {
	if at := strings.LastIndex(id, "@"); at >= 0 {
		mapset = id[at+1:]
		id = id[:at]
	}
	if colon := strings.LastIndex(id, ":"); colon >= 0 {
		fmt.Sscanf(id[colon+1:], "%d", &layer)
		id = id[:colon]
	}
	return id, mapset, layer
}

// NewMap returns a map with identity derived from name, mapset and
// layer. Temporal and spatial extents are set separately.
func NewMap(name, mapset string, layer int, kind Kind) *Map {
	return &Map{
		ID:     MapID(name, mapset, layer),
		Name:   name,
		Mapset: mapset,
		Layer:  layer,
		Kind:   kind,
	}
}

// NewGap returns a synthetic gap entry covering the given extent. Gaps
// carry no identity and are skipped by registration.
func NewGap(kind Kind, extent TemporalExtent) *Map {
	return &Map{Kind: kind, Extent: extent}
}

// IsGap reports whether m is a synthetic gap entry.
func (m *Map) IsGap() bool {
	return m.ID == ""
}

// Clone returns an independent copy of m. Sampling and algebra passes
// clone members at ownership-transfer points instead of aliasing them.
func (m *Map) Clone() *Map {
	out := *m
	return &out
}

// TemporalRelation classifies the relation of m against other.
func (m *Map) TemporalRelation(other *Map) Relation {
	return m.Extent.Relation(other.Extent)
}

// SpatialOverlaps reports whether the bounding volumes of m and other
// intersect.
func (m *Map) SpatialOverlaps(other *Map) bool {
	return m.Spatial.Overlaps(other.Spatial)
}
