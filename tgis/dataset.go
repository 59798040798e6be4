// Package tgis implements the temporal GIS core: temporal topology
// between time-stamped maps, space-time dataset registration over a
// SQLite side database, and granularity driven gap sampling.
package tgis

import (
	"github.com/grass-svn2git/grass/errors"
)

// Kind is the closed set of space-time dataset kinds. Each kind
// supplies the table-name suffix used for register tables and the
// external tooling family that produces its maps.
type Kind string

const (
	KindRaster   Kind = "raster"
	KindRaster3D Kind = "raster3d"
	KindVector   Kind = "vector"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRaster, KindRaster3D, KindVector:
		return Kind(s), nil
	}
	return "", errors.NewSyntaxError("unknown dataset kind %q", s)
}

// Valid reports whether k is a recognized kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRaster, KindRaster3D, KindVector:
		return true
	}
	return false
}

// Suffix returns the register-table suffix for the kind.
func (k Kind) Suffix() string {
	return string(k)
}

// MapTime classifies the temporal layout of a dataset's members.
type MapTime string

const (
	// MapTimePoint means only start times are present
	MapTimePoint MapTime = "point"
	// MapTimeInterval means every member has an explicit end time
	MapTimeInterval MapTime = "interval"
	// MapTimeMixed means both layouts occur
	MapTimeMixed MapTime = "mixed"
	// MapTimeInvalid means at least one member carries no valid time
	MapTimeInvalid MapTime = "invalid"
)

// Semantic types classify how member values relate to their interval.
const (
	SemanticEvent      = "event"
	SemanticConst      = "const"
	SemanticContinuous = "continuous"
	SemanticMean       = "mean"
)

// Dataset is a space-time dataset: a named collection of time-stamped
// maps of one kind, together with denormalized aggregate metadata that
// is recomputed after every membership change.
type Dataset struct {
	Name         string
	Mapset       string
	Kind         Kind
	TemporalType TemporalType
	SemanticType string
	Title        string
	Description  string
	Creator      string

	// Unit is the relative time unit, fixed by the first registered
	// member of a relative-time dataset.
	Unit Unit

	// Aggregate metadata maintained by UpdateFromRegisteredMaps.
	Extent      TemporalExtent
	Spatial     SpatialExtent
	Granularity *Granularity
	MapTime     MapTime
	MapCount    int

	// RegisterTable names the per-dataset table holding member map
	// ids. Empty until the first registration.
	RegisterTable string
}

// NewDataset returns an empty dataset.
func NewDataset(name, mapset string, kind Kind, temporalType TemporalType) *Dataset {
	return &Dataset{
		Name:         name,
		Mapset:       mapset,
		Kind:         kind,
		TemporalType: temporalType,
		SemanticType: SemanticMean,
		Extent:       TemporalExtent{Type: temporalType},
	}
}

// ID returns the canonical dataset identifier name@mapset.
func (d *Dataset) ID() string {
	return d.Name + "@" + d.Mapset
}

// CountTemporalTypes inspects a member list and returns the counts of
// point, interval and invalid extents, from which the dataset's map
// time classification is derived.
func CountTemporalTypes(maps []*Map) (points, intervals, invalid int) {
	for _, m := range maps {
		switch {
		case !m.Extent.IsValid():
			invalid++
		case m.Extent.HasEnd:
			intervals++
		default:
			points++
		}
	}
	return points, intervals, invalid
}

// ClassifyMapTime folds temporal type counts into a MapTime value.
func ClassifyMapTime(points, intervals, invalid int) MapTime {
	switch {
	case invalid > 0:
		return MapTimeInvalid
	case points > 0 && intervals > 0:
		return MapTimeMixed
	case intervals > 0:
		return MapTimeInterval
	case points > 0:
		return MapTimePoint
	}
	return MapTimeInvalid
}

// CheckTemporalTopology reports whether the sorted member list forms a
// valid temporal topology: no two members overlap, contain or equal
// each other. Granularity partitioning and gap sampling require this.
func CheckTemporalTopology(maps []*Map) bool {
	for i := 0; i < len(maps)-1; i++ {
		switch maps[i+1].TemporalRelation(maps[i]) {
		case RelationAfter, RelationFollows:
		default:
			return false
		}
	}
	return true
}
