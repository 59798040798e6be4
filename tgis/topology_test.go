package tgis

import (
	"testing"
)

func TestBuildTopologySelf(t *testing.T) {
	a := intervalMap("a", "2001-01-01", "2001-02-01")
	b := intervalMap("b", "2001-01-01", "2001-02-01")
	c := intervalMap("c", "2001-02-01", "2001-03-01")
	maps := []*Map{a, b, c}

	index := BuildTopology(maps, nil, false)

	if got := index.Related(a, RelationEqual); len(got) != 1 || got[0] != b {
		t.Errorf("a equal = %v", got)
	}
	if got := index.Related(c, RelationFollows); len(got) != 2 {
		t.Errorf("c follows = %v, want a and b", got)
	}
	if got := index.Related(a, RelationPrecedes); len(got) != 1 || got[0] != c {
		t.Errorf("a precedes = %v", got)
	}
}

func TestBuildTopologyTwoLists(t *testing.T) {
	outer := intervalMap("outer", "2001-01-01", "2001-04-01")
	inner := intervalMap("inner", "2001-02-01", "2001-03-01")
	left := intervalMap("left", "2001-01-01", "2001-02-01")

	index := BuildTopology([]*Map{outer}, []*Map{inner, left}, false)

	if got := index.Related(inner, RelationDuring); len(got) != 1 || got[0] != outer {
		t.Errorf("inner during = %v", got)
	}
	if got := index.Related(outer, RelationContains); len(got) != 2 {
		t.Errorf("outer contains = %v, want inner and left", got)
	}
	// starts is folded into during but additionally recorded
	if got := index.Related(left, RelationStarts); len(got) != 1 || got[0] != outer {
		t.Errorf("left starts = %v", got)
	}
	if got := index.Related(left, RelationDuring); len(got) != 1 || got[0] != outer {
		t.Errorf("left during = %v", got)
	}
	if got := index.Related(outer, RelationStarted); len(got) != 1 || got[0] != left {
		t.Errorf("outer started = %v", got)
	}
}

func TestBuildTopologySpatialFilter(t *testing.T) {
	a := intervalMap("a", "2001-01-01", "2001-02-01")
	a.Spatial = SpatialExtent{West: 0, East: 10, South: 0, North: 10}
	b := intervalMap("b", "2001-01-01", "2001-02-01")
	b.Spatial = SpatialExtent{West: 20, East: 30, South: 0, North: 10}
	c := intervalMap("c", "2001-01-01", "2001-02-01")
	c.Spatial = SpatialExtent{West: 5, East: 15, South: 5, North: 15}

	index := BuildTopology([]*Map{a}, []*Map{b, c}, true)

	if index.HasRelations(b) {
		t.Error("spatially disjoint pair must be dropped")
	}
	if got := index.Related(c, RelationEqual); len(got) != 1 || got[0] != a {
		t.Errorf("c equal = %v", got)
	}
}

func TestBuildTopologyNoDuplicates(t *testing.T) {
	a := intervalMap("a", "2001-01-01", "2001-02-01")
	b := intervalMap("b", "2001-01-15", "2001-03-01")

	index := BuildTopology([]*Map{a, b}, nil, false)

	// Self-topology visits each pair from both sides; entries must
	// still be recorded once.
	if got := index.Related(a, RelationOverlaps); len(got) != 1 || got[0] != b {
		t.Errorf("a overlaps = %v", got)
	}
	if got := index.Related(b, RelationOverlapped); len(got) != 1 || got[0] != a {
		t.Errorf("b overlapped = %v", got)
	}
}

func TestCheckTemporalTopology(t *testing.T) {
	valid := []*Map{
		intervalMap("a", "2001-01-01", "2001-02-01"),
		intervalMap("b", "2001-02-01", "2001-03-01"),
		intervalMap("c", "2001-04-01", "2001-05-01"),
	}
	if !CheckTemporalTopology(valid) {
		t.Error("contiguous and gapped members form a valid topology")
	}

	overlapping := []*Map{
		intervalMap("a", "2001-01-01", "2001-02-01"),
		intervalMap("b", "2001-01-15", "2001-03-01"),
	}
	if CheckTemporalTopology(overlapping) {
		t.Error("overlapping members must be rejected")
	}
}

func TestCountTemporalTypes(t *testing.T) {
	point := NewMap("p", "test", 0, KindRaster)
	point.Extent = NewAbsolutePoint(date("2001-01-01"))
	invalid := NewMap("i", "test", 0, KindRaster)

	points, intervals, bad := CountTemporalTypes([]*Map{
		point, invalid, intervalMap("a", "2001-01-01", "2001-02-01"),
	})
	if points != 1 || intervals != 1 || bad != 1 {
		t.Errorf("CountTemporalTypes() = %d, %d, %d", points, intervals, bad)
	}

	if got := ClassifyMapTime(1, 1, 0); got != MapTimeMixed {
		t.Errorf("ClassifyMapTime() = %q, want mixed", got)
	}
	if got := ClassifyMapTime(0, 2, 0); got != MapTimeInterval {
		t.Errorf("ClassifyMapTime() = %q, want interval", got)
	}
	if got := ClassifyMapTime(2, 0, 0); got != MapTimePoint {
		t.Errorf("ClassifyMapTime() = %q, want point", got)
	}
	if got := ClassifyMapTime(1, 1, 1); got != MapTimeInvalid {
		t.Errorf("ClassifyMapTime() = %q, want invalid", got)
	}
}
