package tgis

import (
	"fmt"
	"time"

	"github.com/grass-svn2git/grass/errors"
)

// TemporalType distinguishes absolute (calendar) from relative
// (integer offset) time. It is fixed at dataset creation.
type TemporalType string

const (
	Absolute TemporalType = "absolute"
	Relative TemporalType = "relative"
)

// Valid reports whether t is a recognized temporal type.
func (t TemporalType) Valid() bool {
	return t == Absolute || t == Relative
}

// Unit is the unit of a relative time value or of a granularity step.
type Unit string

const (
	UnitYears   Unit = "years"
	UnitMonths  Unit = "months"
	UnitDays    Unit = "days"
	UnitHours   Unit = "hours"
	UnitMinutes Unit = "minutes"
	UnitSeconds Unit = "seconds"
)

var unitNames = map[string]Unit{
	"year": UnitYears, "years": UnitYears,
	"month": UnitMonths, "months": UnitMonths,
	"day": UnitDays, "days": UnitDays,
	"hour": UnitHours, "hours": UnitHours,
	"minute": UnitMinutes, "minutes": UnitMinutes,
	"second": UnitSeconds, "seconds": UnitSeconds,
}

// ParseUnit accepts singular and plural unit names.
func ParseUnit(s string) (Unit, error) {
	if u, ok := unitNames[s]; ok {
		return u, nil
	}
	return "", errors.NewSyntaxError("unknown time unit %q", s)
}

// Duration returns the fixed length of one unit step. Years and months
// have no fixed length; calendar stepping must be used instead.
func (u Unit) Duration() (time.Duration, bool) {
	switch u {
	case UnitDays:
		return 24 * time.Hour, true
	case UnitHours:
		return time.Hour, true
	case UnitMinutes:
		return time.Minute, true
	case UnitSeconds:
		return time.Second, true
	}
	return 0, false
}

// TemporalExtent is the temporal extent of a map or dataset: either an
// absolute (start, end) pair of timestamps or a relative (start, end)
// pair of integers with a unit. End is optional; an extent without an
// end is a single point in time.
type TemporalExtent struct {
	Type TemporalType
	Unit Unit // relative time only

	Start    time.Time
	End      time.Time
	RelStart int64
	RelEnd   int64

	HasStart bool
	HasEnd   bool
}

// NewAbsoluteInterval returns an absolute extent spanning [start, end).
func NewAbsoluteInterval(start, end time.Time) TemporalExtent {
	return TemporalExtent{Type: Absolute, Start: start, End: end, HasStart: true, HasEnd: true}
}

// NewAbsolutePoint returns an absolute extent for a single point in time.
func NewAbsolutePoint(start time.Time) TemporalExtent {
	return TemporalExtent{Type: Absolute, Start: start, HasStart: true}
}

// NewRelativeInterval returns a relative extent spanning [start, end)
// in the given unit.
func NewRelativeInterval(start, end int64, unit Unit) TemporalExtent {
	return TemporalExtent{Type: Relative, Unit: unit, RelStart: start, RelEnd: end, HasStart: true, HasEnd: true}
}

// NewRelativePoint returns a relative extent for a single point in time.
func NewRelativePoint(start int64, unit Unit) TemporalExtent {
	return TemporalExtent{Type: Relative, Unit: unit, RelStart: start, HasStart: true}
}

// IsValid reports whether the extent carries a usable time: the type is
// set, a start is present, and any end does not precede the start.
func (e TemporalExtent) IsValid() bool {
	if !e.Type.Valid() || !e.HasStart {
		return false
	}
	if e.Type == Relative && e.Unit == "" {
		return false
	}
	if e.HasEnd {
		start, end := e.bounds()
		if end < start {
			return false
		}
	}
	return true
}

// bounds maps the extent onto a single integer axis for comparison:
// nanoseconds since epoch for absolute time, the raw offset for
// relative time. The end value is only meaningful when HasEnd is set.
func (e TemporalExtent) bounds() (start, end int64) {
	if e.Type == Relative {
		return e.RelStart, e.RelEnd
	}
	return e.Start.UnixNano(), e.End.UnixNano()
}

// StartString renders the start time the way it is stored in the
// temporal database: a datetime string for absolute time, a bare
// integer for relative time.
func (e TemporalExtent) StartString() string {
	if e.Type == Relative {
		return fmt.Sprintf("%d", e.RelStart)
	}
	return FormatDatetime(e.Start)
}

// EndString renders the end time; empty when the extent has no end.
func (e TemporalExtent) EndString() string {
	if !e.HasEnd {
		return ""
	}
	if e.Type == Relative {
		return fmt.Sprintf("%d", e.RelEnd)
	}
	return FormatDatetime(e.End)
}

// String renders the extent for diagnostics.
func (e TemporalExtent) String() string {
	if !e.HasStart {
		return "<no time>"
	}
	if !e.HasEnd {
		return e.StartString()
	}
	return e.StartString() + " .. " + e.EndString()
}

// Relation classifies the temporal relation of e against other using
// interval algebra. Extents without an end time are treated as points
// in time. RelationNone is returned when either extent has no start.
func (e TemporalExtent) Relation(other TemporalExtent) Relation {
	if !e.HasStart || !other.HasStart {
		return RelationNone
	}

	startA, endA := e.bounds()
	startB, endB := other.bounds()

	// Both extents are single points in time
	if !e.HasEnd && !other.HasEnd {
		switch {
		case startA == startB:
			return RelationEqual
		case startA > startB:
			return RelationAfter
		default:
			return RelationBefore
		}
	}

	// A is a single point in time
	if !e.HasEnd {
		switch {
		case startA == startB:
			return RelationStarts
		case startA == endB:
			return RelationFinishes
		case startA > startB && startA < endB:
			return RelationDuring
		case startA > endB:
			return RelationAfter
		default:
			return RelationBefore
		}
	}

	// B is a single point in time
	if !other.HasEnd {
		switch {
		case startA == startB:
			return RelationStarted
		case endA == startB:
			return RelationFinished
		case startB > startA && startB < endA:
			return RelationContains
		case startB > endA:
			return RelationBefore
		default:
			return RelationAfter
		}
	}

	// Both extents are intervals
	switch {
	case startA == startB && endA == endB:
		return RelationEqual
	case startA == endB:
		return RelationFollows
	case endA == startB:
		return RelationPrecedes
	case startA >= startB && endA <= endB:
		if startA == startB {
			return RelationStarts
		}
		if endA == endB {
			return RelationFinishes
		}
		return RelationDuring
	case startA <= startB && endA >= endB:
		if startA == startB {
			return RelationStarted
		}
		if endA == endB {
			return RelationFinished
		}
		return RelationContains
	case startA < startB && endA > startB && endA < endB:
		return RelationOverlaps
	case startA > startB && startA < endB && endA > endB:
		return RelationOverlapped
	case startA > endB:
		return RelationAfter
	default:
		return RelationBefore
	}
}

// effectiveEnd returns the end bound on the comparison axis together
// with the concrete time values to copy, falling back to the start for
// extents without an end.
func (e TemporalExtent) effectiveEnd() (bound int64, abs time.Time, rel int64) {
	if e.HasEnd {
		_, end := e.bounds()
		return end, e.End, e.RelEnd
	}
	start, _ := e.bounds()
	return start, e.Start, e.RelStart
}

// Union returns the smallest extent covering both e and other. Both
// extents must share the temporal type; points are treated as
// zero-length intervals.
func (e TemporalExtent) Union(other TemporalExtent) TemporalExtent {
	out := e
	startA, _ := e.bounds()
	startB, _ := other.bounds()
	if startB < startA {
		out.Start, out.RelStart = other.Start, other.RelStart
	}

	endA, absA, relA := e.effectiveEnd()
	endB, absB, relB := other.effectiveEnd()
	if endB > endA {
		out.End, out.RelEnd = absB, relB
	} else {
		out.End, out.RelEnd = absA, relA
	}
	out.HasEnd = e.HasEnd || other.HasEnd
	if !out.HasEnd {
		out.End, out.RelEnd = time.Time{}, 0
	}
	return out
}

// Intersect returns the overlap of e and other and whether any shared
// instant exists. Points are treated as zero-length intervals; a
// shared boundary instant yields a point extent.
func (e TemporalExtent) Intersect(other TemporalExtent) (TemporalExtent, bool) {
	startA, _ := e.bounds()
	startB, _ := other.bounds()
	endA, absA, relA := e.effectiveEnd()
	endB, absB, relB := other.effectiveEnd()

	if startA > endB || startB > endA {
		return TemporalExtent{}, false
	}

	out := e
	if startB > startA {
		out.Start, out.RelStart = other.Start, other.RelStart
	}
	if endB < endA {
		out.End, out.RelEnd = absB, relB
	} else {
		out.End, out.RelEnd = absA, relA
	}
	out.HasEnd = true

	start, end := out.bounds()
	if end <= start {
		out.End, out.RelEnd = time.Time{}, 0
		out.HasEnd = false
	}
	return out, true
}

// SpatialExtent is an axis-aligned bounding volume. Two-dimensional
// maps carry Bottom == Top == 0.
type SpatialExtent struct {
	West   float64
	East   float64
	South  float64
	North  float64
	Bottom float64
	Top    float64
}

// Union expands the extent to cover other, tracking minima and maxima
// independently per axis.
func (s SpatialExtent) Union(other SpatialExtent) SpatialExtent {
	out := s
	if other.West < out.West {
		out.West = other.West
	}
	if other.East > out.East {
		out.East = other.East
	}
	if other.South < out.South {
		out.South = other.South
	}
	if other.North > out.North {
		out.North = other.North
	}
	if other.Bottom < out.Bottom {
		out.Bottom = other.Bottom
	}
	if other.Top > out.Top {
		out.Top = other.Top
	}
	return out
}

// Overlaps reports whether the two bounding volumes share any area.
// Boundary contact counts as overlap so that flat 2D extents compare
// meaningfully on the vertical axis.
func (s SpatialExtent) Overlaps(other SpatialExtent) bool {
	if s.West > other.East || other.West > s.East {
		return false
	}
	if s.South > other.North || other.South > s.North {
		return false
	}
	if s.Bottom > other.Top || other.Bottom > s.Top {
		return false
	}
	return true
}
