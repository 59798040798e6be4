package tgis

import (
	"strings"

	"github.com/grass-svn2git/grass/errors"
)

// SampleMethods selects which temporal relations a sampling query
// matches. The zero value matches nothing.
type SampleMethods struct {
	Start    bool // member start time lies inside the granule
	During   bool // member lies during the granule
	Overlap  bool // member partially overlaps the granule
	Contain  bool // member contains the granule
	Equal    bool // member equals the granule
	Follows  bool // member starts where the granule ends
	Precedes bool // member ends where the granule starts
}

// DefaultSampleMethods matches during, overlap, contain and equal.
func DefaultSampleMethods() SampleMethods {
	return SampleMethods{During: true, Overlap: true, Contain: true, Equal: true}
}

// ParseSampleMethods parses method names such as "start" or "during".
func ParseSampleMethods(names []string) (SampleMethods, error) {
	var m SampleMethods
	for _, name := range names {
		switch name {
		case "start":
			m.Start = true
		case "during":
			m.During = true
		case "overlap":
			m.Overlap = true
		case "contain":
			m.Contain = true
		case "equal":
			m.Equal = true
		case "follows":
			m.Follows = true
		case "precedes":
			m.Precedes = true
		default:
			return SampleMethods{}, errors.NewSyntaxError("unknown sample method %q", name)
		}
	}
	return m, nil
}

// None reports whether no method is enabled.
func (m SampleMethods) None() bool {
	return m == SampleMethods{}
}

// BuildWhere produces a SQL predicate over (start_time, end_time)
// columns selecting rows related to the granule extent by the enabled
// methods, one disjunct per method encoding the exact boundary
// arithmetic of that relation. The literal format follows the temporal
// type: quoted datetime strings for absolute time, bare integers for
// relative time. An empty string is returned when no method is
// enabled, meaning "no predicate, match nothing".
func BuildWhere(granule TemporalExtent, m SampleMethods) string {
	if m.None() {
		return ""
	}

	start := literal(granule, false)
	end := literal(granule, true)

	var clauses []string

	if m.Start {
		clauses = append(clauses,
			"(start_time >= "+start+" and start_time < "+end+")")
	}
	if m.During {
		clauses = append(clauses,
			"((start_time > "+start+" and end_time < "+end+") OR "+
				"(start_time >= "+start+" and end_time < "+end+") OR "+
				"(start_time > "+start+" and end_time <= "+end+"))")
	}
	if m.Overlap {
		clauses = append(clauses,
			"((start_time < "+start+" and end_time > "+start+" and end_time < "+end+") OR "+
				"(start_time < "+end+" and start_time > "+start+" and end_time > "+end+"))")
	}
	if m.Contain {
		clauses = append(clauses,
			"((start_time < "+start+" and end_time > "+end+") OR "+
				"(start_time <= "+start+" and end_time > "+end+") OR "+
				"(start_time < "+start+" and end_time >= "+end+"))")
	}
	if m.Equal {
		clauses = append(clauses,
			"(start_time = "+start+" and end_time = "+end+")")
	}
	if m.Follows {
		clauses = append(clauses, "(start_time = "+end+")")
	}
	if m.Precedes {
		clauses = append(clauses, "(end_time = "+start+")")
	}

	return "(" + strings.Join(clauses, " OR ") + ")"
}

// literal renders a granule boundary as a SQL literal in the format
// matching the stored column type.
func literal(e TemporalExtent, end bool) string {
	s := e.StartString()
	if end {
		s = e.EndString()
	}
	if e.Type == Relative {
		return s
	}
	return "'" + s + "'"
}
