package tgis

import (
	"strings"

	"github.com/grass-svn2git/grass/errors"
)

// Relation names a temporal topological relation between two
// time-stamped entities, following Allen's interval algebra.
type Relation string

const (
	RelationEqual      Relation = "equal"
	RelationFollows    Relation = "follows"
	RelationPrecedes   Relation = "precedes"
	RelationDuring     Relation = "during"
	RelationContains   Relation = "contains"
	RelationOverlaps   Relation = "overlaps"
	RelationOverlapped Relation = "overlapped"
	RelationStarts     Relation = "starts"
	RelationStarted    Relation = "started"
	RelationFinishes   Relation = "finishes"
	RelationFinished   Relation = "finished"

	// After and Before classify pure chronological succession with no
	// shared instant. They are produced by the pairwise classifier and
	// consumed by gap detection, but never recorded in a RelationIndex.
	RelationAfter  Relation = "after"
	RelationBefore Relation = "before"

	// RelationNone is returned when one of the extents carries no
	// valid time and the pair cannot be classified.
	RelationNone Relation = ""
)

var complements = map[Relation]Relation{
	RelationEqual:      RelationEqual,
	RelationFollows:    RelationPrecedes,
	RelationPrecedes:   RelationFollows,
	RelationDuring:     RelationContains,
	RelationContains:   RelationDuring,
	RelationOverlaps:   RelationOverlapped,
	RelationOverlapped: RelationOverlaps,
	RelationStarts:     RelationStarted,
	RelationStarted:    RelationStarts,
	RelationFinishes:   RelationFinished,
	RelationFinished:   RelationFinishes,
	RelationAfter:      RelationBefore,
	RelationBefore:     RelationAfter,
}

// Complement returns the inverse relation: if relation(a, b) == r then
// relation(b, a) == r.Complement().
func (r Relation) Complement() Relation {
	return complements[r]
}

// Valid reports whether r is a recognized relation name.
func (r Relation) Valid() bool {
	_, ok := complements[r]
	return ok
}

// ParseRelations parses a pipe-separated relation list such as
// "equal|during|overlaps". An unrecognized name is a usage error.
func ParseRelations(s string) ([]Relation, error) {
	parts := strings.Split(s, "|")
	relations := make([]Relation, 0, len(parts))
	for _, part := range parts {
		r := Relation(strings.TrimSpace(part))
		if !r.Valid() {
			return nil, errors.NewSyntaxError("unknown temporal relation %q", part)
		}
		relations = append(relations, r)
	}
	return relations, nil
}
