package tgis

// RelationIndex holds the pairwise temporal topology between two map
// lists: for each map, the related maps per relation name. It is
// ephemeral and rebuilt per operation, never persisted.
type RelationIndex struct {
	relations map[*Map]map[Relation][]*Map
}

// Related returns the maps related to m by r. The during and contains
// entries fold in starts/finishes (and started/finished) pairs, which
// are additionally recorded under their own names.
func (x *RelationIndex) Related(m *Map, r Relation) []*Map {
	if x == nil || x.relations == nil {
		return nil
	}
	return x.relations[m][r]
}

// HasRelations reports whether any relation was recorded for m.
func (x *RelationIndex) HasRelations(m *Map) bool {
	return x != nil && len(x.relations[m]) > 0
}

// Counts returns the total number of recorded pairs per relation
// across the whole index, or nil when nothing is recorded.
func (x *RelationIndex) Counts() map[Relation]int {
	if x == nil || len(x.relations) == 0 {
		return nil
	}
	counts := make(map[Relation]int)
	for _, rels := range x.relations {
		for r, others := range rels {
			counts[r] += len(others)
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}

func (x *RelationIndex) append(m *Map, r Relation, other *Map) {
	rels, ok := x.relations[m]
	if !ok {
		rels = make(map[Relation][]*Map)
		x.relations[m] = rels
	}
	for _, existing := range rels[r] {
		if existing == other {
			return
		}
	}
	rels[r] = append(rels[r], other)
}

// record stores relation r between b and a, both directions, folding
// the nested boundary relations into during/contains the way the
// topology consumers expect.
func (x *RelationIndex) record(b, a *Map, r Relation) {
	switch r {
	case RelationEqual:
		if a != b {
			x.append(b, RelationEqual, a)
			x.append(a, RelationEqual, b)
		}
	case RelationFollows:
		x.append(b, RelationFollows, a)
		x.append(a, RelationPrecedes, b)
	case RelationPrecedes:
		x.append(b, RelationPrecedes, a)
		x.append(a, RelationFollows, b)
	case RelationDuring, RelationStarts, RelationFinishes:
		x.append(b, RelationDuring, a)
		x.append(a, RelationContains, b)
		if r == RelationStarts {
			x.append(b, RelationStarts, a)
			x.append(a, RelationStarted, b)
		}
		if r == RelationFinishes {
			x.append(b, RelationFinishes, a)
			x.append(a, RelationFinished, b)
		}
	case RelationContains, RelationStarted, RelationFinished:
		x.append(b, RelationContains, a)
		x.append(a, RelationDuring, b)
		if r == RelationStarted {
			x.append(b, RelationStarted, a)
			x.append(a, RelationStarts, b)
		}
		if r == RelationFinished {
			x.append(b, RelationFinished, a)
			x.append(a, RelationFinishes, b)
		}
	case RelationOverlaps:
		x.append(b, RelationOverlaps, a)
		x.append(a, RelationOverlapped, b)
	case RelationOverlapped:
		x.append(b, RelationOverlapped, a)
		x.append(a, RelationOverlaps, b)
	}
}

// BuildTopology computes the pairwise temporal topology between listA
// and listB. Both lists must already be sorted by start time; that is
// a caller contract. When listB is nil, relations are computed within
// listA against itself. With spatial set, only pairs whose bounding
// volumes intersect are retained.
//
// The comparison is quadratic in the list sizes, which is acceptable
// for practical map collection sizes.
func BuildTopology(listA, listB []*Map, spatial bool) *RelationIndex {
	if listB == nil {
		listB = listA
	}

	index := &RelationIndex{relations: make(map[*Map]map[Relation][]*Map)}

	for _, b := range listB {
		for _, a := range listA {
			if a == b {
				continue
			}
			if spatial && !b.SpatialOverlaps(a) {
				continue
			}
			index.record(b, a, b.TemporalRelation(a))
		}
	}

	return index
}
