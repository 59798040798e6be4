package tgis

import (
	"context"

	"github.com/grass-svn2git/grass/errors"
)

// Granule pairs one step of a sampling walk with the member maps that
// fall into it. Samples never is empty: a step without any matching
// member yields one synthetic placeholder carrying the granule's
// extent.
type Granule struct {
	Granule *Map
	Samples []*Map
}

// MapsWithGaps returns the dataset's members ordered by start time,
// with a synthetic gap entry spliced in wherever a temporal hole
// exists between consecutive members. Gaps carry no identity. The
// optional where predicate restricts the member selection.
func (r *Registry) MapsWithGaps(ctx context.Context, d *Dataset, where string) ([]*Map, error) {
	maps, err := r.RegisteredMaps(ctx, d, where, "start_time")
	if err != nil {
		return nil, err
	}

	out := make([]*Map, 0, len(maps))
	for i, m := range maps {
		out = append(out, m)
		if i == len(maps)-1 {
			break
		}
		if maps[i+1].TemporalRelation(m) != RelationAfter {
			continue
		}

		// A hole exists: the gap runs from this member's end (or its
		// start for point data) to the next member's start.
		gapExtent := m.Extent
		gapExtent.HasEnd = true
		if m.Extent.HasEnd {
			gapExtent.Start, gapExtent.RelStart = m.Extent.End, m.Extent.RelEnd
		}
		next := maps[i+1].Extent
		gapExtent.End, gapExtent.RelEnd = next.Start, next.RelStart
		out = append(out, NewGap(d.Kind, gapExtent))
	}
	return out, nil
}

// CountGaps returns the number of temporal holes between consecutive
// members of d, restricted by the optional where predicate.
func (r *Registry) CountGaps(ctx context.Context, d *Dataset, where string) (int, error) {
	maps, err := r.MapsWithGaps(ctx, d, where)
	if err != nil {
		return 0, err
	}
	gaps := 0
	for _, m := range maps {
		if m.IsGap() {
			gaps++
		}
	}
	return gaps, nil
}

// MapsByGranularity walks the dataset's full temporal extent in fixed
// granularity steps and returns, per step, the members overlapping it.
// The dataset must classify as interval time; gaps appear as steps
// holding a single synthetic entry. A step holding more than one
// member signals a granularity finer than the chosen step and is
// reported as a warning, not an error.
func (r *Registry) MapsByGranularity(ctx context.Context, d *Dataset, gran *Granularity) ([][]*Map, error) {
	if d.MapTime == MapTimePoint || d.MapTime == MapTimeMixed {
		return nil, errors.Wrapf(errors.ErrInvalidGranularity,
			"space time %s dataset <%s> must have interval time", d.Kind, d.ID())
	}
	if gran == nil {
		gran = d.Granularity
	}
	if gran == nil || gran.Count == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidGranularity,
			"space time %s dataset <%s> has no granularity", d.Kind, d.ID())
	}
	if !d.Extent.HasStart || !d.Extent.HasEnd {
		return nil, nil
	}

	var out [][]*Map

	step := d.Extent
	step.HasEnd = true
	for {
		if d.TemporalType == Absolute {
			if !step.Start.Before(d.Extent.End) {
				break
			}
			step.End = gran.Next(step.Start)
		} else {
			if step.RelStart >= d.Extent.RelEnd {
				break
			}
			step.RelEnd = step.RelStart + gran.Count
		}

		where := "(start_time <= " + literal(step, false) +
			" and end_time >= " + literal(step, true) + ")"
		members, err := r.RegisteredMaps(ctx, d, where, "start_time")
		if err != nil {
			return nil, err
		}

		granule := make([]*Map, 0, len(members))
		if len(members) > 0 {
			if len(members) > 1 {
				r.log.Warnw("more than one map found in a granule, "+
					"granularity is not a common divider of all intervals and gaps",
					"dataset", d.ID(), "granule_start", step.StartString())
			}
			for _, m := range members {
				clone := m.Clone()
				clone.Extent = step
				granule = append(granule, clone)
			}
		} else {
			granule = append(granule, NewGap(d.Kind, step))
		}
		out = append(out, granule)

		if d.TemporalType == Absolute {
			step.Start = step.End
		} else {
			step.RelStart = step.RelEnd
		}
	}
	return out, nil
}

// SampleByDataset samples the members of d by the granule structure of
// the sampler dataset: for every granule of sampler (including its
// gaps), the members of d related to the granule by the enabled
// methods are selected through a SQL predicate, optionally restricted
// to spatially overlapping pairs. Point-time members force the start
// method since interval relations are undefined for them. Both
// datasets must share the temporal type and sampler must classify as
// interval time.
func (r *Registry) SampleByDataset(ctx context.Context, d, sampler *Dataset, methods SampleMethods, spatial bool) ([]Granule, error) {
	if d.TemporalType != sampler.TemporalType {
		return nil, errors.Wrapf(errors.ErrTemporalTypeMismatch,
			"datasets <%s> and <%s> must share the temporal type", d.ID(), sampler.ID())
	}
	if sampler.MapTime != MapTimeInterval {
		return nil, errors.Wrapf(errors.ErrInvalidGranularity,
			"temporal map type of sample dataset <%s> must be interval", sampler.ID())
	}
	if methods.None() {
		methods = DefaultSampleMethods()
	}
	if d.MapTime == MapTimePoint {
		methods = SampleMethods{Start: true}
	}

	granules, err := r.MapsWithGaps(ctx, sampler, "")
	if err != nil {
		return nil, err
	}

	out := make([]Granule, 0, len(granules))
	for _, granule := range granules {
		where := BuildWhere(granule.Extent, methods)

		var samples []*Map
		if where != "" {
			members, err := r.RegisteredMaps(ctx, d, where, "start_time")
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				if spatial && !granule.SpatialOverlaps(m) {
					continue
				}
				samples = append(samples, m.Clone())
			}
		}

		// Keep every granule aligned downstream: an empty match yields
		// one placeholder carrying the granule's own extent.
		if len(samples) == 0 {
			samples = append(samples, NewGap(d.Kind, granule.Extent))
		}

		out = append(out, Granule{Granule: granule, Samples: samples})
	}
	return out, nil
}
