package tgis

// ComputeGranularity derives the finest common temporal resolution of
// a sorted member list: the greatest step g such that every interval
// length and every distance between consecutive start times is a
// multiple of g. Relative time reduces to an integer GCD in the
// dataset's unit; absolute time is calendar aware, preferring year and
// month granules when every delta falls on exact calendar boundaries.
// Nil is returned when no granularity can be derived, e.g. for a
// single point-time member.
func ComputeGranularity(temporalType TemporalType, unit Unit, maps []*Map) *Granularity {
	if len(maps) == 0 {
		return nil
	}
	if temporalType == Relative {
		return relativeGranularity(unit, maps)
	}
	return absoluteGranularity(maps)
}

func relativeGranularity(unit Unit, maps []*Map) *Granularity {
	var g int64
	for i, m := range maps {
		if m.Extent.HasEnd {
			g = gcd(g, m.Extent.RelEnd-m.Extent.RelStart)
		}
		if i > 0 {
			g = gcd(g, m.Extent.RelStart-maps[i-1].Extent.RelStart)
		}
	}
	if g == 0 {
		return nil
	}
	return &Granularity{Count: g, Unit: unit}
}

func absoluteGranularity(maps []*Map) *Granularity {
	var deltas []Delta

	for i, m := range maps {
		if m.Extent.HasEnd {
			deltas = append(deltas, DatetimeDelta(m.Extent.Start, m.Extent.End))
		}
		if i > 0 {
			deltas = append(deltas, DatetimeDelta(maps[i-1].Extent.Start, m.Extent.Start))
		}
	}
	if len(deltas) == 0 {
		return nil
	}

	// Calendar path: usable only when every delta is a whole number of
	// months. Otherwise fall back to exact second arithmetic.
	months := int64(0)
	calendar := true
	for _, d := range deltas {
		if !d.WholeMonths {
			calendar = false
			break
		}
		months = gcd(months, d.Months)
	}
	if calendar && months > 0 {
		if months%12 == 0 {
			return &Granularity{Count: months / 12, Unit: UnitYears}
		}
		return &Granularity{Count: months, Unit: UnitMonths}
	}

	seconds := int64(0)
	for _, d := range deltas {
		seconds = gcd(seconds, d.Seconds)
	}
	if seconds == 0 {
		return nil
	}
	switch {
	case seconds%86400 == 0:
		return &Granularity{Count: seconds / 86400, Unit: UnitDays}
	case seconds%3600 == 0:
		return &Granularity{Count: seconds / 3600, Unit: UnitHours}
	case seconds%60 == 0:
		return &Granularity{Count: seconds / 60, Unit: UnitMinutes}
	}
	return &Granularity{Count: seconds, Unit: UnitSeconds}
}
