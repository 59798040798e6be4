package tgis

import (
	"testing"
)

func intervalMap(id, start, end string) *Map {
	m := NewMap(id, "test", 0, KindRaster)
	m.Extent = absInterval(start, end)
	return m
}

func relIntervalMap(id string, start, end int64, unit Unit) *Map {
	m := NewMap(id, "test", 0, KindRaster)
	m.Extent = NewRelativeInterval(start, end, unit)
	return m
}

func TestComputeGranularityMonths(t *testing.T) {
	maps := []*Map{
		intervalMap("a", "2001-01-01", "2001-02-01"),
		intervalMap("b", "2001-02-01", "2001-03-01"),
		intervalMap("c", "2001-03-01", "2001-04-01"),
	}
	g := ComputeGranularity(Absolute, "", maps)
	if g == nil || g.Count != 1 || g.Unit != UnitMonths {
		t.Fatalf("ComputeGranularity() = %v, want 1 months", g)
	}
}

func TestComputeGranularityYears(t *testing.T) {
	maps := []*Map{
		intervalMap("a", "2000-01-01", "2002-01-01"),
		intervalMap("b", "2002-01-01", "2004-01-01"),
	}
	g := ComputeGranularity(Absolute, "", maps)
	if g == nil || g.Count != 2 || g.Unit != UnitYears {
		t.Fatalf("ComputeGranularity() = %v, want 2 years", g)
	}
}

func TestComputeGranularityDays(t *testing.T) {
	maps := []*Map{
		intervalMap("a", "2001-01-01", "2001-01-04"),
		intervalMap("b", "2001-01-04", "2001-01-07"),
		intervalMap("c", "2001-01-10", "2001-01-13"),
	}
	g := ComputeGranularity(Absolute, "", maps)
	if g == nil || g.Count != 3 || g.Unit != UnitDays {
		t.Fatalf("ComputeGranularity() = %v, want 3 days", g)
	}
}

// Month-spaced and day-spaced deltas cannot share a calendar granule,
// the result degrades to exact day arithmetic.
func TestComputeGranularityMixedFallsBack(t *testing.T) {
	maps := []*Map{
		intervalMap("a", "2001-01-01", "2001-02-01"),
		intervalMap("b", "2001-02-04", "2001-03-04"),
	}
	g := ComputeGranularity(Absolute, "", maps)
	if g == nil || g.Unit != UnitDays {
		t.Fatalf("ComputeGranularity() = %v, want a day granule", g)
	}
}

func TestComputeGranularityHours(t *testing.T) {
	maps := []*Map{
		intervalMap("a", "2001-01-01 00:00:00", "2001-01-01 06:00:00"),
		intervalMap("b", "2001-01-01 06:00:00", "2001-01-01 12:00:00"),
	}
	g := ComputeGranularity(Absolute, "", maps)
	if g == nil || g.Count != 6 || g.Unit != UnitHours {
		t.Fatalf("ComputeGranularity() = %v, want 6 hours", g)
	}
}

func TestComputeGranularityRelativeGCD(t *testing.T) {
	maps := []*Map{
		relIntervalMap("a", 0, 4, UnitDays),
		relIntervalMap("b", 6, 8, UnitDays),
	}
	g := ComputeGranularity(Relative, UnitDays, maps)
	if g == nil || g.Count != 2 || g.Unit != UnitDays {
		t.Fatalf("ComputeGranularity() = %v, want 2 days", g)
	}
}

func TestComputeGranularitySinglePoint(t *testing.T) {
	m := NewMap("a", "test", 0, KindRaster)
	m.Extent = NewAbsolutePoint(date("2001-01-01"))
	if g := ComputeGranularity(Absolute, "", []*Map{m}); g != nil {
		t.Fatalf("ComputeGranularity() = %v, want nil for a single point", g)
	}
}

func TestGranularityString(t *testing.T) {
	tests := []struct {
		g    Granularity
		want string
	}{
		{Granularity{Count: 1, Unit: UnitMonths}, "1 months"},
		{Granularity{Count: 30, Unit: UnitSeconds}, "30 seconds"},
		{Granularity{Count: 7}, "7"},
	}
	for _, tt := range tests {
		if got := tt.g.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("3 months")
	if err != nil {
		t.Fatalf("ParseGranularity() error: %v", err)
	}
	if g.Count != 3 || g.Unit != UnitMonths {
		t.Errorf("ParseGranularity() = %v", g)
	}

	g, err = ParseGranularity("5")
	if err != nil {
		t.Fatalf("ParseGranularity() error: %v", err)
	}
	if g.Count != 5 || g.Unit != "" {
		t.Errorf("ParseGranularity() = %v", g)
	}

	if _, err := ParseGranularity("many months"); err == nil {
		t.Error("expected error for invalid count")
	}
}

func TestAdjustToGranularity(t *testing.T) {
	ts, err := ParseDatetime("2001-05-17 13:45:30")
	if err != nil {
		t.Fatalf("ParseDatetime() error: %v", err)
	}

	tests := []struct {
		unit Unit
		want string
	}{
		{UnitYears, "2001-01-01 00:00:00"},
		{UnitMonths, "2001-05-01 00:00:00"},
		{UnitDays, "2001-05-17 00:00:00"},
		{UnitHours, "2001-05-17 13:00:00"},
		{UnitMinutes, "2001-05-17 13:45:00"},
		{UnitSeconds, "2001-05-17 13:45:30"},
	}
	for _, tt := range tests {
		got := AdjustToGranularity(ts, Granularity{Count: 1, Unit: tt.unit})
		if FormatDatetime(got) != tt.want {
			t.Errorf("AdjustToGranularity(%s) = %s, want %s", tt.unit, FormatDatetime(got), tt.want)
		}
	}
}

func TestDatetimeDelta(t *testing.T) {
	d := DatetimeDelta(date("2001-01-15"), date("2001-04-15"))
	if !d.WholeMonths || d.Months != 3 {
		t.Errorf("DatetimeDelta() = %+v, want 3 whole months", d)
	}

	d = DatetimeDelta(date("2001-01-01"), date("2001-01-08"))
	if d.WholeMonths {
		t.Errorf("DatetimeDelta() = %+v, a week is not a whole month", d)
	}
	if d.Seconds != 7*86400 {
		t.Errorf("DatetimeDelta() seconds = %d, want %d", d.Seconds, 7*86400)
	}
}

func TestIncrementDatetimeCalendar(t *testing.T) {
	got := IncrementDatetime(date("2001-01-01"), 1, UnitMonths)
	if FormatDatetime(got) != "2001-02-01 00:00:00" {
		t.Errorf("IncrementDatetime() = %s", FormatDatetime(got))
	}

	got = IncrementDatetime(date("2000-12-01"), 2, UnitMonths)
	if FormatDatetime(got) != "2001-02-01 00:00:00" {
		t.Errorf("IncrementDatetime() across year = %s", FormatDatetime(got))
	}

	got = IncrementDatetime(date("2001-01-01"), 36, UnitHours)
	if FormatDatetime(got) != "2001-01-02 12:00:00" {
		t.Errorf("IncrementDatetime() hours = %s", FormatDatetime(got))
	}
}
