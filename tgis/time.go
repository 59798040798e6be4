package tgis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/grass-svn2git/grass/errors"
)

// DatetimeLayout is the storage format of absolute timestamps in the
// temporal database.
const DatetimeLayout = "2006-01-02 15:04:05"

var datetimeLayouts = []string{
	DatetimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDatetime parses an absolute timestamp in one of the accepted
// layouts, from full datetime down to a bare year.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(errors.ErrInvalidTime, "unable to parse datetime %q", s)
}

// FormatDatetime renders a timestamp in the storage layout.
func FormatDatetime(t time.Time) string {
	return t.Format(DatetimeLayout)
}

// IncrementDatetime advances t by count units, stepping the calendar
// for years and months and adding a fixed duration otherwise.
func IncrementDatetime(t time.Time, count int64, unit Unit) time.Time {
	switch unit {
	case UnitYears:
		return t.AddDate(int(count), 0, 0)
	case UnitMonths:
		return t.AddDate(0, int(count), 0)
	default:
		d, _ := unit.Duration()
		return t.Add(time.Duration(count) * d)
	}
}

// Granularity is a fixed temporal step: a count of units for absolute
// time, a bare count in the dataset's unit for relative time.
type Granularity struct {
	Count int64
	Unit  Unit
}

// String renders the granularity the way it is stored in the temporal
// database, e.g. "1 months" or "30 seconds". Relative granularities
// render as a bare integer.
func (g Granularity) String() string {
	if g.Unit == "" {
		return strconv.FormatInt(g.Count, 10)
	}
	return fmt.Sprintf("%d %s", g.Count, g.Unit)
}

// Next returns the granule start following start under this
// granularity.
func (g Granularity) Next(start time.Time) time.Time {
	return IncrementDatetime(start, g.Count, g.Unit)
}

// ParseGranularity parses "<count> <unit>" for absolute time or a bare
// integer for relative time.
func ParseGranularity(s string) (Granularity, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	switch len(fields) {
	case 1:
		count, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return Granularity{}, errors.Wrapf(errors.ErrInvalidGranularity, "unable to parse granularity %q", s)
		}
		return Granularity{Count: count}, nil
	case 2:
		count, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return Granularity{}, errors.Wrapf(errors.ErrInvalidGranularity, "unable to parse granularity %q", s)
		}
		unit, err := ParseUnit(fields[1])
		if err != nil {
			return Granularity{}, errors.Wrapf(errors.ErrInvalidGranularity, "unable to parse granularity %q", s)
		}
		return Granularity{Count: count, Unit: unit}, nil
	}
	return Granularity{}, errors.Wrapf(errors.ErrInvalidGranularity, "unable to parse granularity %q", s)
}

// AdjustToGranularity truncates t down to the boundary of the
// granularity's unit: a month granularity drops the day of month and
// the clock, a day granularity drops the clock, and so on.
func AdjustToGranularity(t time.Time, g Granularity) time.Time {
	switch g.Unit {
	case UnitYears:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	case UnitMonths:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case UnitDays:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case UnitHours:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case UnitMinutes:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, t.Location())
	}
}

// Delta is the distance between two absolute timestamps, carried both
// as a flat second count and, when the endpoints align on a calendar
// boundary, as an exact month count.
type Delta struct {
	Seconds     int64
	Months      int64
	WholeMonths bool
}

// DatetimeDelta computes the distance from start to end. The month
// count is exact only when both endpoints share the day of month and
// the time of day; granularity computation uses the calendar path in
// that case and falls back to the second count otherwise.
func DatetimeDelta(start, end time.Time) Delta {
	d := Delta{Seconds: int64(end.Sub(start) / time.Second)}
	d.Months, d.WholeMonths = wholeMonths(start, end)
	return d
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// wholeMonths reports the exact month distance between a and b when
// they fall on the same day of month and time of day, which is the
// only case where a calendar-month delta is exact.
func wholeMonths(a, b time.Time) (int64, bool) {
	if a.Day() != b.Day() {
		return 0, false
	}
	ha, ma, sa := a.Clock()
	hb, mb, sb := b.Clock()
	if ha != hb || ma != mb || sa != sb {
		return 0, false
	}
	months := int64(b.Year()-a.Year())*12 + int64(b.Month()-a.Month())
	if months < 0 {
		months = -months
	}
	return months, true
}
