package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// SortDate is a calendar date used for chronological filtering. It supports
// negative (BCE) years of up to five digits, which rules out time.Time as
// the carrier for comparisons.
type SortDate struct {
	Year  int
	Month int
	Day   int
}

// reSortDate matches yyyy, yyyy-mm and yyyy-mm-dd with an optional sign.
var reSortDate = regexp.MustCompile(`^(-?\d{1,5})(?:-([01]?\d))?(?:-([0-3]?\d))?$`)

// parseSortDate interprets an incomplete date string. Missing parts are
// filled toward the start of the period when lower is true (terminus post
// quem) and toward its end otherwise (terminus ante quem).
func parseSortDate(s string, lower bool) (SortDate, error) {
	m := reSortDate.FindStringSubmatch(s)
	if m == nil {
		return SortDate{}, fmt.Errorf("%q is not a valid date", s)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return SortDate{}, fmt.Errorf("%q is not a valid date", s)
	}
	d := SortDate{Year: year}
	if m[2] != "" {
		d.Month, _ = strconv.Atoi(m[2])
	} else if lower {
		d.Month = 1
	} else {
		d.Month = 12
	}
	if m[3] != "" {
		d.Day, _ = strconv.Atoi(m[3])
	} else if lower {
		d.Day = 1
	} else {
		d.Day = daysInMonth(d.Year, d.Month)
	}
	return d, nil
}

// ParseLowerBound parses a date for use as an inclusive lower bound.
func ParseLowerBound(s string) (SortDate, error) {
	return parseSortDate(s, true)
}

// ParseUpperBound parses a date for use as an inclusive upper bound.
func ParseUpperBound(s string) (SortDate, error) {
	return parseSortDate(s, false)
}

// Key collapses the date into a single integer preserving chronological
// order across negative years: year*10000 + month*100 + day.
func (d SortDate) Key() int {
	return d.Year*10000 + d.Month*100 + d.Day
}

// daysInMonth returns the number of days in the given month. The zero day
// of the following month is the last day of this one; the time package
// handles proleptic negative years.
func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SortKey parses a stored sortDate value and returns its comparison key.
// The second return is false for empty or unparsable values, which never
// match a date filter.
func SortKey(sortDate string, lower bool) (int, bool) {
	if sortDate == "" {
		return 0, false
	}
	d, err := parseSortDate(sortDate, lower)
	if err != nil {
		return 0, false
	}
	return d.Key(), true
}
