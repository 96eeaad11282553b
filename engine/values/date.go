package values

import (
	"fmt"
	"strconv"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar date without time of day
type Date struct {
	t time.Time
}

// NewDate builds a date, rejecting values that are not on the calendar
// (month 13, February 30, year 0).
func NewDate(year, month, day int) (Date, error) {
	if year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("year %d out of range", year)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("%04d-%02d-%02d is not a calendar date", year, month, day)
	}
	return Date{t: t}, nil
}

// ParseDate parses YYYY-MM-DD; '/' and '\' are accepted as separators
func ParseDate(s string) (Date, bool) {
	return parseDate(s)
}

func parseDate(s string) (Date, bool) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return Date{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	d, err := NewDate(year, month, day)
	if err != nil {
		return Date{}, false
	}
	return d, true
}

func (d Date) Year() int  { return d.t.Year() }
func (d Date) Month() int { return int(d.t.Month()) }
func (d Date) Day() int   { return d.t.Day() }

// Weekday returns the day of week with Monday as 0 and Sunday as 6
func (d Date) Weekday() int {
	return (int(d.t.Weekday()) + 6) % 7
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the date n days later (earlier for negative n)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Sub returns the number of days from o to d
func (d Date) Sub(o Date) int {
	return int((d.t.Unix() - o.t.Unix()) / secondsPerDay)
}

// Compare returns -1, 0 or 1 as d is before, equal to, or after o
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}
