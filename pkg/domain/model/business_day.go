package model

import "time"

// Calendar does business-day arithmetic. Monday to Friday are business days,
// public holidays are not modeled. Instants are reduced to their calendar
// date in the calendar's location before counting.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc. A nil location means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the location used to determine calendar dates
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// IsBusinessDay reports whether t falls on a weekday in the calendar's location
func (c Calendar) IsBusinessDay(t time.Time) bool {
	return isWeekday(t.In(c.Location()).Weekday())
}

// BusinessDaysBetween counts the weekdays in the date range [start, end).
// When end is before start the count of [end, start) is returned negated,
// so BusinessDaysBetween(a, b) == -BusinessDaysBetween(b, a) always holds.
func (c Calendar) BusinessDaysBetween(start, end time.Time) int {
	from, to := c.civilDate(start), c.civilDate(end)
	sign := 1
	if to.Before(from) {
		from, to = to, from
		sign = -1
	}

	days := int(to.Sub(from).Hours() / 24)

	// Each full week holds exactly five weekdays; the remainder starts on
	// the same weekday as from.
	count := (days / 7) * 5
	wd := from.Weekday()
	for i := 0; i < days%7; i++ {
		if isWeekday(wd) {
			count++
		}
		wd = (wd + 1) % 7
	}

	return sign * count
}

// AddBusinessDays moves t by n business days, skipping weekends. Negative n
// moves backward. The time of day is preserved and n == 0 returns t as is.
func (c Calendar) AddBusinessDays(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}

	local := t.In(c.Location())
	for n > 0 {
		local = local.AddDate(0, 0, step)
		if isWeekday(local.Weekday()) {
			n--
		}
	}

	return local.In(t.Location())
}

// civilDate returns the calendar date of t as midnight UTC, which keeps day
// arithmetic free of DST shifts.
func (c Calendar) civilDate(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isWeekday(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}
