package model

import "time"

// DateFormat is the layout used for dates in ledger files and config.
const DateFormat = "2006-01-02"

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// Truncate drops the time-of-day part of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DaysBetween counts calendar days from start to end. Negative when end is before start.
func DaysBetween(start, end time.Time) int {
	return int(Truncate(end).Sub(Truncate(start)).Hours() / 24)
}

// MonthsBetween counts whole calendar months from start to end.
// Jan 31 -> Feb 28 is zero months; Jan 15 -> Jun 15 is five.
func MonthsBetween(start, end time.Time) int {
	s, e := Truncate(start), Truncate(end)
	if !e.After(s) {
		return 0
	}
	months := (e.Year()-s.Year())*12 + int(e.Month()) - int(s.Month())
	if e.Day() < s.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
