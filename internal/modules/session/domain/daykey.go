package domain

import "time"

// DayKey maps t to its calendar-day bucket: the instant of midnight in t's
// location, as epoch milliseconds. Two sessions share a bucket iff their
// start instants fall on the same local calendar date.
func DayKey(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).UnixMilli()
}

// ShiftDay moves key by delta calendar days in loc. It re-derives through the
// civil date instead of adding 86,400,000 ms, so DST transition days and
// month/year boundaries shift correctly.
func ShiftDay(key int64, delta int, loc *time.Location) int64 {
	t := time.UnixMilli(key).In(loc)
	return DayKey(t.AddDate(0, 0, delta))
}

// SameDay reports whether the instant at ms falls in the bucket identified by
// key, evaluated in loc.
func SameDay(key, ms int64, loc *time.Location) bool {
	return DayKey(time.UnixMilli(ms).In(loc)) == key
}
