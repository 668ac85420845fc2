// Package aatime provides the archiver's time conventions: the
// per-year epoch used by event timestamps, the ISO form accepted by
// retrieval endpoints, and the absolute/relative time-spec grammar
// of the command line tools.
package aatime

import "time"

// YearStart returns 00:00:00 UTC on Jan 1 of year, the epoch that
// event seconds-into-year values are relative to.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEpoch returns the POSIX second of YearStart(year), suitable as
// a Decoder's year epoch.
func YearEpoch(year int) int64 {
	return YearStart(year).Unix()
}

// SplitYear decomposes an instant into the archive year and the
// seconds-into-year / nanoseconds pair stored in events.
func SplitYear(t time.Time) (year int, sec uint32, nano uint32) {
	t = t.UTC()
	year = t.Year()
	sec = uint32(t.Unix() - YearEpoch(year))
	nano = uint32(t.Nanosecond())
	return year, sec, nano
}

// Join converts an absolute seconds/nanoseconds pair (as produced by
// a Decoder's packed metadata) back into a UTC instant.
func Join(sec, nano uint32) time.Time {
	return time.Unix(int64(sec), int64(nano)).UTC()
}

// ISOString formats an instant the way the appliance's retrieval
// endpoints expect, eg. 2014-04-10T16:27:37.767454Z. Precision is
// microseconds.
func ISOString(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
