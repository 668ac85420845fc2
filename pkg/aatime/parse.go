package aatime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spec is a parsed time specification: either an absolute instant or
// an offset to be resolved against some reference instant.
type Spec struct {
	abs time.Time
	off time.Duration
	rel bool
}

// Relative reports whether the spec is an offset rather than an
// absolute instant.
func (s Spec) Relative() bool { return s.rel }

// Offset returns the offset of a relative spec. Zero for absolute
// specs.
func (s Spec) Offset() time.Duration { return s.off }

// Resolve returns the instant the spec denotes, anchoring relative
// specs at ref.
func (s Spec) Resolve(ref time.Time) time.Time {
	if s.rel {
		return ref.Add(s.off).UTC()
	}
	return s.abs
}

var (
	// [[Y sep]M sep D ]H:M[:S[.frac]][Z], with / or - as the date
	// separator. Missing date components are taken from the reference
	// instant.
	absSlashRE = regexp.MustCompile(`^(?:(?:(\d+)/)?(\d+)/(\d+)\s+)?(\d+):(\d+)(?::(\d+)(\.\d+)?)?\s*(z)?$`)
	absDashRE  = regexp.MustCompile(`^(?:(?:(\d+)-)?(\d+)-(\d+)[\st]+)?(\d+):(\d+)(?::(\d+)(\.\d+)?)?\s*(z)?$`)

	// tokens of a relative spec: signed decimal counts and unit words
	relTokenRE = regexp.MustCompile(`[-+]?[0-9][0-9.]*|\.[0-9]+|[a-z]+`)
)

var relUnits = map[string]time.Duration{
	"us":    time.Microsecond,
	"ms":    time.Millisecond,
	"s":     time.Second,
	"sec":   time.Second,
	"secs":  time.Second,
	"m":     time.Minute,
	"min":   time.Minute,
	"mins":  time.Minute,
	"h":     time.Hour,
	"hrs":   time.Hour,
	"hours": time.Hour,
	"d":     24 * time.Hour,
	"days":  24 * time.Hour,
	"w":     7 * 24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"weeks": 7 * 24 * time.Hour,
}

// Parse interprets a time spec string. Accepted forms:
//
//	now
//	[[Y/]M/D ]H:M[:S[.F]][Z]     absolute, also with - separators
//	-1.5 h [30 min ...]          relative offset, signed count + unit
//	1423250956[.25]              absolute POSIX seconds
//
// Absolute specs without a Z suffix are read in local time; missing
// date components are filled in from now.
func Parse(spec string, now time.Time) (Spec, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" || s == "now" {
		return Spec{abs: now.UTC()}, nil
	}

	if m := absSlashRE.FindStringSubmatch(s); m != nil {
		return parseAbsolute(m, now)
	}
	if m := absDashRE.FindStringSubmatch(s); m != nil {
		return parseAbsolute(m, now)
	}

	if tokens := relTokenRE.FindAllString(s, -1); len(tokens) >= 2 {
		return parseRelative(s, tokens)
	}

	// bare POSIX seconds
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		return Spec{abs: time.Unix(0, int64(sec*float64(time.Second))).UTC()}, nil
	}

	return Spec{}, fmt.Errorf("unrecognized time spec %q", spec)
}

func parseAbsolute(m []string, now time.Time) (Spec, error) {
	loc := time.Local
	if m[8] != "" {
		loc = time.UTC
	}
	ref := now.In(loc)

	year, month, day := ref.Year(), int(ref.Month()), ref.Day()
	if m[2] != "" {
		if m[1] != "" {
			year, _ = strconv.Atoi(m[1])
		}
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	}
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	var sec, nsec int
	if m[6] != "" {
		sec, _ = strconv.Atoi(m[6])
	}
	if m[7] != "" {
		frac, err := strconv.ParseFloat(m[7], 64)
		if err != nil {
			return Spec{}, fmt.Errorf("bad fractional seconds %q: %w", m[7], err)
		}
		nsec = int(frac * float64(time.Second))
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Spec{}, fmt.Errorf("date %d/%d out of range", month, day)
	}
	if hour > 23 || minute > 59 || sec > 60 {
		return Spec{}, fmt.Errorf("time %d:%d:%d out of range", hour, minute, sec)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, nsec, loc)
	return Spec{abs: t.UTC()}, nil
}

func parseRelative(spec string, tokens []string) (Spec, error) {
	if len(tokens)%2 != 0 {
		return Spec{}, fmt.Errorf("unpaired count/unit in %q", spec)
	}

	var off time.Duration
	for i := 0; i < len(tokens); i += 2 {
		count, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return Spec{}, fmt.Errorf("bad count %q in %q", tokens[i], spec)
		}
		unit, ok := relUnits[tokens[i+1]]
		if !ok {
			return Spec{}, fmt.Errorf("unknown unit %q in %q", tokens[i+1], spec)
		}
		off += time.Duration(count * float64(unit))
	}
	return Spec{off: off, rel: true}, nil
}

// Interval parses a start and end spec into a concrete [start, end]
// pair. Relative specs anchor against each other: if both are
// relative both anchor at now; a relative start anchors at the end; a
// non-negative relative end anchors at the start, a negative one at
// now. The pair is swapped if it comes out reversed. Empty specs mean
// now.
func Interval(start, end string, now time.Time) (time.Time, time.Time, error) {
	ss, err := Parse(start, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	es, err := Parse(end, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}

	var st, et time.Time
	switch {
	case ss.Relative() && es.Relative():
		st, et = ss.Resolve(now), es.Resolve(now)
	case ss.Relative():
		et = es.Resolve(now)
		st = ss.Resolve(et)
	case es.Relative():
		st = ss.Resolve(now)
		if es.Offset() >= 0 {
			et = es.Resolve(st)
		} else {
			et = es.Resolve(now)
		}
	default:
		st, et = ss.Resolve(now), es.Resolve(now)
	}

	if st.After(et) {
		st, et = et, st
	}
	return st, et, nil
}
