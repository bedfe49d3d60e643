package utils

import (
	"strings"
	"time"
	_ "time/tzdata" // Adelaide rendering must work without host zoneinfo
)

const (
	naiveLayout = "2006-01-02T15:04:05"
	humanLayout = "02 Jan 2006, 03:04 PM"
)

// adelaide is the fixed timezone all human-readable times are rendered in.
var adelaide = mustLoadLocation("Australia/Adelaide")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// StripOffset removes a trailing timezone suffix from an ISO-8601 datetime
// string: a trailing "Z" or a "+HH:MM" / "-HH:MM" style offset after the
// time part. A "-" in the date part is never touched. Inputs without a "T"
// are only truncated at a "+", since no offset position can be inferred.
func StripOffset(s string) string {
	t := strings.IndexByte(s, 'T')
	if t < 0 {
		if i := strings.IndexByte(s, '+'); i >= 0 {
			return s[:i]
		}
		return s
	}
	if i := strings.IndexAny(s[t+1:], "+-"); i >= 0 {
		return s[:t+1+i]
	}
	return strings.TrimSuffix(s, "Z")
}

// ToNaive converts an ISO-8601 datetime string to the space-separated form
// with no fractional seconds, e.g. "2025-09-06T10:00:00.123" becomes
// "2025-09-06 10:00:00". It is total: any input yields a string.
func ToNaive(s string) string {
	date, rest, found := strings.Cut(s, "T")
	if !found {
		if i := strings.IndexByte(s, '.'); i >= 0 {
			return s[:i]
		}
		return s
	}
	clock, _, _ := strings.Cut(rest, ".")
	return date + " " + clock
}

// FormatHuman renders an ISO-8601 timestamp as Adelaide local time in the
// form "16 Oct 2025, 11:00 AM". A trailing "Z" or explicit offset is
// honoured; a zoneless timestamp is taken to already be Adelaide time.
// Returns a DateParseError for anything else.
func FormatHuman(s string) (string, error) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		ts, err = time.ParseInLocation(naiveLayout, s, adelaide)
		if err != nil {
			return "", &DateParseError{Input: s}
		}
	}
	return ts.In(adelaide).Format(humanLayout), nil
}
