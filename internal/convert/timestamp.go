package convert

import (
	"regexp"
	"strconv"
	"time"
)

// TimestampLayout is the human-readable form used on both sides of the conversion.
const TimestampLayout = "2006-01-02 15:04:05"

var epochPattern = regexp.MustCompile(`^[0-9]+$`)

// ConvertTimestamp turns epoch seconds into a local date-time and a local date-time
// back into epoch seconds. A nil loc means time.Local.
func ConvertTimestamp(text string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	if epochPattern.MatchString(text) {
		return FromUnix(text, loc)
	}
	return ToUnix(text, loc)
}

// FromUnix formats epoch seconds as TimestampLayout in loc.
func FromUnix(text string, loc *time.Location) (string, error) {
	secs, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return "", &FormatError{Op: "from_unix", Err: err}
	}
	return time.Unix(secs, 0).In(loc).Format(TimestampLayout), nil
}

// ToUnix parses TimestampLayout in loc and returns epoch seconds.
func ToUnix(text string, loc *time.Location) (string, error) {
	t, err := time.ParseInLocation(TimestampLayout, text, loc)
	if err != nil {
		return "", &FormatError{Op: "to_unix", Err: err}
	}
	return strconv.FormatInt(t.Unix(), 10), nil
}

// Now formats the clock's current time as TimestampLayout in loc.
func Now(clock func() time.Time, loc *time.Location) string {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return clock().In(loc).Format(TimestampLayout)
}
