package video

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Timestamp represents a media position in HH:MM:SS[.fraction] form
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds float64
}

// timestampRegex matches HH:MM:SS with an optional fractional part.
// ffmpeg may print more than two hour digits for long inputs.
var timestampRegex = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2}(?:\.\d+)?)$`)

// ParseTimestamp parses a timestamp string in HH:MM:SS[.fraction] format
func ParseTimestamp(s string) (Timestamp, error) {
	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp format %q: expected HH:MM:SS", s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.ParseFloat(matches[3], 64)

	if minutes > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: minutes must be 0-59", s)
	}
	if seconds >= 60 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: seconds must be 0-59", s)
	}

	return Timestamp{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
	}, nil
}

// ParseOffset accepts either plain seconds ("90", "12.5") or a timestamp
// ("00:01:30.5") and returns the offset in seconds.
func ParseOffset(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("offset is required")
	}
	if strings.Contains(s, ":") {
		ts, err := ParseTimestamp(s)
		if err != nil {
			return 0, err
		}
		return ts.TotalSeconds(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid offset %q: expected seconds or HH:MM:SS", s)
	}
	return v, nil
}

// FromSeconds converts a non-negative number of seconds into a Timestamp
func FromSeconds(total float64) Timestamp {
	if total < 0 {
		total = 0
	}
	whole := int(total)
	return Timestamp{
		Hours:   whole / 3600,
		Minutes: (whole % 3600) / 60,
		Seconds: total - float64(whole/60*60),
	}
}

// FormatSeconds renders seconds in the shortest literal form, so 12.5
// becomes "12.5" and 3 becomes "3". This is the form handed to ffmpeg.
func FormatSeconds(v float64) string {
	if v == 0 {
		v = 0 // -0 would print as "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String returns the timestamp in HH:MM:SS.xx format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%05.2f", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() float64 {
	return float64(t.Hours*3600+t.Minutes*60) + t.Seconds
}

// IsZero returns true if the timestamp is 00:00:00
func (t Timestamp) IsZero() bool {
	return t.Hours == 0 && t.Minutes == 0 && t.Seconds == 0
}

// Before returns true if t is before other
func (t Timestamp) Before(other Timestamp) bool {
	return t.TotalSeconds() < other.TotalSeconds()
}

// After returns true if t is after other
func (t Timestamp) After(other Timestamp) bool {
	return t.TotalSeconds() > other.TotalSeconds()
}
