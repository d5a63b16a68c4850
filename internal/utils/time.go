package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// LoadLocation returns the named time zone, or UTC when the name is empty
// or unknown.
func LoadLocation(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseDay parses YYYY-MM-DD in loc and returns the Unix seconds of that
// day's midnight.
func ParseDay(s string, loc *time.Location) (int64, error) {
	t, err := time.ParseInLocation(layoutDate, strings.TrimSpace(s), loc)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// FormatDay renders a stored day timestamp as YYYY-MM-DD in loc.
func FormatDay(unix int64, loc *time.Location) string {
	return time.Unix(unix, 0).In(loc).Format(layoutDate)
}

// PrettifyDay renders a stored day timestamp the way notifications show
// it, e.g. "Mon, 02 Jan 2006".
func PrettifyDay(unix int64, loc *time.Location) string {
	return time.Unix(unix, 0).In(loc).Format("Mon, 02 Jan 2006")
}
