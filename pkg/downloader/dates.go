package downloader

import (
	"time"

	"github.com/andrew-pyle/chronam/pkg/errors"
)

// DateFormat is the wire format for issue dates
const DateFormat = "2006-01-02"

// ParseDate converts a YYYY-MM-DD string into a time.Time. A malformed date
// is a date parse error; callers must treat it as fatal, never skip it.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return time.Time{}, errors.NewDateParse(date, err)
	}
	return t, nil
}

// InRange reports whether date falls within [start, end], inclusive on both
// bounds.
func InRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
