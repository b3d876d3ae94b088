package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTimestamp converts a persisted or user-supplied timestamp into an instant.
// Values without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, goerr.Wrap(ErrInvalidTimestamp, "timestamp is empty")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, goerr.Wrap(ErrInvalidTimestamp, "unsupported timestamp format", goerr.V(TimestampKey, s))
}
