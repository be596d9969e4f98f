package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp wraps time.Time so records survive both encodings the stage-3
// API produces: RFC 3339 strings and epoch milliseconds. Freshness checks
// always compare the parsed time, never the raw string.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns a Timestamp for the given time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC()}
}

// MarshalJSON encodes the timestamp as an RFC 3339 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts RFC 3339 strings, epoch milliseconds, and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := parseTimeString(s)
		if perr != nil {
			return perr
		}
		t.Time = parsed
		return nil
	}

	var millis int64
	if err := json.Unmarshal(data, &millis); err == nil {
		t.Time = time.UnixMilli(millis).UTC()
		return nil
	}

	return fmt.Errorf("timestamp: cannot decode %s", data)
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	// Some API revisions stringify the epoch millis.
	if millis, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("timestamp: unrecognized time %q", s)
}

// After reports whether t is strictly newer than other.
func (t Timestamp) After(other Timestamp) bool {
	return t.Time.After(other.Time)
}

// UnixMilli returns the timestamp as epoch milliseconds, 0 when zero.
func (t Timestamp) UnixMilli() int64 {
	if t.IsZero() {
		return 0
	}
	return t.Time.UnixMilli()
}
