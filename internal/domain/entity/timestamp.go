package entity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// timestampLayouts are tried in order when decoding a string timestamp
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Timestamp is a server-reported time that never fails decoding.
// Unrecognised values decode to the zero time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON accepts RFC 3339 and common datetime strings or unix seconds
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	ts.Time = time.Time{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		if secs, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			ts.Time = time.Unix(secs, 0).UTC()
		} else if f, err := strconv.ParseFloat(string(data), 64); err == nil {
			whole := math.Floor(f)
			ts.Time = time.Unix(int64(whole), int64((f-whole)*float64(time.Second))).UTC()
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return nil
}
