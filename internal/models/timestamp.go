package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Timestamp is a date-time that serializes as an RFC 3339 string and
// accepts either a string or a millisecond epoch number when decoding.
type Timestamp time.Time

// Time returns the underlying time value
func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(ts).Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := parseDateTime(s)
		if err != nil {
			return err
		}
		*ts = Timestamp(t)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp must be a string or a number: %w", err)
	}
	*ts = Timestamp(time.UnixMilli(int64(ms)))
	return nil
}

// A date-time without an offset is local time, a bare date is UTC midnight.
var dateTimeLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", false},
}

func parseDateTime(s string) (time.Time, error) {
	for _, l := range dateTimeLayouts {
		loc := time.UTC
		if l.local {
			loc = time.Local
		}
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date-time %q", s)
}

// Layouts accepted for due dates typed by a user
const (
	DueDateLayout     = "2006-01-02"
	DueDateTimeLayout = "2006-01-02 15:04"
)

// ParseDueDate reads a user-entered due date in local time. A bare date
// means the end of that day. An empty string yields nil.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(DueDateTimeLayout, s, time.Local); err == nil {
		return &t, nil
	}
	d, err := time.ParseInLocation(DueDateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("due date must look like %s or %s", DueDateLayout, DueDateTimeLayout)
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, time.Local)
	return &t, nil
}

// FormatDueDate renders a due date the way ParseDueDate reads it
func FormatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(DueDateTimeLayout)
}
