// internal/domain/models/time.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexTime decodes the handful of date layouts the backend emits
// (full RFC 3339 timestamps, bare dates and datetime-local
// values saved straight from HTML forms).
type FlexTime struct {
	time.Time
}

var flexLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseFlexTime parses s with the first matching layout.
func ParseFlexTime(s string) (FlexTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexTime{}, nil
	}
	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FlexTime{Time: t}, nil
		}
	}
	return FlexTime{}, fmt.Errorf("unrecognized time %q", s)
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = FlexTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// InputValue formats the time for an <input type="datetime-local">.
func (t FlexTime) InputValue() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}
