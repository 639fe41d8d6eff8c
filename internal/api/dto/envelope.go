package dto

import (
	"encoding/json"
	"strings"
	"time"
)

// Envelope is the `{success, error, message}` wrapper the ticket API puts around payloads.
// Endpoints that omit `success` are treated as successful when the HTTP status is 2xx.
type Envelope struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Failed reports an explicit `success: false`.
func (e Envelope) Failed() bool {
	return e.Success != nil && !*e.Success
}

// Reason picks the most descriptive failure text.
func (e Envelope) Reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// timeLayouts covers the formats the ticket API emits: isoformat() with and
// without fraction or zone, the "%Y-%m-%d %H:%M" list format and the HTTP date
// format of jsonify.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FlexTime decodes any of the API timestamp formats. Zone-less values are UTC.
// A value in no known format leaves the zero time and is kept in Unparsed.
type FlexTime struct {
	time.Time
	Unparsed string
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// null or a non-string leaves the zero time.
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	t.Unparsed = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
