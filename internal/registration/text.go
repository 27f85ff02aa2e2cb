package registration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a form value that tolerates the loose JSON browsers produce:
// numbers and booleans keep their literal text, arrays of strings are
// comma-joined and null is empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = string(item)
		}
		*t = Text(JoinDays(parts))
	case '{':
		return fmt.Errorf("registration: object is not a form value")
	default:
		*t = Text(strings.TrimSpace(string(data)))
	}
	return nil
}

func (t Text) String() string { return string(t) }
