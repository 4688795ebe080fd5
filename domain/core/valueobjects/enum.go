package valueobjects

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseEnum resolves either a 1-based ordinal or a case-insensitive name.
func parseEnum(s string, names []string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(names) {
			return 0, fmt.Errorf("value %d out of range 1..%d", n, len(names))
		}
		return n, nil
	}
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}

// unmarshalEnum accepts a JSON number or a JSON string.
func unmarshalEnum(data []byte, names []string) (int, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		return parseEnum(s, names)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, err
	}
	if n < 1 || n > len(names) {
		return 0, fmt.Errorf("value %d out of range 1..%d", n, len(names))
	}
	return n, nil
}
