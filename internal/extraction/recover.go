// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"encoding/json"
)

// RawKey holds the untouched model output when no JSON could be
// recovered from it.
const RawKey = "_raw"

// RecoverJSON turns model output into a map, degrading gracefully:
// parse the whole text, else parse the first balanced JSON value inside
// it, else wrap the text under RawKey. It never fails; malformed output
// is preserved rather than dropped.
func RecoverJSON(text string) map[string]any {
	if m, ok := parseValue(text); ok {
		return m
	}
	if sub := firstBalanced(text); sub != "" {
		if m, ok := parseValue(sub); ok {
			return m
		}
	}
	return map[string]any{RawKey: text}
}

// parseValue unmarshals a JSON object into a map. A top-level array is
// wrapped under "items" so callers always see a map.
func parseValue(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, true
	}

	var arr []any
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return map[string]any{"items": arr}, true
	}
	return nil, false
}

// firstBalanced extracts the first balanced {...} or [...] region,
// ignoring brackets inside string literals. Empty when none closes.
func firstBalanced(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '{', '[':
			if start < 0 {
				start = i
			}
			depth++
		case '}', ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return ""
}
