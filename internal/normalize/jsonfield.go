package normalize

// jsonfield.go decodes the free-form "JSON-ish" columns some extracts
// carry (priority_claims and similar). Strict JSON is preferred; when that
// fails, a best-effort key:value scrape recovers what it can. The scrape
// is inherently lossy, so results carry a confidence flag and stay
// isolated here.

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var kvPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]+)":\s*"([^"]*)"`),
	regexp.MustCompile(`(\w+):\s*"([^"]*)"`),
	regexp.MustCompile(`(\w+):\s*([^,}"]+)`),
}

// ParseJSONField decodes a JSON-like string field into a flat string map.
// confident is true only when the value parsed as strict JSON; the
// fallback scrape returns whatever key:value pairs it can find with
// confident=false. Empty input returns an empty map.
func ParseJSONField(v string) (fields map[string]string, confident bool) {
	fields = map[string]string{}

	cleaned := CleanString(v)
	if cleaned == "" {
		return fields, false
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err == nil {
		for k, val := range decoded {
			fields[k] = stringifyJSONValue(val)
		}
		return fields, true
	}

	for _, pattern := range kvPatterns {
		for _, m := range pattern.FindAllStringSubmatch(cleaned, -1) {
			key := strings.TrimSpace(m[1])
			if _, exists := fields[key]; !exists {
				fields[key] = strings.TrimSpace(m[2])
			}
		}
	}
	return fields, false
}

func stringifyJSONValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64; render integers without decimals.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
