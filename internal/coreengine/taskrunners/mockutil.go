package taskrunners

import (
	"encoding/json"
	"hash/fnv"
	"regexp"
	"strings"
)

// seedFraction maps a string to a stable value in [0, 1). Built-in
// fallback runs use it so repeated runs of the same input score the
// same way.
func seedFraction(s string) float64 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return float64(h.Sum32()%1000) / 1000.0
}

// seedIndex maps a string to a stable index in [0, n).
func seedIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls the first JSON object out of a model response and
// unmarshals it into v. Models often wrap JSON in prose or code fences.
func extractJSON(content string, v interface{}) bool {
	trimmed := strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return true
	}
	match := jsonObjectPattern.FindString(trimmed)
	if match == "" {
		return false
	}
	return json.Unmarshal([]byte(match), v) == nil
}
