package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
)

// SafeParseJSON recovers a JSON value from raw model output. Models
// routinely wrap their JSON in prose ("Here is the JSON:") or markdown
// fences, so a strict parse of the whole string is tried first, then
// the first greedy {...} span, then the first greedy [...] span.
//
// Returns (nil, nil) when no candidate span exists at all, and an
// error when an extracted span is still malformed. Callers must treat
// both as total failure and surface a "Failed to parse" error — never
// a silent default.
//
// Known limitation: the greedy match over-extracts when brace or
// bracket characters appear inside string literals (e.g. a hook like
// "use {curly} braces" followed by trailing prose). This reproduces
// the extraction outcomes the dashboard's test corpus was built
// against, so it stays.
func SafeParseJSON(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v, nil
	}

	span := objectPattern.FindString(raw)
	if span == "" {
		span = arrayPattern.FindString(raw)
	}
	if span == "" {
		return nil, nil
	}

	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, fmt.Errorf("parse extracted span: %w", err)
	}
	return v, nil
}
