// File: internal/llmutil/parser.go
package llmutil

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// Regex definitions use \x60 (hex representation) for backticks because Go raw strings cannot contain backticks.

	// jsonObjectRegex extracts a JSON object when the response is wrapped in markdown.
	jsonObjectRegex = regexp.MustCompile("(?s)\x60\x60\x60(?:json)?\\s*({.*})\\s*\x60\x60\x60")
	// jsonArrayRegex extracts a JSON array when the response is wrapped in markdown.
	jsonArrayRegex = regexp.MustCompile("(?s)\x60\x60\x60(?:json)?\\s*(\\[.*\\])\\s*\x60\x60\x60")
)

// ParseJSONResponse parses an LLM response string into a target Go type.
// It tolerates the usual LLM formatting quirks: markdown code fences and
// conversational text surrounding the JSON payload.
func ParseJSONResponse[T any](response string) (*T, error) {
	response = strings.TrimSpace(response)
	payload := response

	hasObject := strings.Contains(response, "{")
	hasArray := strings.Contains(response, "[")

	if strings.HasPrefix(response, "```") {
		// Markdown-fenced payload, the most common case.
		var matches []string
		if hasObject {
			matches = jsonObjectRegex.FindStringSubmatch(response)
		}
		if len(matches) <= 1 && hasArray {
			matches = jsonArrayRegex.FindStringSubmatch(response)
		}
		if len(matches) > 1 {
			payload = matches[1]
		}
	} else if !strings.HasPrefix(response, "{") && !strings.HasPrefix(response, "[") {
		// The structure is buried in surrounding prose; take the widest span.
		if extracted, ok := extractSpan(response, "{", "}"); ok {
			payload = extracted
		} else if extracted, ok := extractSpan(response, "[", "]"); ok {
			payload = extracted
		}
	}

	var result T
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal LLM JSON response: %w (extracted: %s)",
			err, truncate(payload, 300))
	}
	return &result, nil
}

// extractSpan returns the substring from the first open delimiter to the last
// close delimiter, if both exist in order.
func extractSpan(s, open, close string) (string, bool) {
	first := strings.Index(s, open)
	last := strings.LastIndex(s, close)
	if first == -1 || last == -1 || last <= first {
		return "", false
	}
	return s[first : last+1], true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
