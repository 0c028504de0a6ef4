package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DecodeJSON extracts and parses JSON from model output that may contain
// pure JSON, JSON wrapped in markdown code blocks, or JSON surrounded by
// prose. Anything that cannot be decoded is a schema/parse failure and is
// handled like any other remote failure by the caller.
func DecodeJSON(input string, target any) error {
	if input == "" {
		return fmt.Errorf("empty model output")
	}

	// Most common case: the response_format constraint held.
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFromMarkdown(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractJSONFromText(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if cleaned := stripTrailingCommas(input); cleaned != input {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from model output: %s", truncate(input, 100))
}

// extractFromMarkdown extracts JSON from ```json ... ``` or ``` ... ``` blocks.
func extractFromMarkdown(input string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	if matches := re.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}
	return ""
}

// extractJSONFromText finds the first balanced JSON object or array in text.
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalanced(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
	}
	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalanced(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}
	return ""
}

func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

func stripTrailingCommas(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\uFEFF")
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
