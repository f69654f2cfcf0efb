package validators

import "strings"

// SanitizeString trims whitespace and caps free-text input such as catalog
// and customer searches. Truncation is rune-aware so a multibyte character
// is never split.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
