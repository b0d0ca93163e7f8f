package output

import (
	"fmt"
	"unicode/utf8"
)

// Token estimation for inventory payloads handed to language models.
// Large repositories produce inventories well past typical context
// windows, so tool responses report an estimate alongside the data.

// DefaultBudget is the context window size assumed when the caller
// does not supply one.
const DefaultBudget = 128000

// CharsPerToken is the approximate character-to-token ratio for
// structured test metadata. Identifiers and punctuation tokenize
// close to 4 characters per token.
const CharsPerToken = 4.0

// EstimateTokens returns an approximate token count for the given text.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}

	runeCount := utf8.RuneCountInString(text)
	tokens := float64(runeCount) / CharsPerToken

	return int(tokens + 0.5)
}

// FormatTokenCount formats a token count for display.
// Counts >= 1000 are formatted as "X.Xk".
func FormatTokenCount(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	return fmt.Sprintf("%.1fk", float64(tokens)/1000)
}

// ExceedsBudget reports whether text is likely to overflow the given
// context window. A budget of zero or less means DefaultBudget.
func ExceedsBudget(text string, budget int) bool {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return EstimateTokens(text) > budget
}
