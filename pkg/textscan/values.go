package textscan

import (
	"strconv"
	"strings"

	"github.com/siftlabs/sift/pkg/models"
)

// TypeValue converts one raw attribute token into a typed AttrValue using
// opportunistic rules: boolean literals become bools, all-digit tokens
// become integers, quoted tokens become strings with the quotes stripped,
// array-like tokens ({a, b, c}) become lists, and anything else is kept as
// raw text. No expression evaluation is attempted.
func TypeValue(raw string) models.AttrValue {
	s := strings.TrimSpace(raw)

	switch s {
	case "true", "True":
		return models.BoolValue(true)
	case "false", "False":
		return models.BoolValue(false)
	}

	if n, err := strconv.Atoi(s); err == nil && s != "" {
		return models.IntValue(s, n)
	}

	if isQuoted(s) {
		return models.StringValue(s[1 : len(s)-1])
	}

	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return models.ListValue(s, splitListItems(s[1:len(s)-1]))
	}

	return models.RawString(s)
}

func isQuoted(s string) bool {
	return len(s) >= 2 &&
		((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\''))
}

func splitListItems(inner string) []string {
	var items []string
	for _, part := range SplitTopLevel(inner, ',') {
		p := strings.TrimSpace(part)
		if isQuoted(p) {
			p = p[1 : len(p)-1]
		}
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}

// SplitTopLevel splits s on sep, ignoring separators nested inside quotes,
// parentheses, or braces.
func SplitTopLevel(s string, sep byte) []string {
	var (
		parts   []string
		depth   int
		start   int
		inQuote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote != 0 {
			if c == inQuote && (i == 0 || s[i-1] != '\\') {
				inQuote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inQuote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
