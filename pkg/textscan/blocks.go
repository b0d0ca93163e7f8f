// Package textscan isolates brace-delimited blocks and decorator-like
// annotations from raw source text. It deliberately counts delimiters
// instead of parsing: the inputs are well-formed test code, and the
// per-function contracts here let a grammar-based parser be substituted
// later without touching any caller.
package textscan

import "strings"

// Block returns the substring of src from start up to and including the
// brace that closes the block opened immediately before start. The nesting
// counter increments on '{' and decrements on '}'; extraction stops the
// instant the counter returns to the entry level.
//
// Braces inside string literals are counted too; that is a known accepted
// limitation of the delimiter-counting approach.
//
// When no matching close exists, the text through end-of-input is returned
// with ok=false. Callers treat a body that runs to end-of-file as a soft
// signal of malformed input, not a hard error.
func Block(src string, start int) (body string, ok bool) {
	return DelimitedBlock(src, start, '{', '}')
}

// DelimitedBlock is Block generalized over the delimiter pair.
func DelimitedBlock(src string, start int, open, close byte) (string, bool) {
	if start < 0 || start > len(src) {
		return "", false
	}
	depth := 1
	for i := start; i < len(src); i++ {
		switch src[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return src[start : i+1], true
			}
		}
	}
	return src[start:], false
}

// BlockAfter finds the first opening brace at or after from and returns the
// block it opens (excluding the opening brace, including the closing one),
// plus the offset just past the opening brace. Returns ok=false when no
// opening brace exists or the block is unterminated.
func BlockAfter(src string, from int) (body string, bodyStart int, ok bool) {
	if from < 0 {
		from = 0
	}
	idx := strings.IndexByte(src[from:], '{')
	if idx < 0 {
		return "", -1, false
	}
	bodyStart = from + idx + 1
	body, ok = Block(src, bodyStart)
	return body, bodyStart, ok
}

// LineNumber returns the 1-based line number of offset within src.
func LineNumber(src string, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}

// StripBraces trims one layer of surrounding braces and whitespace.
func StripBraces(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
