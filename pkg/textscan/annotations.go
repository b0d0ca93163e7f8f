package textscan

import (
	"fmt"
	"strings"

	"github.com/siftlabs/sift/pkg/models"
)

// AnnotationsBefore collects the annotations immediately preceding the
// declaration at declIdx in lines. It scans backward until the first line
// that is neither an annotation nor a comment, so annotations belonging to
// a previous, unrelated declaration are never attributed to this one.
// Results are returned in source order.
func AnnotationsBefore(lines []string, declIdx int) []models.SourceAnnotation {
	var collected []models.SourceAnnotation
	for i := declIdx - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if IsCommentLine(line) {
			continue
		}
		anns, ok := ParseAnnotationLine(line)
		if !ok {
			break
		}
		// prepend to preserve source order
		collected = append(anns, collected...)
	}
	return collected
}

// IsCommentLine reports whether a trimmed line is a line or block comment.
func IsCommentLine(line string) bool {
	return strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "/*") ||
		strings.HasPrefix(line, "*") ||
		strings.HasPrefix(line, "#")
}

// ParseAnnotationLine parses a single source line holding Java-style
// (@Name(...)) or C#-style ([Name(...)]) annotations. A bracket group may
// hold several comma-separated attributes ([Fact, Trait("k", "v")]).
func ParseAnnotationLine(line string) ([]models.SourceAnnotation, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "@"):
		ann, ok := parseJavaAnnotation(line)
		if !ok {
			return nil, false
		}
		return []models.SourceAnnotation{ann}, true
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return parseAttributeGroup(line[1 : len(line)-1])
	default:
		return nil, false
	}
}

func parseJavaAnnotation(line string) (models.SourceAnnotation, bool) {
	rest := line[1:]
	name := leadingIdentifier(rest)
	if name == "" {
		return models.SourceAnnotation{}, false
	}
	rest = rest[len(name):]
	ann := models.SourceAnnotation{Name: name}
	if strings.HasPrefix(rest, "(") {
		inner, closed := parenContents(rest)
		if !closed {
			// annotation spills onto following lines; keep the name,
			// drop the unparseable attribute tail
			return ann, true
		}
		ann.Attributes = ParseAttributes(inner)
	}
	return ann, true
}

func parseAttributeGroup(inner string) ([]models.SourceAnnotation, bool) {
	var anns []models.SourceAnnotation
	for _, part := range SplitTopLevel(inner, ',') {
		part = strings.TrimSpace(part)
		name := leadingIdentifier(part)
		if name == "" {
			continue
		}
		ann := models.SourceAnnotation{Name: name}
		rest := part[len(name):]
		if strings.HasPrefix(rest, "(") {
			if contents, closed := parenContents(rest); closed {
				ann.Attributes = ParseAttributes(contents)
			}
		}
		anns = append(anns, ann)
	}
	return anns, len(anns) > 0
}

// ParseAttributes parses the inside of an annotation's parentheses into a
// key→value map. Named attributes use `key = value`; positional attributes
// are stored under "value" (then "value2", "value3", ...) so every
// annotation shape reduces to the same representation.
func ParseAttributes(inner string) map[string]models.AttrValue {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil
	}
	attrs := make(map[string]models.AttrValue)
	positional := 0
	for _, part := range SplitTopLevel(inner, ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if key, val, ok := splitKeyValue(part); ok {
			attrs[key] = TypeValue(val)
			continue
		}
		positional++
		key := "value"
		if positional > 1 {
			key = fmt.Sprintf("value%d", positional)
		}
		attrs[key] = TypeValue(part)
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// splitKeyValue splits `key = value` when the '=' is a plain assignment at
// the top level (not ==, <=, >=, or inside quotes/braces).
func splitKeyValue(part string) (string, string, bool) {
	depth := 0
	var inQuote byte
	for i := 0; i < len(part); i++ {
		c := part[i]
		if inQuote != 0 {
			if c == inQuote && part[i-1] != '\\' {
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
		case '=':
			if depth > 0 {
				continue
			}
			if i > 0 && (part[i-1] == '=' || part[i-1] == '!' || part[i-1] == '<' || part[i-1] == '>') {
				continue
			}
			if i+1 < len(part) && part[i+1] == '=' {
				continue
			}
			key := strings.TrimSpace(part[:i])
			if !isIdentifier(key) {
				return "", "", false
			}
			return key, strings.TrimSpace(part[i+1:]), true
		}
	}
	return "", "", false
}

// parenContents returns the text inside the leading parenthesis group of s,
// and whether the group was closed on this line.
func parenContents(s string) (string, bool) {
	if !strings.HasPrefix(s, "(") {
		return "", false
	}
	inner, ok := DelimitedBlock(s, 1, '(', ')')
	if !ok {
		return "", false
	}
	return inner[:len(inner)-1], true
}

func leadingIdentifier(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' {
			continue
		}
		return s[:i]
	}
	return s
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}
