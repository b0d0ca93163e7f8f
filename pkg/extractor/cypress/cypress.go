// Package cypress extracts test cases from Cypress spec files (JS/TS).
// Suites come from describe/context blocks, cases from it/specify calls;
// nesting is recovered by containment of block extents, not by parsing
// the surrounding JavaScript.
package cypress

import (
	"os"
	"regexp"
	"strings"

	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/textscan"
)

// quotedArg matches the first string argument in any of the three JS quote
// styles; exactly one of its groups captures per match.
const quotedArg = "(?:\"([^\"]*)\"|'([^']*)'|`([^`]*)`)"

var (
	suitePattern = regexp.MustCompile(
		`(?m)\b(describe|context|xdescribe)(?:\.(skip|only))?\s*\(\s*` + quotedArg + `\s*,`)
	casePattern = regexp.MustCompile(
		`(?m)\b(it|specify|xit)(?:\.(skip|only))?\s*\(\s*` + quotedArg + `\s*,`)
	fixturePattern = regexp.MustCompile(
		`cy\.fixture\s*\(\s*` + quotedArg)
)

// Suite is one describe/context block.
type Suite struct {
	Name       string `json:"name"`
	LineNumber int    `json:"line_number,omitempty"`
	IsSkipped  bool   `json:"is_skipped"`

	start, end int
}

// Case is one it/specify call together with its enclosing suite path.
type Case struct {
	Title      string   `json:"title"`
	SuitePath  []string `json:"suite_path,omitempty"`
	Fixtures   []string `json:"fixtures,omitempty"`
	LineNumber int      `json:"line_number,omitempty"`
	IsDisabled bool     `json:"is_disabled"`
	IsFocused  bool     `json:"is_focused"`
}

// FileResult is everything extracted from one spec file.
type FileResult struct {
	Suites   []Suite `json:"suites,omitempty"`
	Cases    []Case  `json:"cases,omitempty"`
	FilePath string  `json:"file_path,omitempty"`
}

// Extractor parses Cypress spec files. Stateless.
type Extractor struct{}

// New creates a Cypress extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads and parses one spec file.
func (e *Extractor) ExtractFile(path string) (FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, err
	}
	return e.Extract(string(data), path), nil
}

// Extract parses suites and cases out of spec source text. A case inside a
// skipped suite is disabled even when the it call itself is plain.
func (e *Extractor) Extract(src, path string) FileResult {
	result := FileResult{FilePath: path}
	result.Suites = findSuites(src)

	for _, loc := range casePattern.FindAllStringSubmatchIndex(src, -1) {
		keyword := src[loc[2]:loc[3]]
		modifier := submatch(src, loc, 2)

		c := Case{
			Title:      quotedGroup(src, loc),
			LineNumber: textscan.LineNumber(src, loc[0]),
			IsDisabled: keyword == "xit" || modifier == "skip",
			IsFocused:  modifier == "only",
		}

		for _, s := range result.Suites {
			if s.start <= loc[0] && loc[0] < s.end {
				c.SuitePath = append(c.SuitePath, s.Name)
				if s.IsSkipped {
					c.IsDisabled = true
				}
			}
		}

		if body, _, ok := textscan.BlockAfter(src, loc[1]); ok {
			c.Fixtures = fixtureRefs(body)
		}

		result.Cases = append(result.Cases, c)
	}
	return result
}

// findSuites locates every describe/context call and the extent of its
// callback body. Suites are returned in source order, so containment
// checks walk outer suites before inner ones.
func findSuites(src string) []Suite {
	var suites []Suite
	for _, loc := range suitePattern.FindAllStringSubmatchIndex(src, -1) {
		keyword := src[loc[2]:loc[3]]
		modifier := submatch(src, loc, 2)

		s := Suite{
			Name:       quotedGroup(src, loc),
			LineNumber: textscan.LineNumber(src, loc[0]),
			IsSkipped:  keyword == "xdescribe" || modifier == "skip",
			start:      loc[0],
			end:        len(src),
		}
		if body, bodyStart, ok := textscan.BlockAfter(src, loc[1]); ok {
			s.end = bodyStart + len(body)
		}
		suites = append(suites, s)
	}
	return suites
}

func fixtureRefs(body string) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, m := range fixturePattern.FindAllStringSubmatch(body, -1) {
		ref := m[1] + m[2] + m[3]
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}

// NeutralCases converts the file result into neutral records. The suite
// path joined with " > " stands in for the class name; Cypress has no
// parameterization signal in this model. Focused cases carry an "only"
// tag so a suite-hijacking .only survives normalization.
func (r FileResult) NeutralCases() []models.NeutralTestCase {
	cases := make([]models.NeutralTestCase, 0, len(r.Cases))
	for _, c := range r.Cases {
		var tags []string
		if c.IsFocused {
			tags = []string{"only"}
		}
		cases = append(cases, models.NeutralTestCase{
			Framework:        string(models.FrameworkCypress),
			ClassName:        strings.Join(c.SuitePath, " > "),
			MethodName:       c.Title,
			Tags:             tags,
			DataDependencies: c.Fixtures,
			FilePath:         r.FilePath,
			LineNumber:       c.LineNumber,
			IsDisabled:       c.IsDisabled,
		})
	}
	return cases
}

func submatch(src string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return src[loc[2*n]:loc[2*n+1]]
}

// quotedGroup returns whichever quote-style capture group matched.
func quotedGroup(src string, loc []int) string {
	for _, n := range []int{3, 4, 5} {
		if loc[2*n] >= 0 {
			return src[loc[2*n]:loc[2*n+1]]
		}
	}
	return ""
}
