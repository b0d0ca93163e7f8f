// Package gherkin extracts scenarios and Scenario Outlines from Behave
// feature files and expands outlines against their Examples tables.
package gherkin

import (
	"os"
	"regexp"
	"strings"

	"github.com/siftlabs/sift/pkg/models"
)

// Extractor parses feature files. It is stateless; one instance may be
// shared across goroutines.
type Extractor struct{}

// New creates a feature-file extractor.
func New() *Extractor {
	return &Extractor{}
}

var placeholderPattern = regexp.MustCompile(`<([^<>\s]+)>`)

var stepKeywords = []string{"Given", "When", "Then", "And", "But", "*"}

// ExtractFile reads and parses one feature file. A file that cannot be read
// yields a nil result and the read error; the caller skips it and the scan
// continues.
func (e *Extractor) ExtractFile(path string) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(string(data), path), nil
}

// parser carries the forward-scan state over one file. Pending tags
// accumulate across comment and blank lines and attach to the next
// Feature/Scenario/Examples header, which matches the backward scan the
// extraction contract describes: stop at the first non-tag, non-comment,
// non-blank line.
type parser struct {
	result      *FileResult
	pendingTags []string

	outline  *models.ScenarioOutlineRecord
	scenario *Scenario
	table    *models.ExamplesTableRecord
	inSteps  bool
}

// Extract parses feature source text. It never fails: malformed lines are
// skipped and whatever parsed cleanly is returned.
func (e *Extractor) Extract(src, path string) *FileResult {
	p := &parser{result: &FileResult{FilePath: path}}

	for i, raw := range strings.Split(src, "\n") {
		p.consume(strings.TrimSpace(raw), i+1)
	}
	p.flush()
	return p.result
}

func (p *parser) consume(line string, lineNo int) {
	switch {
	case line == "" || strings.HasPrefix(line, "#"):
		// blank lines and comments neither contribute nor clear tags
		return

	case strings.HasPrefix(line, "@"):
		for _, tok := range strings.Fields(line) {
			if strings.HasPrefix(tok, "@") && len(tok) > 1 {
				p.pendingTags = append(p.pendingTags, strings.TrimPrefix(tok, "@"))
			}
		}

	case hasHeader(line, "Feature"):
		p.result.FeatureName = headerValue(line)
		p.result.FeatureTags = models.DedupeTags(p.takeTags())

	case hasHeader(line, "Scenario Outline"), hasHeader(line, "Scenario Template"):
		p.flush()
		p.outline = &models.ScenarioOutlineRecord{
			Name:      headerValue(line),
			Tags:      models.DedupeTags(p.takeTags()),
			LineStart: lineNo,
			FilePath:  p.result.FilePath,
		}
		p.inSteps = false

	case hasHeader(line, "Examples"), hasHeader(line, "Scenarios"):
		p.closeTable()
		p.table = &models.ExamplesTableRecord{
			Name:      headerValue(line),
			Tags:      models.DedupeTags(p.takeTags()),
			LineStart: lineNo,
		}

	case hasHeader(line, "Scenario"):
		p.flush()
		p.scenario = &Scenario{
			Name:      headerValue(line),
			Tags:      models.DedupeTags(p.takeTags()),
			LineStart: lineNo,
			FilePath:  p.result.FilePath,
		}
		p.inSteps = false

	case hasHeader(line, "Background"):
		// background steps describe fixtures, not cases
		p.flush()

	case strings.HasPrefix(line, "|"):
		p.tableRow(line)
		p.pendingTags = nil

	default:
		p.bodyLine(line)
		p.pendingTags = nil
	}
}

// bodyLine routes a free-text or step line to the open scenario or outline.
func (p *parser) bodyLine(line string) {
	keyword, text, isStep := splitStep(line)

	switch {
	case p.table != nil:
		// non-table content ends the Examples block
		p.closeTable()
		if isStep {
			p.appendStep(keyword, text)
		}
	case isStep:
		p.inSteps = true
		p.appendStep(keyword, text)
	case p.outline != nil && !p.inSteps:
		p.outline.Description = joinDescription(p.outline.Description, line)
	case p.scenario != nil && !p.inSteps:
		p.scenario.Description = joinDescription(p.scenario.Description, line)
	}
}

func (p *parser) appendStep(keyword, text string) {
	step := models.StepRecord{
		Keyword:      keyword,
		Text:         text,
		Placeholders: placeholders(text),
	}
	if p.outline != nil {
		p.outline.Steps = append(p.outline.Steps, step)
	} else if p.scenario != nil {
		p.scenario.Steps = append(p.scenario.Steps, step)
	}
}

func (p *parser) tableRow(line string) {
	if p.table == nil {
		return
	}
	cells := splitTableRow(line)
	if p.table.Headers == nil {
		p.table.Headers = cells
		return
	}
	if len(cells) != len(p.table.Headers) {
		p.table.Defects = append(p.table.Defects, models.RowMismatch{
			RowIndex: len(p.table.Rows),
			Want:     len(p.table.Headers),
			Got:      len(cells),
		})
	}
	p.table.Rows = append(p.table.Rows, cells)
}

func (p *parser) closeTable() {
	if p.table == nil {
		return
	}
	if p.outline != nil && p.table.IsValid() {
		p.outline.Tables = append(p.outline.Tables, *p.table)
	}
	p.table = nil
}

// flush closes the open outline or scenario and appends it to the result.
func (p *parser) flush() {
	p.closeTable()
	if p.outline != nil {
		p.result.Outlines = append(p.result.Outlines, *p.outline)
		p.outline = nil
	}
	if p.scenario != nil {
		p.result.Scenarios = append(p.result.Scenarios, *p.scenario)
		p.scenario = nil
	}
	p.inSteps = false
}

func (p *parser) takeTags() []string {
	tags := p.pendingTags
	p.pendingTags = nil
	return tags
}

func hasHeader(line, keyword string) bool {
	return strings.HasPrefix(line, keyword+":")
}

func headerValue(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		return strings.TrimSpace(line[idx+1:])
	}
	return ""
}

func splitStep(line string) (keyword, text string, ok bool) {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(line, kw+" ") {
			return kw, strings.TrimSpace(line[len(kw)+1:]), true
		}
	}
	return "", "", false
}

// placeholders returns the <name> tokens in order of first appearance.
func placeholders(text string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

func splitTableRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

func joinDescription(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}
