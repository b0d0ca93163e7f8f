package gherkin

import (
	"fmt"

	"github.com/siftlabs/sift/pkg/models"
)

// Expand substitutes every Examples row of every table into the outline's
// steps, producing one concrete case per row. Case names carry the 1-based
// row index within the owning table; tags are the union of outline and
// table tags. Rows whose length does not match the headers were already
// surfaced as defects at parse time and are skipped here.
//
// A placeholder with no matching header is left literally as <name>: a
// visible table/step mismatch beats a silent empty substitution.
func Expand(outline models.ScenarioOutlineRecord) []models.ExpandedCase {
	var cases []models.ExpandedCase
	for _, table := range outline.Tables {
		if !table.IsValid() {
			continue
		}
		rowNum := 0
		for _, row := range table.Rows {
			if len(row) != len(table.Headers) {
				continue
			}
			rowNum++

			params := make(map[string]string, len(table.Headers))
			for i, header := range table.Headers {
				params[header] = row[i]
			}

			steps := make([]models.StepRecord, len(outline.Steps))
			for i, step := range outline.Steps {
				steps[i] = models.StepRecord{
					Keyword: step.Keyword,
					Text:    substitute(step.Text, params),
				}
			}

			cases = append(cases, models.ExpandedCase{
				Name:       fmt.Sprintf("%s #%d", outline.Name, rowNum),
				OutlineRef: outline.Name,
				TableName:  table.Name,
				RowIndex:   rowNum,
				Steps:      steps,
				Parameters: params,
				Tags:       models.DedupeTags(append(append([]string{}, outline.Tags...), table.Tags...)),
			})
		}
	}
	return cases
}

// substitute replaces every mapped <placeholder> occurrence in text.
func substitute(text string, params map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := params[name]; ok {
			return value
		}
		return token
	})
}
