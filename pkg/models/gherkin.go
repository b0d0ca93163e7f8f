package models

// StepRecord is one Gherkin step line. Placeholders lists the <name> tokens
// found in Text, in order of first appearance.
type StepRecord struct {
	Keyword      string   `json:"keyword"`
	Text         string   `json:"text"`
	Placeholders []string `json:"placeholders,omitempty"`
}

// RowMismatch records an Examples row whose cell count differs from the
// header count. Defective rows are retained verbatim on the table and
// surfaced here rather than silently truncated or padded.
type RowMismatch struct {
	RowIndex int `json:"row_index"` // zero-based index into Rows
	Want     int `json:"want"`      // header count
	Got      int `json:"got"`       // cell count
}

// ExamplesTableRecord is one Examples block belonging to a Scenario Outline.
type ExamplesTableRecord struct {
	Name      string        `json:"name,omitempty"`
	Headers   []string      `json:"headers"`
	Rows      [][]string    `json:"rows,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	LineStart int           `json:"line_start,omitempty"`
	Defects   []RowMismatch `json:"defects,omitempty"`
}

// IsValid reports whether the table has at least one header.
func (t ExamplesTableRecord) IsValid() bool {
	return len(t.Headers) > 0
}

// ValidRowCount returns the number of rows whose length matches the header
// count. Defective rows are excluded so that the count agrees with what
// expansion would produce.
func (t ExamplesTableRecord) ValidRowCount() int {
	n := 0
	for _, row := range t.Rows {
		if len(row) == len(t.Headers) {
			n++
		}
	}
	return n
}

// ScenarioOutlineRecord is one Scenario Outline with its Examples tables.
type ScenarioOutlineRecord struct {
	Name        string                `json:"name"`
	Steps       []StepRecord          `json:"steps,omitempty"`
	Tables      []ExamplesTableRecord `json:"tables,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
	Description string                `json:"description,omitempty"`
	LineStart   int                   `json:"line_start,omitempty"`
	FilePath    string                `json:"file_path,omitempty"`
}

// TotalCases returns the number of concrete cases expansion would produce:
// the sum of valid row counts across all tables. It is computed from the
// tables alone so reporting agrees with expansion without running it.
func (o ScenarioOutlineRecord) TotalCases() int {
	n := 0
	for _, t := range o.Tables {
		n += t.ValidRowCount()
	}
	return n
}

// HasDefects reports whether any owned table carries a row mismatch.
func (o ScenarioOutlineRecord) HasDefects() bool {
	for _, t := range o.Tables {
		if len(t.Defects) > 0 {
			return true
		}
	}
	return false
}

// ExpandedCase is one concrete test case produced by substituting a single
// Examples row into a Scenario Outline.
type ExpandedCase struct {
	Name       string            `json:"name"`
	OutlineRef string            `json:"outline"`
	TableName  string            `json:"table,omitempty"`
	RowIndex   int               `json:"row_index"` // 1-based within the owning table
	Steps      []StepRecord      `json:"steps,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
}
