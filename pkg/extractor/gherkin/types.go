package gherkin

import "github.com/siftlabs/sift/pkg/models"

// Scenario is a plain (non-outline) Gherkin scenario.
type Scenario struct {
	Name        string              `json:"name"`
	Steps       []models.StepRecord `json:"steps,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Description string              `json:"description,omitempty"`
	LineStart   int                 `json:"line_start,omitempty"`
	FilePath    string              `json:"file_path,omitempty"`
}

// FileResult holds everything extracted from one feature file.
type FileResult struct {
	FeatureName string                         `json:"feature_name,omitempty"`
	FeatureTags []string                       `json:"feature_tags,omitempty"`
	Scenarios   []Scenario                     `json:"scenarios,omitempty"`
	Outlines    []models.ScenarioOutlineRecord `json:"outlines,omitempty"`
	FilePath    string                         `json:"file_path,omitempty"`
}

// TotalCases returns plain scenarios plus all outline expansions.
func (r FileResult) TotalCases() int {
	n := len(r.Scenarios)
	for _, o := range r.Outlines {
		n += o.TotalCases()
	}
	return n
}
