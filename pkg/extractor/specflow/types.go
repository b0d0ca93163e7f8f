package specflow

import "github.com/siftlabs/sift/pkg/models"

// StepBinding is one SpecFlow step-definition method: the attribute keyword
// plus the step pattern it binds to.
type StepBinding struct {
	Keyword    string `json:"keyword"`
	Pattern    string `json:"pattern"`
	MethodName string `json:"method_name"`
	ClassName  string `json:"class_name"`
	LineNumber int    `json:"line_number,omitempty"`
}

// FileResult is everything extracted from one C# source file. Test classes
// (xUnit facts and theories) and step bindings can share a file; bindings
// are reported separately because they are glue, not test cases.
type FileResult struct {
	Namespace    string                   `json:"namespace,omitempty"`
	Usings       []string                 `json:"usings,omitempty"`
	Classes      []models.TestClassRecord `json:"classes,omitempty"`
	StepBindings []StepBinding            `json:"step_bindings,omitempty"`
	FilePath     string                   `json:"file_path,omitempty"`
}

// TestMethodCount totals the test methods across all classes in the file.
func (r FileResult) TestMethodCount() int {
	n := 0
	for _, c := range r.Classes {
		n += len(c.Methods)
	}
	return n
}
