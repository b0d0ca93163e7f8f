package java

import "github.com/siftlabs/sift/pkg/models"

// FileResult holds everything extracted from one Java source file.
type FileResult struct {
	Package  string                   `json:"package,omitempty"`
	Imports  []string                 `json:"imports,omitempty"`
	Classes  []models.TestClassRecord `json:"classes,omitempty"`
	FilePath string                   `json:"file_path,omitempty"`
}

// TestMethodCount returns the number of test methods across all classes.
func (r FileResult) TestMethodCount() int {
	n := 0
	for _, c := range r.Classes {
		n += len(c.Methods)
	}
	return n
}
