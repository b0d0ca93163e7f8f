package models

import "sort"

// Framework identifies a test framework.
type Framework string

const (
	FrameworkJUnit4   Framework = "junit4"
	FrameworkJUnit5   Framework = "junit5"
	FrameworkTestNG   Framework = "testng"
	FrameworkBehave   Framework = "behave"
	FrameworkSpecFlow Framework = "specflow"
	FrameworkXUnit    Framework = "xunit"
	FrameworkCypress  Framework = "cypress"
	FrameworkUnknown  Framework = "unknown"
)

// TestMethodRecord describes one discovered test method. The derived fields
// (Tags, IsParameterized, IsDisabled) are computed once from the annotation
// list at creation time and never recomputed.
type TestMethodRecord struct {
	MethodName      string             `json:"method_name"`
	Annotations     []SourceAnnotation `json:"annotations,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	LineNumber      int                `json:"line_number,omitempty"`
	IsParameterized bool               `json:"is_parameterized"`
	IsDisabled      bool               `json:"is_disabled"`
}

// HasAnnotation reports whether the method carries an annotation with the
// given name.
func (m TestMethodRecord) HasAnnotation(name string) bool {
	for _, a := range m.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Annotation returns the first annotation with the given name.
func (m TestMethodRecord) Annotation(name string) (SourceAnnotation, bool) {
	for _, a := range m.Annotations {
		if a.Name == name {
			return a, true
		}
	}
	return SourceAnnotation{}, false
}

// TestClassRecord describes one discovered test class. ParentClassName is a
// name reference resolved later against the full class set, never a pointer:
// the parent may be absent from the scanned set or part of a cycle.
type TestClassRecord struct {
	ClassName       string             `json:"class_name"`
	ParentClassName string             `json:"parent_class_name,omitempty"`
	Package         string             `json:"package,omitempty"`
	Methods         []TestMethodRecord `json:"methods,omitempty"`
	Annotations     []SourceAnnotation `json:"annotations,omitempty"`
	Framework       Framework          `json:"framework"`
	Imports         []string           `json:"imports,omitempty"`
	FilePath        string             `json:"file_path,omitempty"`
	LineNumber      int                `json:"line_number,omitempty"`
}

// DedupeTags returns tags deduplicated and sorted. Tag sets are semantically
// unordered; sorting keeps repeated extractions byte-identical.
func DedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
