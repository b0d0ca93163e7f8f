// Package normalize converts framework-specific extraction results into
// the neutral test-case record. All framework-specific knowledge about
// tags, parameterization, and disabled status lives here.
package normalize

import (
	"strings"

	"github.com/siftlabs/sift/pkg/models"
)

// disablingAnnotations maps each framework to the annotation names that
// mark a test disabled. TestNG additionally honors an explicit
// enabled=false attribute; either signal alone is sufficient.
var disablingAnnotations = map[models.Framework][]string{
	models.FrameworkJUnit5:  {"Disabled"},
	models.FrameworkJUnit4:  {"Ignore"},
	models.FrameworkTestNG:  {"Ignore"},
	models.FrameworkXUnit:   {"Skip"},
	models.FrameworkCypress: {"skip"},
}

// testBearingAnnotations marks a method as an executable test.
var testBearingAnnotations = map[string]bool{
	"Test":              true,
	"ParameterizedTest": true,
	"RepeatedTest":      true,
	"TestFactory":       true,
	"TestTemplate":      true,
	"Fact":              true,
	"Theory":            true,
}

// IsTestAnnotation reports whether the (possibly qualified) annotation name
// marks a test method.
func IsTestAnnotation(name string) bool {
	return testBearingAnnotations[simpleName(name)]
}

// IsParameterized computes the parameterization flag for a method.
// JUnit 5 signals via @ParameterizedTest; TestNG via @Parameters or a
// dataProvider attribute on @Test. JUnit 4 has no parameterization signal
// in this model and always reads false.
func IsParameterized(fw models.Framework, anns []models.SourceAnnotation) bool {
	switch fw {
	case models.FrameworkJUnit5:
		return hasAnnotation(anns, "ParameterizedTest")
	case models.FrameworkTestNG:
		if hasAnnotation(anns, "Parameters") {
			return true
		}
		for _, a := range anns {
			if simpleName(a.Name) == "Test" && a.AttrString("dataProvider") != "" {
				return true
			}
		}
		return false
	case models.FrameworkXUnit:
		return hasAnnotation(anns, "Theory") || hasAnnotation(anns, "InlineData")
	default:
		return false
	}
}

// IsDisabled computes the disabled flag for a method. An annotation-name
// match, TestNG's explicit enabled=false attribute, and xUnit's Skip
// reason are independent signals; any one suffices.
func IsDisabled(fw models.Framework, anns []models.SourceAnnotation) bool {
	for _, name := range disablingAnnotations[fw] {
		if hasAnnotation(anns, name) {
			return true
		}
	}
	if fw == models.FrameworkTestNG {
		for _, a := range anns {
			if enabled, ok := a.Attr("enabled"); ok && enabled.IsFalse() {
				return true
			}
		}
	}
	if fw == models.FrameworkXUnit {
		for _, a := range anns {
			if skip, ok := a.Attr("Skip"); ok && skip.String() != "" {
				return true
			}
		}
	}
	return false
}

// Tags extracts tag-bearing values from an annotation list: @Tag values
// (JUnit 5), groups attributes (TestNG), @Category classes (JUnit 4), and
// Trait pairs (xUnit).
func Tags(anns []models.SourceAnnotation) []string {
	var tags []string
	for _, a := range anns {
		switch simpleName(a.Name) {
		case "Tag":
			if v := a.AttrString("value"); v != "" {
				tags = append(tags, v)
			}
		case "Category":
			if v := a.AttrString("value"); v != "" {
				tags = append(tags, strings.TrimSuffix(v, ".class"))
			}
		case "Trait":
			if v := a.AttrString("value2"); v != "" {
				tags = append(tags, v)
			}
		default:
			if groups, ok := a.Attr("groups"); ok {
				switch groups.Kind {
				case models.AttrList:
					tags = append(tags, groups.List...)
				default:
					if g := groups.String(); g != "" {
						tags = append(tags, g)
					}
				}
			}
		}
	}
	return tags
}

// Case produces one NeutralTestCase from a class/method pair. The tag set
// is the deduplicated union of class-level and method-level tags;
// annotation attributes are dropped at this layer.
func Case(class models.TestClassRecord, method models.TestMethodRecord) models.NeutralTestCase {
	names := make([]string, 0, len(method.Annotations))
	for _, a := range method.Annotations {
		names = append(names, simpleName(a.Name))
	}

	classTags := Tags(class.Annotations)
	return models.NeutralTestCase{
		Framework:       string(class.Framework),
		Package:         class.Package,
		ClassName:       class.ClassName,
		MethodName:      method.MethodName,
		Annotations:     names,
		Tags:            models.DedupeTags(append(append([]string{}, classTags...), method.Tags...)),
		FilePath:        class.FilePath,
		LineNumber:      method.LineNumber,
		IsParameterized: method.IsParameterized,
		IsDisabled:      method.IsDisabled,
	}
}

// Class normalizes every method of a class.
func Class(class models.TestClassRecord) []models.NeutralTestCase {
	cases := make([]models.NeutralTestCase, 0, len(class.Methods))
	for _, m := range class.Methods {
		cases = append(cases, Case(class, m))
	}
	return cases
}

func hasAnnotation(anns []models.SourceAnnotation, name string) bool {
	for _, a := range anns {
		if simpleName(a.Name) == name {
			return true
		}
	}
	return false
}

func simpleName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
