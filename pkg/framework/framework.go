// Package framework infers test frameworks from import statements.
// Detection is namespace-based: JUnit 5 (Jupiter) takes precedence over
// JUnit 4 when both appear, since JUnit 5 projects routinely retain legacy
// imports. TestNG detection is independent and can co-exist with either
// JUnit variant in a migration-in-progress project.
package framework

import (
	"strings"

	"github.com/siftlabs/sift/pkg/models"
)

const (
	jupiterNamespace = "org.junit.jupiter"
	classicNamespace = "org.junit."
	testngNamespace  = "org.testng"
)

// DetectImports classifies an import list as zero or more Java frameworks.
func DetectImports(imports []string) []models.Framework {
	var (
		jupiter bool
		classic bool
		testng  bool
	)
	for _, imp := range imports {
		switch {
		case strings.Contains(imp, jupiterNamespace):
			jupiter = true
		case strings.Contains(imp, testngNamespace):
			testng = true
		case strings.Contains(imp, classicNamespace) && !strings.Contains(imp, "jupiter") && !strings.Contains(imp, "platform"):
			classic = true
		}
	}

	var detected []models.Framework
	if testng {
		detected = append(detected, models.FrameworkTestNG)
	}
	if jupiter {
		detected = append(detected, models.FrameworkJUnit5)
	} else if classic {
		// jupiter presence shadows legacy imports
		detected = append(detected, models.FrameworkJUnit4)
	}
	return detected
}

// DetectFile resolves a single framework for one file's class record using
// the fixed priority order.
func DetectFile(imports []string) models.Framework {
	return choosePrimary(DetectImports(imports))
}

// javaFrameworks is the full set a project-scope detector can observe.
var javaFrameworks = []models.Framework{
	models.FrameworkTestNG,
	models.FrameworkJUnit5,
	models.FrameworkJUnit4,
}

// ProjectDetector accumulates per-file detections across a project scan.
type ProjectDetector struct {
	seen map[models.Framework]bool
}

// NewProjectDetector creates an empty project-scope detector.
func NewProjectDetector() *ProjectDetector {
	return &ProjectDetector{seen: make(map[models.Framework]bool)}
}

// Observe folds one file's imports into the project tally. It returns true
// once every framework has been observed, at which point scanning more
// files cannot change the outcome and callers may short-circuit.
func (d *ProjectDetector) Observe(imports []string) (saturated bool) {
	for _, fw := range DetectImports(imports) {
		d.seen[fw] = true
	}
	return d.Saturated()
}

// Saturated reports whether all detectable frameworks have been observed.
func (d *ProjectDetector) Saturated() bool {
	for _, fw := range javaFrameworks {
		if !d.seen[fw] {
			return false
		}
	}
	return true
}

// Detected returns the observed frameworks in priority order.
func (d *ProjectDetector) Detected() []models.Framework {
	var out []models.Framework
	for _, fw := range javaFrameworks {
		if d.seen[fw] {
			out = append(out, fw)
		}
	}
	return out
}

// Primary resolves the single framework representing the project. The
// priority order is fixed (TestNG, then JUnit 5, then JUnit 4, then a
// generic default) so migration ambiguity resolves the same way every run.
func (d *ProjectDetector) Primary() models.Framework {
	return choosePrimary(d.Detected())
}

func choosePrimary(detected []models.Framework) models.Framework {
	has := make(map[models.Framework]bool, len(detected))
	for _, fw := range detected {
		has[fw] = true
	}
	for _, fw := range javaFrameworks {
		if has[fw] {
			return fw
		}
	}
	return models.FrameworkUnknown
}
