// Package specflow extracts test metadata from C# sources: xUnit facts and
// theories, and SpecFlow step bindings. Attribute syntax ([Fact],
// [Theory, InlineData(...)], [Given(@"...")]) is parsed with the shared
// annotation parser; bodies are never needed here.
package specflow

import (
	"os"
	"regexp"
	"strings"

	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/normalize"
	"github.com/siftlabs/sift/pkg/textscan"
)

var (
	namespacePattern = regexp.MustCompile(`(?m)^\s*namespace\s+([\w.]+)`)
	usingPattern     = regexp.MustCompile(`(?m)^\s*using\s+(?:static\s+)?([\w.]+)\s*;`)

	classPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|internal|abstract|sealed|static|partial)\s+)*class\s+(\w+)` +
			`(?:\s*:\s*([\w.]+)(?:<[^{]*?>)?(?:\s*,[^{]*)?)?\s*\{`)

	methodPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|protected|private|internal|static|async|virtual|override)\s+)+` +
			`[\w.<>\[\],\s]+?\s+(\w+)\s*\(([^)]*)\)\s*\{`)
)

// stepKeywords are the SpecFlow binding attributes, in no particular order.
var stepKeywords = map[string]bool{
	"Given":          true,
	"When":           true,
	"Then":           true,
	"StepDefinition": true,
}

// Extractor parses C# test sources. Stateless.
type Extractor struct{}

// New creates a SpecFlow/xUnit extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads and parses one C# file.
func (e *Extractor) ExtractFile(path string) (FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, err
	}
	return e.Extract(string(data), path), nil
}

// Extract parses classes, test methods, and step bindings out of C#
// source text, in declaration order.
func (e *Extractor) Extract(src, path string) FileResult {
	result := FileResult{FilePath: path}
	lines := strings.Split(src, "\n")

	if m := namespacePattern.FindStringSubmatch(src); m != nil {
		result.Namespace = m[1]
	}
	for _, m := range usingPattern.FindAllStringSubmatch(src, -1) {
		result.Usings = append(result.Usings, m[1])
	}

	for _, loc := range classPattern.FindAllStringSubmatchIndex(src, -1) {
		class := models.TestClassRecord{
			ClassName:  src[loc[2]:loc[3]],
			Package:    result.Namespace,
			Imports:    result.Usings,
			FilePath:   path,
			LineNumber: textscan.LineNumber(src, loc[0]),
		}
		if loc[4] >= 0 {
			class.ParentClassName = src[loc[4]:loc[5]]
		}
		class.Annotations = textscan.AnnotationsBefore(lines, class.LineNumber-1)

		body, bodyStart, _ := textscan.BlockAfter(src, loc[1]-1)
		bound := hasAnnotation(class.Annotations, "Binding")
		methods, bindings := extractMembers(src, lines, body, bodyStart, class.ClassName)
		class.Methods = methods
		result.StepBindings = append(result.StepBindings, bindings...)

		switch {
		case bound || len(bindings) > 0:
			class.Framework = models.FrameworkSpecFlow
		case len(methods) > 0:
			class.Framework = models.FrameworkXUnit
		default:
			class.Framework = models.FrameworkUnknown
		}

		if len(class.Methods) > 0 || class.Framework != models.FrameworkUnknown {
			result.Classes = append(result.Classes, class)
		}
	}
	return result
}

// extractMembers walks the class body once, splitting members into xUnit
// test methods and SpecFlow step bindings. A method can only be one of the
// two; step attributes take precedence.
func extractMembers(src string, lines []string, body string, bodyStart int, className string) ([]models.TestMethodRecord, []StepBinding) {
	var (
		methods  []models.TestMethodRecord
		bindings []StepBinding
	)
	for _, loc := range methodPattern.FindAllStringSubmatchIndex(body, -1) {
		line := textscan.LineNumber(src, bodyStart+loc[0])
		anns := textscan.AnnotationsBefore(lines, line-1)
		name := body[loc[2]:loc[3]]

		if keyword, pattern, ok := stepAttribute(anns); ok {
			bindings = append(bindings, StepBinding{
				Keyword:    keyword,
				Pattern:    pattern,
				MethodName: name,
				ClassName:  className,
				LineNumber: line,
			})
			continue
		}

		if !isTestMethod(anns) {
			continue
		}
		methods = append(methods, models.TestMethodRecord{
			MethodName:      name,
			Annotations:     anns,
			Tags:            models.DedupeTags(normalize.Tags(anns)),
			LineNumber:      line,
			IsParameterized: normalize.IsParameterized(models.FrameworkXUnit, anns),
			IsDisabled:      normalize.IsDisabled(models.FrameworkXUnit, anns),
		})
	}
	return methods, bindings
}

func stepAttribute(anns []models.SourceAnnotation) (keyword, pattern string, ok bool) {
	for _, a := range anns {
		if !stepKeywords[a.Name] {
			continue
		}
		return a.Name, stepPattern(a.AttrString("value")), true
	}
	return "", "", false
}

// stepPattern strips the C# verbatim-string syntax (@"...") from a raw
// step attribute value, leaving the bare pattern text.
func stepPattern(raw string) string {
	raw = strings.TrimPrefix(raw, "@")
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	return raw
}

func isTestMethod(anns []models.SourceAnnotation) bool {
	for _, a := range anns {
		if normalize.IsTestAnnotation(a.Name) {
			return true
		}
	}
	return false
}

func hasAnnotation(anns []models.SourceAnnotation, name string) bool {
	for _, a := range anns {
		if a.Name == name {
			return true
		}
	}
	return false
}
