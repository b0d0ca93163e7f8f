// Package java extracts test classes and methods from JUnit and TestNG
// source files using regex and brace counting, without a compiler front
// end. Methods nested in inner classes are attributed to the enclosing
// class whose body contains them first.
package java

import (
	"os"
	"regexp"
	"strings"

	"github.com/siftlabs/sift/pkg/framework"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/normalize"
	"github.com/siftlabs/sift/pkg/textscan"
)

var (
	packagePattern = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	importPattern  = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.*]+)\s*;`)

	classPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|abstract|final|static|strictfp)\s+)*class\s+(\w+)(?:\s*<[^>{]*>)?` +
			`(?:\s+extends\s+([\w.]+)(?:\s*<[^{]*?>)?)?(?:\s+implements\s+[^{]+?)?\s*\{`)

	methodPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|protected|private|static|final|synchronized)\s+)*` +
			`(?:<[\w,\s]+>\s+)?[\w.<>\[\],\s]+?\s+(\w+)\s*\(([^)]*)\)\s*(?:throws\s+[\w.,\s]+)?\{`)

	restAssuredChain = regexp.MustCompile(`\bgiven\s*\(`)
)

const restAssuredImport = "io.restassured"

// Extractor parses Java test sources. Stateless and safe for concurrent use.
type Extractor struct{}

// New creates a Java extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads and parses one Java file.
func (e *Extractor) ExtractFile(path string) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(string(data), path), nil
}

// Extract parses Java source text. Extraction is best effort: declarations
// the patterns do not recognize are skipped, never fatal.
func (e *Extractor) Extract(src, path string) *FileResult {
	result := &FileResult{FilePath: path}

	if m := packagePattern.FindStringSubmatch(src); m != nil {
		result.Package = m[1]
	}
	for _, m := range importPattern.FindAllStringSubmatch(src, -1) {
		result.Imports = append(result.Imports, m[1])
	}

	lines := strings.Split(src, "\n")
	fw := framework.DetectFile(result.Imports)
	restAssured := hasRestAssuredImport(result.Imports)

	for _, loc := range classPattern.FindAllStringSubmatchIndex(src, -1) {
		class := models.TestClassRecord{
			ClassName:       src[loc[2]:loc[3]],
			Package:         result.Package,
			Framework:       fw,
			Imports:         result.Imports,
			FilePath:        path,
			LineNumber:      textscan.LineNumber(src, loc[0]),
			ParentClassName: submatch(src, loc, 2),
		}
		class.Annotations = textscan.AnnotationsBefore(lines, class.LineNumber-1)

		body, bodyStart, ok := textscan.BlockAfter(src, loc[1]-1)
		if !ok && body == "" {
			result.Classes = append(result.Classes, class)
			continue
		}
		class.Methods = e.extractMethods(src, lines, body, bodyStart, fw, restAssured)
		result.Classes = append(result.Classes, class)
	}
	return result
}

// extractMethods finds annotated test methods inside one class body.
// Derived fields are computed here, once, from the annotation list.
func (e *Extractor) extractMethods(src string, lines []string, body string, bodyStart int, fw models.Framework, restAssured bool) []models.TestMethodRecord {
	var methods []models.TestMethodRecord
	for _, loc := range methodPattern.FindAllStringSubmatchIndex(body, -1) {
		declOffset := bodyStart + loc[0]
		declLine := textscan.LineNumber(src, declOffset)

		anns := textscan.AnnotationsBefore(lines, declLine-1)
		if !isTestMethod(anns) {
			continue
		}

		name := body[loc[2]:loc[3]]
		tags := normalize.Tags(anns)
		if restAssured {
			methodBody, _ := textscan.Block(body, loc[1])
			if restAssuredChain.MatchString(methodBody) {
				tags = append(tags, "api")
			}
		}

		methods = append(methods, models.TestMethodRecord{
			MethodName:      name,
			Annotations:     anns,
			Tags:            models.DedupeTags(tags),
			LineNumber:      declLine,
			IsParameterized: normalize.IsParameterized(fw, anns),
			IsDisabled:      normalize.IsDisabled(fw, anns),
		})
	}
	return methods
}

func isTestMethod(anns []models.SourceAnnotation) bool {
	for _, a := range anns {
		if normalize.IsTestAnnotation(a.Name) {
			return true
		}
	}
	return false
}

func hasRestAssuredImport(imports []string) bool {
	for _, imp := range imports {
		if strings.HasPrefix(imp, restAssuredImport) {
			return true
		}
	}
	return false
}

func submatch(src string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return src[loc[2*n]:loc[2*n+1]]
}
