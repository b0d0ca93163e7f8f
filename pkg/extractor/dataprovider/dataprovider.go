// Package dataprovider discovers TestNG @DataProvider methods and
// classifies where each one actually gets its rows from.
package dataprovider

import (
	"os"
	"regexp"
	"strings"

	"github.com/siftlabs/sift/pkg/datasource"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/textscan"
)

var (
	methodPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|protected|private|static|final)\s+)*[\w.<>\[\],\s]+?\s+(\w+)\s*\(([^)]*)\)\s*(?:throws\s+[\w.,\s]+)?\{`)

	classPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|abstract|final|static)\s+)*class\s+(\w+)`)
)

// Extractor finds data-provider methods in Java sources. Stateless.
type Extractor struct{}

// New creates a data-provider extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads and parses one Java file.
func (e *Extractor) ExtractFile(path string) ([]models.DataProviderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(string(data), path), nil
}

// Extract returns every @DataProvider-annotated method in the source,
// in declaration order, with its data source classified from the body.
func (e *Extractor) Extract(src, path string) []models.DataProviderRecord {
	var records []models.DataProviderRecord
	lines := strings.Split(src, "\n")
	classes := classPattern.FindAllStringSubmatchIndex(src, -1)

	for _, loc := range methodPattern.FindAllStringSubmatchIndex(src, -1) {
		line := textscan.LineNumber(src, loc[0])
		ann, ok := providerAnnotation(textscan.AnnotationsBefore(lines, line-1))
		if !ok {
			continue
		}

		methodName := src[loc[2]:loc[3]]
		record := models.DataProviderRecord{
			MethodName: methodName,
			Name:       providerName(ann, methodName),
			Parameters: parameterNames(src[loc[4]:loc[5]]),
			ClassName:  enclosingClass(src, classes, loc[0]),
			FilePath:   path,
			LineNumber: line,
		}
		if parallel, has := ann.Attr("parallel"); has {
			record.IsParallel = parallel.IsTrue()
		}

		body, _ := textscan.Block(src, loc[1])
		c := datasource.Classify(body)
		record.DataSource = c.Source
		record.SourceFile = c.SourceFile
		record.SheetName = c.SheetName
		record.StartRow = c.StartRow
		record.Delegate = c.Delegate

		records = append(records, record)
	}
	return records
}

// enclosingClass names the last class declared before the method offset.
func enclosingClass(src string, classes [][]int, offset int) string {
	name := ""
	for _, c := range classes {
		if c[0] > offset {
			break
		}
		name = src[c[2]:c[3]]
	}
	return name
}

func providerAnnotation(anns []models.SourceAnnotation) (models.SourceAnnotation, bool) {
	for _, ann := range anns {
		if ann.Name == "DataProvider" || strings.HasSuffix(ann.Name, ".DataProvider") {
			return ann, true
		}
	}
	return models.SourceAnnotation{}, false
}

// providerName prefers the annotation's name attribute; TestNG falls back
// to the method name when none is given, and so do we.
func providerName(ann models.SourceAnnotation, methodName string) string {
	if name, ok := ann.Attr("name"); ok && name.String() != "" {
		return name.String()
	}
	return methodName
}

// parameterNames lists the declared parameter names, capped at
// MaxProviderParameters so a pathological signature cannot balloon records.
// Generic type arguments are stripped first so their commas cannot split a
// single parameter in two.
func parameterNames(params string) []string {
	var names []string
	for _, part := range textscan.SplitTopLevel(stripGenerics(params), ',') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		names = append(names, fields[len(fields)-1])
		if len(names) == models.MaxProviderParameters {
			break
		}
	}
	return names
}

func stripGenerics(s string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				continue
			}
		}
		if depth == 0 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
