// Package pageobject extracts Selenium page-object classes: located
// elements, declared methods, PageFactory and LoadableComponent usage.
// Inheritance levels are resolved afterwards over the full class set of a
// scan, never per file, because parents routinely live in other files.
package pageobject

import (
	"os"
	"regexp"
	"strings"

	"github.com/siftlabs/sift/pkg/inheritance"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/textscan"
)

var (
	classPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|abstract|final)\s+)*class\s+(\w+)` +
			`(?:\s+extends\s+([\w.]+)(?:\s*<[^{]*?>)?)?(?:\s+implements\s+[^{]+?)?\s*\{`)

	fieldPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|protected|private|static|final)\s+)*(?:List<\s*WebElement\s*>|WebElement)\s+(\w+)\s*;`)

	methodPattern = regexp.MustCompile(
		`(?m)^[ \t]*(?:(?:public|protected|private|static|final)\s+)+[\w.<>\[\],\s]+?\s+(\w+)\s*\(([^)]*)\)\s*\{`)

	factoryPattern    = regexp.MustCompile(`PageFactory\s*\.\s*initElements`)
	loadablePattern   = regexp.MustCompile(`extends\s+LoadableComponent\b`)
	howValuePattern   = regexp.MustCompile(`How\.(\w+)`)
	packagePattern    = regexp.MustCompile(`(?m)^\s*package\s+([\w.]+)\s*;`)
	locatorStrategies = []string{
		"id", "name", "css", "xpath", "className", "linkText", "partialLinkText", "tagName",
	}
)

// Extractor parses page-object sources. Stateless.
type Extractor struct{}

// New creates a page-object extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads and parses one Java page-object file.
func (e *Extractor) ExtractFile(path string) ([]models.PageObjectClassRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(string(data), path), nil
}

// Extract parses page-object classes out of Java source text.
// InheritanceLevel is left at zero; call Resolve over the full class set.
func (e *Extractor) Extract(src, path string) []models.PageObjectClassRecord {
	var records []models.PageObjectClassRecord
	lines := strings.Split(src, "\n")

	pkg := ""
	if m := packagePattern.FindStringSubmatch(src); m != nil {
		pkg = m[1]
	}

	for _, loc := range classPattern.FindAllStringSubmatchIndex(src, -1) {
		record := models.PageObjectClassRecord{
			ClassName:       src[loc[2]:loc[3]],
			Package:         pkg,
			FilePath:        path,
			LineNumber:      textscan.LineNumber(src, loc[0]),
			ParentClassName: classSubmatch(src, loc),
		}
		record.Annotations = textscan.AnnotationsBefore(lines, record.LineNumber-1)
		record.IsLoadableComponent = loadablePattern.MatchString(src[loc[0]:loc[1]])

		body, bodyStart, _ := textscan.BlockAfter(src, loc[1]-1)
		record.Elements = extractElements(src, lines, body, bodyStart)
		record.Methods = extractMethodNames(body)
		record.UsesFactoryPattern = factoryPattern.MatchString(body)

		records = append(records, record)
	}
	return records
}

// extractElements pairs each WebElement field with its @FindBy annotation.
// Fields without one are plain dependencies, not located elements.
func extractElements(src string, lines []string, body string, bodyStart int) []models.PageElement {
	var elements []models.PageElement
	for _, loc := range fieldPattern.FindAllStringSubmatchIndex(body, -1) {
		declLine := textscan.LineNumber(src, bodyStart+loc[0])
		anns := textscan.AnnotationsBefore(lines, declLine-1)

		for _, ann := range anns {
			if strings.TrimPrefix(ann.Name, "org.openqa.selenium.support.") != "FindBy" && ann.Name != "FindBy" {
				continue
			}
			strategy, value := locatorOf(ann)
			elements = append(elements, models.PageElement{
				Name:            body[loc[2]:loc[3]],
				LocatorStrategy: strategy,
				LocatorValue:    value,
			})
			break
		}
	}
	return elements
}

// locatorOf reads the strategy/value pair from a @FindBy annotation,
// supporting both shorthand (@FindBy(id = "x")) and the explicit
// how/using form (@FindBy(how = How.ID, using = "x")).
func locatorOf(ann models.SourceAnnotation) (strategy, value string) {
	for _, key := range locatorStrategies {
		if v, ok := ann.Attr(key); ok {
			return key, v.String()
		}
	}
	how, hasHow := ann.Attr("how")
	using, hasUsing := ann.Attr("using")
	if hasHow && hasUsing {
		if m := howValuePattern.FindStringSubmatch(how.String()); m != nil {
			return strings.ToLower(m[1]), using.String()
		}
		return how.String(), using.String()
	}
	return "", ""
}

func extractMethodNames(body string) []string {
	var names []string
	for _, m := range methodPattern.FindAllStringSubmatch(body, -1) {
		names = append(names, m[1])
	}
	return names
}

// Resolve computes inheritance levels over the full discovered class set
// and writes them onto the records in place. Levels always reflect this
// set only; records are expected fresh from extraction, reading zero.
func Resolve(records []models.PageObjectClassRecord) {
	classes := make([]inheritance.Class, len(records))
	for i, r := range records {
		classes[i] = inheritance.Class{Name: r.ClassName, Parent: r.ParentClassName}
	}
	resolver := inheritance.NewResolver(classes)
	for i := range records {
		records[i].InheritanceLevel = resolver.Level(records[i].ClassName)
	}
}

// Tree returns the parent→children map over the discovered set.
func Tree(records []models.PageObjectClassRecord) map[string][]string {
	classes := make([]inheritance.Class, len(records))
	for i, r := range records {
		classes[i] = inheritance.Class{Name: r.ClassName, Parent: r.ParentClassName}
	}
	return inheritance.NewResolver(classes).Children()
}

func classSubmatch(src string, loc []int) string {
	if loc[4] < 0 {
		return ""
	}
	return src[loc[4]:loc[5]]
}
