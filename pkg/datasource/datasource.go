// Package datasource classifies TestNG data-provider method bodies into a
// fixed set of source kinds using ordered heuristic matching. A body can
// textually match more than one heuristic (a CSV loader with an inline
// fallback array, say); the first category in the fixed precedence order
// wins, and that order is load-bearing for downstream code generation:
//
//	excel → csv → json → database → inline → method delegate → unknown
package datasource

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/siftlabs/sift/pkg/models"
)

// Classification is the result of classifying one provider body.
// SourceFile, SheetName, and StartRow are populated only when the matching
// textual pattern is present; absence leaves them zero, never guessed.
type Classification struct {
	Source     models.DataSource `json:"source"`
	SourceFile string            `json:"source_file,omitempty"`
	SheetName  string            `json:"sheet_name,omitempty"`
	StartRow   int               `json:"start_row,omitempty"`
	Delegate   string            `json:"delegate,omitempty"`
}

var (
	excelPattern = regexp.MustCompile(`ExcelUtils|XSSFWorkbook|HSSFWorkbook|WorkbookFactory|\.getSheet|"[^"]+\.xlsx?"`)
	csvPattern   = regexp.MustCompile(`CSVReader|CSVParser|CSVFormat|readCsv|"[^"]+\.csv"`)
	jsonPattern  = regexp.MustCompile(`ObjectMapper|JSONObject|JsonParser|JsonPath|Gson|readJson|"[^"]+\.json"`)
	dbPattern    = regexp.MustCompile(`DriverManager|DataSource|createStatement|executeQuery|ResultSet|"jdbc:`)
	// two-dimensional array literal or explicit Object[][] construction
	inlinePattern = regexp.MustCompile(`new\s+\w+\s*\[\s*\]\s*\[\s*\]|\{\s*\{`)
	// a body that is a single `return otherMethod(...)` delegates its data
	delegatePattern = regexp.MustCompile(`^\s*return\s+([A-Za-z_]\w*)\s*\([^)]*\)\s*;?\s*\}?\s*$`)

	quotedFile = map[models.DataSource]*regexp.Regexp{
		models.SourceExcel: regexp.MustCompile(`"([^"]+\.xlsx?)"`),
		models.SourceCSV:   regexp.MustCompile(`"([^"]+\.csv)"`),
		models.SourceJSON:  regexp.MustCompile(`"([^"]+\.json)"`),
	}

	sheetNamePattern = regexp.MustCompile(`getSheet\s*\(\s*"([^"]+)"\s*\)`)
	startRowPattern  = regexp.MustCompile(`(?:startRow|rowStart|firstRow)\s*=\s*(\d+)|for\s*\(\s*int\s+\w+\s*=\s*([1-9]\d*)\s*;`)
)

// Classify assigns exactly one data-source kind to a provider body.
func Classify(body string) Classification {
	switch {
	case excelPattern.MatchString(body):
		c := Classification{Source: models.SourceExcel, SourceFile: sourceFile(models.SourceExcel, body)}
		if m := sheetNamePattern.FindStringSubmatch(body); m != nil {
			c.SheetName = m[1]
		}
		if m := startRowPattern.FindStringSubmatch(body); m != nil {
			raw := m[1]
			if raw == "" {
				raw = m[2]
			}
			c.StartRow, _ = strconv.Atoi(raw)
		}
		return c
	case csvPattern.MatchString(body):
		return Classification{Source: models.SourceCSV, SourceFile: sourceFile(models.SourceCSV, body)}
	case jsonPattern.MatchString(body):
		return Classification{Source: models.SourceJSON, SourceFile: sourceFile(models.SourceJSON, body)}
	case dbPattern.MatchString(body):
		return Classification{Source: models.SourceDatabase}
	case inlinePattern.MatchString(body):
		return Classification{Source: models.SourceInline}
	}

	if m := delegatePattern.FindStringSubmatch(strings.TrimSpace(body)); m != nil {
		return Classification{Source: models.SourceMethodDelegate, Delegate: m[1]}
	}

	return Classification{Source: models.SourceUnknown}
}

func sourceFile(kind models.DataSource, body string) string {
	if m := quotedFile[kind].FindStringSubmatch(body); m != nil {
		return m[1]
	}
	return ""
}
