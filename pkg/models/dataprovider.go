package models

// DataSource classifies where a data-provider method sources its rows.
type DataSource string

const (
	SourceInline         DataSource = "inline"
	SourceExcel          DataSource = "excel"
	SourceCSV            DataSource = "csv"
	SourceJSON           DataSource = "json"
	SourceDatabase       DataSource = "database"
	SourceMethodDelegate DataSource = "method_delegate"
	SourceUnknown        DataSource = "unknown"
)

// MaxProviderParameters caps the recorded parameter list of a provider.
// Providers with more parameters keep the first N; the overflow carries no
// signal for migration.
const MaxProviderParameters = 10

// DataProviderRecord describes one TestNG @DataProvider method.
// SourceFile, SheetName, and StartRow are secondary fields populated only
// when the matching textual pattern is present; they are never guessed.
type DataProviderRecord struct {
	Name       string     `json:"name"`
	MethodName string     `json:"method_name"`
	DataSource DataSource `json:"data_source"`
	SourceFile string     `json:"source_file,omitempty"`
	SheetName  string     `json:"sheet_name,omitempty"`
	StartRow   int        `json:"start_row,omitempty"`
	Delegate   string     `json:"delegate,omitempty"`
	Parameters []string   `json:"parameters,omitempty"`
	IsParallel bool       `json:"is_parallel"`
	LineNumber int        `json:"line_number,omitempty"`
	FilePath   string     `json:"file_path,omitempty"`
	ClassName  string     `json:"class_name,omitempty"`
}
