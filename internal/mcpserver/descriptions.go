package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// how to interpret results, and key fields.

func describeScanTests() string {
	return `Scans a repository for test definitions across JUnit 4/5, TestNG, Behave/Gherkin, xUnit/SpecFlow, and Cypress, and normalizes them into framework-neutral test case records.

USE WHEN:
- Building an inventory of an unfamiliar test suite
- Planning a framework migration and needing the full case list
- Checking how many tests are disabled or parameterized
- Locating a specific test by class or method name

INTERPRETING RESULTS:
- framework: source framework per case (junit5, junit4, testng, behave, xunit, specflow, cypress)
- is_disabled: the case is skipped at run time (@Disabled, @Ignore, Skip attribute, it.skip)
- is_parameterized: the case runs once per data row
- tags: deduplicated union of class-level and method-level tags
- primary_framework: single framework representing the project (TestNG over JUnit 5 over JUnit 4)
- Scenario outlines are reported separately and not flattened into cases

FIELDS RETURNED:
- cases: neutral test case records with file path and line number
- outlines: Gherkin scenario outlines with Examples tables
- data_providers, page_objects: supporting inventories when present
- stats: counts, disabled/parameterized ratios, per-framework distribution`
}

func describeExpandOutlines() string {
	return `Extracts Gherkin Scenario Outlines and expands each Examples table row into a concrete test case.

USE WHEN:
- Counting the real number of executable cases a feature file produces
- Reviewing which parameter combinations a suite covers
- Auditing Examples tables for malformed rows

INTERPRETING RESULTS:
- total_cases: valid rows across all Examples tables of the outline
- row_mismatches: rows whose cell count differs from the header; they are
  surfaced as defects and skipped during expansion, never silently dropped
- expanded cases substitute <placeholder> tokens with row values; unmatched
  placeholders stay verbatim

FIELDS RETURNED:
- outlines: per-feature outline records with steps, tags, and tables
- expanded: concrete cases per row when expansion is requested`
}

func describeClassifyProviders() string {
	return `Finds TestNG @DataProvider methods and classifies where each one sources its rows.

USE WHEN:
- Mapping external data dependencies of a TestNG suite
- Planning data migration (for example from Excel sheets to inline data)
- Finding providers that delegate to other providers

INTERPRETING RESULTS:
- data_source: one of inline, excel, csv, json, database, method_delegate, unknown
- Classification uses a fixed precedence; the first matching signal wins
- source_file, sheet_name, start_row are populated only when the matching
  textual pattern is present, never guessed
- is_parallel mirrors the parallel attribute on the annotation

FIELDS RETURNED:
- providers: name, method, enclosing class, classification, parameters, file and line`
}

func describePageObjectTree() string {
	return `Extracts Selenium page-object classes and resolves their inheritance hierarchy.

USE WHEN:
- Understanding the page-object layering of a UI test suite
- Finding every located element and its locator strategy
- Identifying base classes shared across page objects

INTERPRETING RESULTS:
- inheritance_level: ancestors present in the scanned set; a parent defined
  outside the scan counts as a level-0 root, cycles degrade to 0
- elements pair a WebElement field with its @FindBy locator; fields without
  one are plain dependencies and are not listed
- uses_factory_pattern and is_loadable_component flag PageFactory and
  LoadableComponent usage

FIELDS RETURNED:
- classes: per-class record with elements, methods, and inheritance level
- tree: parent class name mapped to its children, sorted`
}

func describeDetectFrameworks() string {
	return `Detects test frameworks from import statements, per file and project-wide.

USE WHEN:
- Determining what a mixed or mid-migration repository actually runs
- Choosing extraction settings before a full scan

INTERPRETING RESULTS:
- JUnit 5 (Jupiter imports) shadows legacy JUnit 4 imports in the same file
- TestNG detection is independent and can co-exist with either JUnit variant
- primary: fixed priority order TestNG, then JUnit 5, then JUnit 4; this
  resolves migration ambiguity the same way every run
- The project walk short-circuits once every detectable framework is seen

FIELDS RETURNED:
- per_file: framework resolved for each scanned file
- detected: all frameworks observed, in priority order
- primary: the single project framework`
}
