package models

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NeutralTestCase is the terminal normalized form: one executable test,
// independent of source framework syntax. It is the only entity exposed
// across the engine boundary; everything else is working representation.
type NeutralTestCase struct {
	Framework   string   `json:"framework" yaml:"framework"`
	Package     string   `json:"package,omitempty" yaml:"package,omitempty"`
	ClassName   string   `json:"class_name" yaml:"class_name"`
	MethodName  string   `json:"method_name" yaml:"method_name"`
	Annotations []string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// DataDependencies names external data the test reads (fixture files,
	// provider source files). Descriptive only; not part of the identity.
	DataDependencies []string `json:"data_dependencies,omitempty" yaml:"data_dependencies,omitempty"`

	FilePath        string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	LineNumber      int    `json:"line_number,omitempty" yaml:"line_number,omitempty"`
	IsParameterized bool   `json:"is_parameterized" yaml:"is_parameterized"`
	IsDisabled      bool   `json:"is_disabled" yaml:"is_disabled"`
}

// QualifiedName returns package.Class#method for display.
func (c NeutralTestCase) QualifiedName() string {
	name := c.ClassName + "#" + c.MethodName
	if c.Package != "" {
		name = c.Package + "." + name
	}
	return name
}

// ID returns a stable fingerprint of the identity fields. Two extractions
// of unchanged source yield identical IDs, which callers use for dedup and
// idempotence checks.
func (c NeutralTestCase) ID() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%d\x00%s",
		c.Framework, c.Package, c.ClassName, c.MethodName, c.LineNumber,
		strings.Join(c.Tags, ","))
	return h.Sum64()
}

// Inventory is the full result of one project scan.
type Inventory struct {
	RootPath      string                  `json:"root_path" yaml:"root_path"`
	Primary       Framework               `json:"primary_framework" yaml:"primary_framework"`
	Cases         []NeutralTestCase       `json:"cases,omitempty" yaml:"cases,omitempty"`
	PageObjects   []PageObjectClassRecord `json:"page_objects,omitempty" yaml:"page_objects,omitempty"`
	DataProviders []DataProviderRecord    `json:"data_providers,omitempty" yaml:"data_providers,omitempty"`
	Outlines      []ScenarioOutlineRecord `json:"outlines,omitempty" yaml:"outlines,omitempty"`
}

// CountCases returns the number of neutral cases plus the cases every
// outline would expand to.
func (inv Inventory) CountCases() int {
	n := len(inv.Cases)
	for _, o := range inv.Outlines {
		n += o.TotalCases()
	}
	return n
}

// CountDisabled returns the number of disabled neutral cases.
func (inv Inventory) CountDisabled() int {
	n := 0
	for _, c := range inv.Cases {
		if c.IsDisabled {
			n++
		}
	}
	return n
}

// CountParameterized returns the number of parameterized neutral cases.
func (inv Inventory) CountParameterized() int {
	n := 0
	for _, c := range inv.Cases {
		if c.IsParameterized {
			n++
		}
	}
	return n
}

// ByFramework returns case counts keyed by framework identifier.
func (inv Inventory) ByFramework() map[string]int {
	counts := make(map[string]int)
	for _, c := range inv.Cases {
		counts[c.Framework]++
	}
	return counts
}
