// Package stats summarizes scan results: case counts, flag ratios, and
// the distribution of test methods per class, plus a compact per-file
// index of which source lines carry test declarations.
package stats

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/siftlabs/sift/pkg/models"
)

// Distribution describes a sample of per-class method counts.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summary is the aggregate view of one scan.
type Summary struct {
	TotalCases         int            `json:"total_cases"`
	Disabled           int            `json:"disabled"`
	Parameterized      int            `json:"parameterized"`
	DisabledRatio      float64        `json:"disabled_ratio"`
	ParameterizedRatio float64        `json:"parameterized_ratio"`
	ByFramework        map[string]int `json:"by_framework"`
	CasesPerClass      Distribution   `json:"cases_per_class"`
	FilesWithTests     int            `json:"files_with_tests"`
	DeclarationLines   int            `json:"declaration_lines"`
}

// Summarize computes the aggregate view of an inventory. Outline
// expansions count toward totals via the inventory's own counting.
func Summarize(inv models.Inventory) Summary {
	s := Summary{
		TotalCases:    inv.CountCases(),
		Disabled:      inv.CountDisabled(),
		Parameterized: inv.CountParameterized(),
		ByFramework:   inv.ByFramework(),
	}
	if len(inv.Cases) > 0 {
		s.DisabledRatio = float64(s.Disabled) / float64(len(inv.Cases))
		s.ParameterizedRatio = float64(s.Parameterized) / float64(len(inv.Cases))
	}

	perClass := make(map[string]int)
	for _, c := range inv.Cases {
		perClass[c.FilePath+"\x00"+c.ClassName]++
	}
	s.CasesPerClass = describe(counts(perClass))

	ix := NewLineIndex()
	ix.AddCases(inv.Cases)
	s.FilesWithTests = ix.CountFiles()
	s.DeclarationLines = ix.TotalLines()
	return s
}

func counts(m map[string]int) []float64 {
	xs := make([]float64, 0, len(m))
	for _, n := range m {
		xs = append(xs, float64(n))
	}
	sort.Float64s(xs)
	return xs
}

// describe reduces a sorted sample to its distribution. Empty samples
// yield the zero distribution.
func describe(sorted []float64) Distribution {
	if len(sorted) == 0 {
		return Distribution{}
	}
	return Distribution{
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.StdDev(sorted, nil),
		P50:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// LineIndex records which lines of each scanned file declare tests.
// Bitmaps keep the index small and make repeated declarations on one
// line idempotent.
type LineIndex struct {
	files map[string]*roaring.Bitmap
}

// NewLineIndex creates an empty index.
func NewLineIndex() *LineIndex {
	return &LineIndex{files: make(map[string]*roaring.Bitmap)}
}

// Add marks one declaration line. Lines at or below zero carry no
// position information and are ignored.
func (ix *LineIndex) Add(path string, line int) {
	if path == "" || line <= 0 {
		return
	}
	bm, ok := ix.files[path]
	if !ok {
		bm = roaring.New()
		ix.files[path] = bm
	}
	bm.Add(uint32(line))
}

// AddCases indexes every case's declaration line.
func (ix *LineIndex) AddCases(cases []models.NeutralTestCase) {
	for _, c := range cases {
		ix.Add(c.FilePath, c.LineNumber)
	}
}

// Lines returns the marked lines of a file in ascending order.
func (ix *LineIndex) Lines(path string) []uint32 {
	bm, ok := ix.files[path]
	if !ok {
		return nil
	}
	return bm.ToArray()
}

// Contains reports whether a line of a file is marked.
func (ix *LineIndex) Contains(path string, line int) bool {
	bm, ok := ix.files[path]
	return ok && line > 0 && bm.Contains(uint32(line))
}

// CountFiles returns the number of files with at least one marked line.
func (ix *LineIndex) CountFiles() int {
	return len(ix.files)
}

// TotalLines returns the number of distinct marked lines across all files.
func (ix *LineIndex) TotalLines() int {
	n := uint64(0)
	for _, bm := range ix.files {
		n += bm.GetCardinality()
	}
	return int(n)
}
