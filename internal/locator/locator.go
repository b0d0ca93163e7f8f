// Package locator resolves a focus argument to a concrete target: a
// source file (exact path, glob, or basename) or a test identified by
// class or method name from a scan inventory.
package locator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/siftlabs/sift/pkg/models"
)

// TargetType indicates whether the focus resolved to a file or a test.
type TargetType string

const (
	TargetFile TargetType = "file"
	TargetTest TargetType = "test"
)

// Candidate represents an ambiguous match option.
type Candidate struct {
	Path      string
	Qualified string
	Line      int
}

// Result contains the resolved target or the ambiguous candidates.
type Result struct {
	Type       TargetType
	Path       string
	Case       *models.NeutralTestCase
	Candidates []Candidate
}

var (
	ErrNotFound       = errors.New("no file or test found")
	ErrAmbiguousMatch = errors.New("ambiguous match")
)

// Options configures the Locate behavior.
type Options struct {
	BaseDir string
}

// Option is a functional option for Locate.
type Option func(*Options)

// WithBaseDir sets the base directory for glob and basename searches.
func WithBaseDir(dir string) Option {
	return func(o *Options) {
		o.BaseDir = dir
	}
}

// Locate resolves a focus target to a file or a test case.
// Resolution order: exact path -> glob -> basename -> class/method name.
func Locate(focus string, cases []models.NeutralTestCase, opts ...Option) (*Result, error) {
	options := &Options{
		BaseDir: ".",
	}
	for _, opt := range opts {
		opt(options)
	}

	// Try exact file path first
	if info, err := os.Stat(focus); err == nil && !info.IsDir() {
		return &Result{
			Type: TargetFile,
			Path: focus,
		}, nil
	}

	// Try glob pattern if contains glob characters
	if containsGlobChars(focus) {
		return locateByGlob(focus, options.BaseDir)
	}

	// Try basename search if looks like a filename (has extension)
	if looksLikeFilename(focus) {
		return locateByBasename(focus, options.BaseDir)
	}

	return locateByName(focus, cases)
}

func containsGlobChars(s string) bool {
	return strings.Contains(s, "*") || strings.Contains(s, "?") || strings.Contains(s, "[")
}

func locateByGlob(pattern, baseDir string) (*Result, error) {
	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	var absPaths []string
	for _, m := range matches {
		absPaths = append(absPaths, filepath.Join(baseDir, m))
	}

	if len(absPaths) == 1 {
		return &Result{
			Type: TargetFile,
			Path: absPaths[0],
		}, nil
	}

	candidates := make([]Candidate, len(absPaths))
	for i, p := range absPaths {
		candidates[i] = Candidate{Path: p}
	}
	return &Result{Candidates: candidates}, ErrAmbiguousMatch
}

func looksLikeFilename(s string) bool {
	ext := filepath.Ext(s)
	return ext != "" && !strings.Contains(s, string(filepath.Separator))
}

func locateByBasename(filename, baseDir string) (*Result, error) {
	pattern := "**/" + filename
	return locateByGlob(pattern, baseDir)
}

// locateByName matches the focus against case identities, loosest last:
// an exact qualified name, then Class#method, then a bare class or
// method name.
func locateByName(name string, cases []models.NeutralTestCase) (*Result, error) {
	var matches []models.NeutralTestCase
	for _, c := range cases {
		if c.QualifiedName() == name ||
			c.ClassName+"#"+c.MethodName == name ||
			c.ClassName == name ||
			c.MethodName == name {
			matches = append(matches, c)
		}
	}

	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	if len(matches) == 1 {
		return &Result{
			Type: TargetTest,
			Path: matches[0].FilePath,
			Case: &matches[0],
		}, nil
	}

	candidates := make([]Candidate, len(matches))
	for i, m := range matches {
		candidates[i] = Candidate{
			Path:      m.FilePath,
			Qualified: m.QualifiedName(),
			Line:      m.LineNumber,
		}
	}
	return &Result{Candidates: candidates}, ErrAmbiguousMatch
}
