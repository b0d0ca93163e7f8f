// Package scanner finds candidate test sources under a project root and
// routes each file to a framework kind. Selection is name-first (extension
// and directory heuristics) with a content sniff breaking ties for plain
// JS/TS files that may or may not be Cypress specs.
package scanner

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/siftlabs/sift/pkg/config"
)

// Kind routes a file to its extractor.
type Kind string

const (
	KindJava    Kind = "java"
	KindCSharp  Kind = "csharp"
	KindFeature Kind = "feature"
	KindCypress Kind = "cypress"
	KindUnknown Kind = "unknown"
)

// sniffLimit bounds how much of a JS/TS file the content sniff reads.
const sniffLimit = 8 * 1024

// Scanner finds test source files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// DetectKind classifies a path by name alone. Plain .js/.ts files outside
// a cypress directory come back unknown; ScanDir sniffs their content.
func DetectKind(path string) Kind {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".java"):
		return KindJava
	case strings.HasSuffix(base, ".cs"):
		return KindCSharp
	case strings.HasSuffix(base, ".feature"):
		return KindFeature
	case strings.HasSuffix(base, ".cy.js"), strings.HasSuffix(base, ".cy.ts"),
		strings.HasSuffix(base, ".spec.js"), strings.HasSuffix(base, ".spec.ts"):
		return KindCypress
	case strings.HasSuffix(base, ".js"), strings.HasSuffix(base, ".ts"):
		if underCypressDir(path) {
			return KindCypress
		}
		return KindUnknown
	default:
		return KindUnknown
	}
}

func underCypressDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "cypress" || part == "e2e" || part == "integration" {
			return true
		}
	}
	return false
}

// sniffCypress reports whether the head of a JS/TS file reads like a
// Cypress spec.
func sniffCypress(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, sniffLimit))
	if err != nil {
		return false
	}
	text := string(head)
	return strings.Contains(text, "cy.") || strings.Contains(text, "Cypress.")
}

// findGitRoot finds the root of the git repository by looking for the .git
// directory. Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns loads exclusion patterns from both config and
// .gitignore files. Config patterns are parsed as gitignore syntax.
func (s *Scanner) loadExcludePatterns(root string) {
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	// ReadPatterns recursively reads every .gitignore in the tree
	if s.config.Exclude.Gitignore {
		gitRoot := findGitRoot(root)
		if gitRoot != "" {
			fs := osfs.New(gitRoot)
			if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isExcluded checks if a path matches any exclusion pattern.
func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	pathParts := strings.Split(path, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(pathParts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for test source files, grouped by
// framework kind. Paths are validated to stay within the root so symlinks
// cannot pull in files from outside the scanned tree.
func (s *Scanner) ScanDir(root string) (map[Kind][]string, error) {
	files := make(map[Kind][]string)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(root)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, true) || s.config.ShouldExclude(relPath+string(filepath.Separator)) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) || s.config.ShouldExclude(relPath) {
			return nil
		}

		kind := DetectKind(path)
		if kind == KindUnknown && isScript(path) && sniffCypress(path) {
			kind = KindCypress
		}
		if kind != KindUnknown {
			files[kind] = append(files[kind], path)
		}

		return nil
	})

	return files, walkErr
}

func isScript(path string) bool {
	return strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".ts")
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Separator suffix prevents "/root2" matching "/root"
	if !strings.HasPrefix(absPath, root+string(filepath.Separator)) && absPath != root {
		return false
	}

	return true
}

// ScanFile classifies a single file, honoring exclusion patterns.
func (s *Scanner) ScanFile(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return KindUnknown, err
	}

	if info.IsDir() {
		return KindUnknown, nil
	}

	if len(s.matchers) == 0 {
		s.loadExcludePatterns(filepath.Dir(path))
	}

	if s.isExcluded(filepath.Base(path), false) {
		return KindUnknown, nil
	}

	kind := DetectKind(path)
	if kind == KindUnknown && isScript(path) && sniffCypress(path) {
		kind = KindCypress
	}
	return kind, nil
}

// Flatten returns all scanned paths as one sorted-by-kind list, Java first.
func Flatten(files map[Kind][]string) []string {
	var out []string
	for _, kind := range []Kind{KindJava, KindCSharp, KindFeature, KindCypress} {
		out = append(out, files[kind]...)
	}
	return out
}

// FilterBySize drops files that exceed maxSize bytes. Returns the filtered
// list and the count of files that were skipped. A zero maxSize disables
// the limit.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			skipped++
			continue
		}
		if info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}

	return filtered, skipped
}
