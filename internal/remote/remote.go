// Package remote resolves scan arguments that name a git repository
// instead of a local directory, and fetches them into a temporary clone
// so the scanner can walk them like any other tree.
package remote

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to scan.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after Fetch
}

// Parse detects whether a path is a remote reference. A path that exists
// on the filesystem is never treated as remote; it returns nil for both
// local paths and strings that look like neither.
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	// Extract ref from path@ref syntax. git@host URLs keep their prefix.
	ref := ""
	if idx := strings.LastIndex(path, "@"); idx > 0 {
		ref = path[idx+1:]
		path = path[:idx]
	}

	if strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasSuffix(path, ".git") {
		return &Source{URL: path, Ref: ref}, nil
	}

	// GitHub shorthand: owner/repo (exactly one slash, no dots before it)
	if isGitHubShorthand(path) {
		return &Source{
			URL: "https://github.com/" + path,
			Ref: ref,
		}, nil
	}

	return nil, nil
}

// isGitHubShorthand returns true if path matches the owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	// Dots before the slash would indicate a domain, not an owner.
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Fetch clones the source into a temporary directory and returns it.
// Without a ref the clone is shallow; with one the full history is
// fetched so tags and SHAs resolve. The caller removes the directory
// via Cleanup.
func (s *Source) Fetch(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "sift-clone-")
	if err != nil {
		return "", fmt.Errorf("failed to create clone directory: %w", err)
	}

	opts := &git.CloneOptions{URL: s.URL}
	if s.Ref == "" {
		opts.Depth = 1
		opts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("failed to clone %s: %w", s.URL, err)
	}

	if s.Ref != "" {
		hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
		if err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("failed to resolve ref %q in %s: %w", s.Ref, s.URL, err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			os.RemoveAll(dir)
			return "", err
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("failed to checkout %q: %w", s.Ref, err)
		}
	}

	s.CloneDir = dir
	return dir, nil
}

// Cleanup removes the clone directory. Safe to call when Fetch failed.
func (s *Source) Cleanup() {
	if s.CloneDir != "" {
		os.RemoveAll(s.CloneDir)
		s.CloneDir = ""
	}
}
