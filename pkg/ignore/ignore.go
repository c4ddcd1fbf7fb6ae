// Package ignore provides gitignore-style path filtering using go-git
package ignore

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultFile is the ignore file looked up at the project base directory.
const DefaultFile = ".ncregignore"

// Matcher provides gitignore-based path filtering
type Matcher struct {
	matcher  gitignore.Matcher
	patterns int
}

// New builds a matcher from gitignore-syntax lines. Blank lines and
// comments are skipped.
func New(lines []string) *Matcher {
	var patterns []gitignore.Pattern
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return &Matcher{matcher: gitignore.NewMatcher(patterns), patterns: len(patterns)}
}

// Load reads name from fsys. A missing file yields an empty matcher.
func Load(fsys billy.Basic, name string) (*Matcher, error) {
	content, err := util.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return New(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return New(strings.Split(string(content), "\n")), nil
}

// Empty reports whether the matcher has no patterns.
func (m *Matcher) Empty() bool {
	return m == nil || m.patterns == 0
}

// IsIgnored checks whether the slash-separated path rel, relative to the
// directory holding the ignore file, matches.
func (m *Matcher) IsIgnored(rel string) bool {
	if m.Empty() {
		return false
	}
	parts := splitPath(filepath.ToSlash(rel))
	if len(parts) == 0 || parts[0] == ".." {
		return false
	}
	return m.matcher.Match(parts, false)
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	if path == "" || path == "." {
		return []string{}
	}

	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
