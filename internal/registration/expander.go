package registration

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/ncreg/pkg/logger"
)

// Logger is the subset of *logger.Logger used by this package.
type Logger interface {
	Debug(message string, fields ...logger.Field)
	Info(message string, fields ...logger.Field)
	Warn(message string, fields ...logger.Field)
}

// PatternFailure records a pattern that could not be resolved.
type PatternFailure struct {
	Pattern string
	Err     error
}

// Expansion is the flat result of expanding a pattern list.
type Expansion struct {
	Paths  []string
	Failed []PatternFailure
}

// Expander resolves glob patterns against the filesystem.
type Expander struct {
	log Logger
}

// NewExpander returns an Expander that reports failed patterns to log.
func NewExpander(log Logger) *Expander {
	if log == nil {
		log = logger.Nop()
	}
	return &Expander{log: log}
}

// Expand resolves every pattern under baseDir and concatenates the matches
// in pattern order. Match order inside a pattern is whatever the glob
// walk yields. A pattern that errors contributes nothing and is recorded
// in Failed. baseDir is never interpreted as a pattern.
func (e *Expander) Expand(baseDir string, patterns []string) Expansion {
	var out Expansion
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		matches, err := globUnder(baseDir, pattern)
		if err != nil {
			e.log.Warn("Skipping glob pattern that failed to resolve",
				logger.String("pattern", pattern), logger.Err(err))
			out.Failed = append(out.Failed, PatternFailure{Pattern: pattern, Err: err})
			continue
		}
		e.log.Debug("Expanded glob pattern",
			logger.String("pattern", pattern), logger.Int("matches", len(matches)))
		out.Paths = append(out.Paths, matches...)
	}
	return out
}

// globUnder matches pattern relative to root. Leading ".." segments move
// the root up instead of becoming part of the pattern. Like shell glob,
// wildcards do not match names starting with a dot unless the pattern
// segment itself starts with one.
func globUnder(root, pattern string) ([]string, error) {
	rel := strings.TrimPrefix(path.Clean(filepath.ToSlash(pattern)), "/")
	for rel == ".." || strings.HasPrefix(rel, "../") {
		root = filepath.Dir(root)
		rel = strings.TrimPrefix(strings.TrimPrefix(rel, ".."), "/")
	}
	if rel == "" || rel == "." {
		rel = "."
	}

	matches, err := doublestar.Glob(os.DirFS(root), rel)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if hidesDotEntry(rel, m) {
			continue
		}
		out = append(out, filepath.Join(root, filepath.FromSlash(m)))
	}
	return out, nil
}

// hidesDotEntry reports whether match passes through a dot-named entry
// that no dot-prefixed segment of pattern accounts for.
func hidesDotEntry(pattern, match string) bool {
	var dotSegments []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ".") {
			dotSegments = append(dotSegments, seg)
		}
	}
	for _, seg := range strings.Split(match, "/") {
		if !strings.HasPrefix(seg, ".") || seg == "." || seg == ".." {
			continue
		}
		allowed := false
		for _, p := range dotSegments {
			if ok, _ := doublestar.Match(p, seg); ok {
				allowed = true
				break
			}
		}
		if !allowed {
			return true
		}
	}
	return false
}

// Deduplicate drops repeated paths, keeping the first occurrence.
func Deduplicate(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
