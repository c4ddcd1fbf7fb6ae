package registration

import (
	"path"
	"path/filepath"
	"strings"
)

// ExclusionKey returns the last two segments of the directory containing
// p, joined by "/". For vendor/acme/module-foo/registration.php that is
// "acme/module-foo".
func ExclusionKey(p string) string {
	dir := path.Dir(filepath.ToSlash(p))
	parts := strings.Split(dir, "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return strings.Join(parts, "/")
}

// ExclusionFilter drops registration files whose ExclusionKey is listed.
type ExclusionFilter struct {
	keys map[string]struct{}
}

// NewExclusionFilter builds a filter from exclusion entries. Entries are
// matched exactly.
func NewExclusionFilter(entries []string) *ExclusionFilter {
	keys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		keys[e] = struct{}{}
	}
	return &ExclusionFilter{keys: keys}
}

// Excludes reports whether p would be dropped.
func (f *ExclusionFilter) Excludes(p string) bool {
	if f == nil || len(f.keys) == 0 {
		return false
	}
	_, ok := f.keys[ExclusionKey(p)]
	return ok
}

// Filter returns the kept paths in their original order, plus the ones
// that were dropped.
func (f *ExclusionFilter) Filter(paths []string) (kept, excluded []string) {
	kept = make([]string, 0, len(paths))
	for _, p := range paths {
		if f.Excludes(p) {
			excluded = append(excluded, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, excluded
}
