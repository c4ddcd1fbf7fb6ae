package registration

import (
	"path/filepath"
	"strings"
)

// Normalizer rewrites discovered paths for the manifest.
type Normalizer struct {
	baseDir string
	mode    PathMode
}

// NewNormalizer returns a Normalizer for baseDir.
func NewNormalizer(baseDir string, mode PathMode) Normalizer {
	return Normalizer{baseDir: filepath.Clean(baseDir), mode: mode}
}

// Normalize strips the base directory prefix in relative mode. Paths
// outside the base directory are kept as they are. Output always uses
// forward slashes.
func (n Normalizer) Normalize(paths []string) []string {
	prefix := n.baseDir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if n.mode != PathModeAbsolute {
			p = strings.TrimPrefix(p, prefix)
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}
