package registration

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/ncreg/pkg/phpliteral"
	"github.com/fulmenhq/ncreg/pkg/safeio"
	"github.com/go-git/go-billy/v5"
)

// ManifestVariable is the PHP variable holding the entry list.
const ManifestVariable = "registrationFiles"

// ManifestWriter renders and writes the PHP manifest.
type ManifestWriter struct {
	fs   billy.Filesystem
	mode PathMode
}

// NewManifestWriter returns a writer over fs.
func NewManifestWriter(fs billy.Filesystem, mode PathMode) *ManifestWriter {
	return &ManifestWriter{fs: fs, mode: mode}
}

// LoaderPrefix returns the string appended to __DIR__ to get from the
// manifest's directory back to the base directory, e.g. "/../../" for
// app/etc/NonComposerComponentRegistration.php.
func LoaderPrefix(manifestPath string) string {
	dir := path.Dir(path.Clean(filepath.ToSlash(manifestPath)))
	if dir == "." || dir == "/" {
		return "/"
	}
	depth := len(strings.Split(strings.Trim(dir, "/"), "/"))
	return "/" + strings.Repeat("../", depth)
}

// Render returns the manifest source for entries.
func (w *ManifestWriter) Render(manifestPath string, entries []string) []byte {
	var b strings.Builder
	b.WriteString("<?php\n\n")
	fmt.Fprintf(&b, "$%s = %s;\n\n", ManifestVariable, phpliteral.Export(entries))
	fmt.Fprintf(&b, "foreach ($%s as $registrationFile) {\n", ManifestVariable)
	if w.mode == PathModeAbsolute {
		b.WriteString("    require_once $registrationFile;\n")
	} else {
		fmt.Fprintf(&b, "    require_once __DIR__ . %s . $registrationFile;\n", phpliteral.Quote(LoaderPrefix(manifestPath)))
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

// Write replaces the manifest at manifestPath in one rename.
func (w *ManifestWriter) Write(manifestPath string, entries []string) error {
	return safeio.WriteFileAtomic(w.fs, manifestPath, w.Render(manifestPath, entries))
}

// ParseManifest returns the entry list embedded in a generated manifest.
func ParseManifest(data []byte) ([]string, error) {
	return phpliteral.ParseVariable(data, ManifestVariable)
}

// ReadManifest loads and parses the manifest at manifestPath.
func ReadManifest(fs billy.Filesystem, manifestPath string) ([]string, error) {
	data, err := safeio.ReadFile(fs, manifestPath)
	if err != nil {
		return nil, err
	}
	entries, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestPath, err)
	}
	return entries, nil
}
