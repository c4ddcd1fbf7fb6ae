package registration

import "fmt"

// Default locations, relative to the project base directory.
const (
	DefaultGlobList = "app/etc/registration_globlist.php"
	DefaultExclude  = "app/etc/NonComposerComponentRegistrationExclude.php"
	DefaultManifest = "app/etc/NonComposerComponentRegistration.php"
	DefaultBackup   = DefaultManifest + ".backup"
	DefaultIgnore   = ".ncregignore"
)

// Paths locates the files a run reads and writes. All paths are relative
// to the base directory.
type Paths struct {
	GlobList string
	Exclude  string
	Manifest string
	Backup   string
	// Ignore holds gitignore-style patterns dropped after exclusion.
	Ignore string
}

// DefaultPaths returns the conventional Magento app/etc locations.
func DefaultPaths() Paths {
	return Paths{
		GlobList: DefaultGlobList,
		Exclude:  DefaultExclude,
		Manifest: DefaultManifest,
		Backup:   DefaultBackup,
		Ignore:   DefaultIgnore,
	}
}

func (p Paths) withDefaults() Paths {
	d := DefaultPaths()
	if p.GlobList == "" {
		p.GlobList = d.GlobList
	}
	if p.Exclude == "" {
		p.Exclude = d.Exclude
	}
	if p.Manifest == "" {
		p.Manifest = d.Manifest
	}
	if p.Backup == "" {
		p.Backup = p.Manifest + ".backup"
	}
	if p.Ignore == "" {
		p.Ignore = d.Ignore
	}
	return p
}

// PathMode controls how discovered paths are recorded in the manifest.
type PathMode string

const (
	// PathModeRelative records paths relative to the base directory and
	// resolves them from the manifest's own location at load time.
	PathModeRelative PathMode = "relative"
	// PathModeAbsolute records absolute paths, as manifests written by
	// earlier releases did.
	PathModeAbsolute PathMode = "absolute"
)

// ParsePathMode validates a configured path mode. Empty means relative.
func ParsePathMode(s string) (PathMode, error) {
	switch PathMode(s) {
	case "", PathModeRelative:
		return PathModeRelative, nil
	case PathModeAbsolute:
		return PathModeAbsolute, nil
	default:
		return "", fmt.Errorf("unknown path mode %q (want %q or %q)", s, PathModeRelative, PathModeAbsolute)
	}
}
