// Package registration generates the non-Composer component registration
// manifest.
//
// A generation run reads an ordered list of glob patterns, expands them
// under the project base directory, drops duplicates and excluded
// components, makes the paths project-relative and writes a PHP manifest
// that require_once's every entry. The first run keeps the previous
// manifest as a single-slot backup, which Uninstall puts back.
//
// The package knows nothing about Composer itself; Plugin adapts the two
// lifecycle operations to host event names.
package registration
