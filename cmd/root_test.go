package cmd

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/ncreg/internal/registration"
	"github.com/fulmenhq/ncreg/pkg/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vendorGlobList = "<?php\nreturn [\n    'vendor/*/*/registration.php',\n];\n"

// execRoot runs args against a fresh command tree and returns stdout and stderr.
func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	registerSubcommands(root)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	// Reduce log noise to capture clean command output for JSON parsing
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func readFile(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// newProject lays out a base directory with two vendor components and a glob list.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "vendor/acme/module-foo/registration.php", "<?php // foo")
	writeFile(t, dir, "vendor/acme/module-bar/registration.php", "<?php // bar")
	writeFile(t, dir, registration.DefaultGlobList, vendorGlobList)
	return dir
}

func TestRootCommand_Structure(t *testing.T) {
	root := newRootCommand()
	registerSubcommands(root)

	assert.Equal(t, "ncreg", root.Use)
	for _, name := range []string{"generate", "uninstall", "list", "hook", "version"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"log-level", "json-logs", "no-color", "no-op", "base-dir", "config"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", &exitcode.ConfigErr{Err: errors.New("bad")}, exitcode.ConfigError},
		{"list parse", &registration.ConfigError{Path: "x.php", Err: errors.New("bad")}, exitcode.ConfigError},
		{"filesystem", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, exitcode.FileSystemError},
		{"permission", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}, exitcode.PermissionError},
		{"other", errors.New("boom"), exitcode.GeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestRoot_InvalidConfigFile(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, ".ncreg.yaml", "manifest:\n  path_mode: sideways\n")

	_, _, err := execRoot(t, "generate", "--base-dir", dir)
	require.Error(t, err)
	assert.Equal(t, exitcode.ConfigError, exitCodeFor(err))
}
