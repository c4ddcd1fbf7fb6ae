package registration

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fulmenhq/ncreg/pkg/listfile"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseDir: t.TempDir(), PathMode: "sideways"})
	assert.Error(t, err)

	o := newOrchestrator(t, Options{BaseDir: t.TempDir(), Paths: Paths{Manifest: "etc/out.php"}})
	assert.Equal(t, DefaultGlobList, o.Paths().GlobList)
	assert.Equal(t, DefaultExclude, o.Paths().Exclude)
	assert.Equal(t, "etc/out.php", o.Paths().Manifest)
	assert.Equal(t, "etc/out.php.backup", o.Paths().Backup)
	assert.True(t, filepath.IsAbs(o.BaseDir()))
	assert.Equal(t, StateIdle, o.State())
}

func TestGenerateListsAllMatches(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, StatusGenerated, res.Status)
	assert.Equal(t, StateDone, o.State())
	assert.False(t, res.BackedUp)
	assert.ElementsMatch(t, []string{
		"vendor/acme/module-foo/registration.php",
		"vendor/acme/module-bar/registration.php",
	}, res.Entries)

	entries, err := ParseManifest([]byte(readFile(t, dir, DefaultManifest)))
	require.NoError(t, err)
	assert.Equal(t, res.Entries, entries)
	assert.False(t, fileExists(t, dir, DefaultBackup))
}

func TestGenerateAppliesExclusions(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	writeFile(t, dir, DefaultExclude, "<?php\nreturn ['acme/module-bar'];\n")
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor/acme/module-foo/registration.php"}, res.Entries)
	assert.Equal(t, []string{"vendor/acme/module-bar/registration.php"}, res.Excluded)

	entries, err := ParseManifest([]byte(readFile(t, dir, DefaultManifest)))
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/acme/module-foo/registration.php"}, entries)
}

func TestGenerateSkipsWithoutGlobList(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultManifest, "previous manifest")
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, res.Status)
	assert.True(t, errors.Is(res.Reason, ErrMissingGlobList))
	assert.Equal(t, "previous manifest", readFile(t, dir, DefaultManifest))
	assert.False(t, fileExists(t, dir, DefaultBackup))
}

func TestGenerateSkipWritesNothing(t *testing.T) {
	dir := newProject(t)
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, res.Status)
	assert.False(t, fileExists(t, dir, DefaultManifest))
}

func TestGenerateBacksUpPreviousManifestOnce(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	writeFile(t, dir, DefaultManifest, "hand written manifest")
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)
	assert.True(t, res.BackedUp)
	assert.Equal(t, "hand written manifest", readFile(t, dir, DefaultBackup))
	assert.Len(t, res.Entries, 2)

	writeFile(t, dir, "vendor/acme/module-baz/registration.php", "<?php")
	res, err = o.Generate()
	require.NoError(t, err)
	assert.False(t, res.BackedUp)
	assert.Equal(t, "hand written manifest", readFile(t, dir, DefaultBackup))

	entries, err := ParseManifest([]byte(readFile(t, dir, DefaultManifest)))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestUninstallRestoresBackup(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	writeFile(t, dir, DefaultManifest, "hand written manifest")
	o := newOrchestrator(t, Options{BaseDir: dir})

	_, err := o.Generate()
	require.NoError(t, err)

	res, err := o.Uninstall()
	require.NoError(t, err)

	assert.Equal(t, StatusRestored, res.Status)
	assert.True(t, res.Restored)
	assert.Equal(t, StateDone, o.State())
	assert.Equal(t, "hand written manifest", readFile(t, dir, DefaultManifest))
	assert.False(t, fileExists(t, dir, DefaultBackup))
}

func TestUninstallWithoutBackupIsNoop(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultManifest, "generated manifest")
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Uninstall()
	require.NoError(t, err)

	assert.Equal(t, StatusNoBackup, res.Status)
	assert.False(t, res.Restored)
	assert.Equal(t, "generated manifest", readFile(t, dir, DefaultManifest))
}

func TestGenerateRoundTripMatchesPipeline(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "app/code/Acme/Foo/registration.php", "<?php")
	writeFile(t, dir, "app/code/Acme/Disabled/registration.php", "<?php")
	globs := "<?php return [\n" +
		"  'app/code/*/*/registration.php',\n" +
		"  'vendor/*/*/registration.php',\n" +
		"  'vendor/acme/module-foo/registration.php',\n" +
		"  'vendor/[broken/registration.php',\n" +
		"];"
	writeFile(t, dir, DefaultGlobList, globs)
	writeFile(t, dir, DefaultExclude, "<?php return ['Acme/Disabled'];")
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	patterns, err := listfile.Load(osfs.New(dir), DefaultGlobList)
	require.NoError(t, err)
	exp := NewExpander(nil).Expand(o.BaseDir(), patterns)
	kept, _ := NewExclusionFilter([]string{"Acme/Disabled"}).Filter(Deduplicate(exp.Paths))
	want := NewNormalizer(o.BaseDir(), PathModeRelative).Normalize(kept)

	entries, err := ParseManifest([]byte(readFile(t, dir, DefaultManifest)))
	require.NoError(t, err)
	assert.Equal(t, want, entries)
	assert.Len(t, entries, 3)
	assert.Equal(t, 5, res.Discovered)
	require.Len(t, res.FailedPatterns, 1)
	assert.Equal(t, "vendor/[broken/registration.php", res.FailedPatterns[0].Pattern)

	for _, e := range entries {
		assert.False(t, filepath.IsAbs(e), e)
		assert.True(t, fileExists(t, dir, e), e)
	}
}

func TestGenerateKeepDuplicates(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, "<?php return ['vendor/*/*/registration.php', 'vendor/*/*/registration.php'];")
	o := newOrchestrator(t, Options{BaseDir: dir, KeepDuplicates: true})

	res, err := o.Generate()
	require.NoError(t, err)
	assert.Len(t, res.Entries, 4)
}

func TestGenerateAbsoluteMode(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	o := newOrchestrator(t, Options{BaseDir: dir, PathMode: PathModeAbsolute})

	res, err := o.Generate()
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	for _, e := range res.Entries {
		assert.True(t, strings.HasPrefix(e, filepath.ToSlash(o.BaseDir())+"/"), e)
	}
	assert.Contains(t, readFile(t, dir, DefaultManifest), "require_once $registrationFile;")
}

func TestGenerateDryRunTouchesNothing(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	writeFile(t, dir, DefaultManifest, "previous")
	o := newOrchestrator(t, Options{BaseDir: dir, DryRun: true})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, StatusPlanned, res.Status)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, "previous", readFile(t, dir, DefaultManifest))
	assert.False(t, fileExists(t, dir, DefaultBackup))
}

func TestUninstallDryRun(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultManifest, "generated")
	writeFile(t, dir, DefaultBackup, "original")
	o := newOrchestrator(t, Options{BaseDir: dir, DryRun: true})

	res, err := o.Uninstall()
	require.NoError(t, err)

	assert.Equal(t, StatusPlanned, res.Status)
	assert.Equal(t, "generated", readFile(t, dir, DefaultManifest))
	assert.True(t, fileExists(t, dir, DefaultBackup))
}

func TestGenerateRejectsMalformedLists(t *testing.T) {
	t.Run("glob list", func(t *testing.T) {
		dir := newProject(t)
		writeFile(t, dir, DefaultGlobList, "<?php return 'vendor/*';")
		writeFile(t, dir, DefaultManifest, "previous")
		o := newOrchestrator(t, Options{BaseDir: dir})

		_, err := o.Generate()
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, DefaultGlobList, cfgErr.Path)
		assert.Equal(t, "previous", readFile(t, dir, DefaultManifest))
		assert.False(t, fileExists(t, dir, DefaultBackup))
	})

	t.Run("exclusion list", func(t *testing.T) {
		dir := newProject(t)
		writeFile(t, dir, DefaultGlobList, vendorGlobList)
		writeFile(t, dir, DefaultExclude, "<?php return [CONSTANT];")
		o := newOrchestrator(t, Options{BaseDir: dir})

		_, err := o.Generate()
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, DefaultExclude, cfgErr.Path)
	})
}

func TestGenerateCustomPathsAndYAMLLists(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "config/globs.yaml", "- vendor/*/*/registration.php\n")
	writeFile(t, dir, "config/exclude.json", `["acme/module-foo"]`)
	o := newOrchestrator(t, Options{
		BaseDir: dir,
		Paths: Paths{
			GlobList: "config/globs.yaml",
			Exclude:  "config/exclude.json",
			Manifest: "generated/registration.php",
		},
	})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor/acme/module-bar/registration.php"}, res.Entries)
	manifest := readFile(t, dir, "generated/registration.php")
	assert.Contains(t, manifest, "require_once __DIR__ . '/../' . $registrationFile;")
}

func TestGenerateReportsWriteFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	etc := filepath.Join(dir, "app", "etc")
	require.NoError(t, os.Chmod(etc, 0o555))
	t.Cleanup(func() { _ = os.Chmod(etc, 0o755) })
	o := newOrchestrator(t, Options{BaseDir: dir})

	_, err := o.Generate()
	assert.Error(t, err)
	assert.False(t, fileExists(t, dir, DefaultManifest))
}

func TestGenerateHonoursIgnoreFile(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	writeFile(t, dir, DefaultIgnore, "# local forks\nvendor/acme/module-bar/\n")
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor/acme/module-foo/registration.php"}, res.Entries)
	assert.Equal(t, []string{"vendor/acme/module-bar/registration.php"}, res.Ignored)
	assert.NotContains(t, readFile(t, dir, DefaultManifest), "module-bar")
}

func TestGenerateBaseDirWithGlobMetacharacters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj[1]")
	writeFile(t, dir, "vendor/acme/a/registration.php", "<?php")
	writeFile(t, dir, DefaultGlobList, vendorGlobList)
	o := newOrchestrator(t, Options{BaseDir: dir})

	res, err := o.Generate()
	require.NoError(t, err)

	assert.Empty(t, res.FailedPatterns)
	assert.Equal(t, []string{"vendor/acme/a/registration.php"}, res.Entries)
	assert.Contains(t, readFile(t, dir, DefaultManifest), "'vendor/acme/a/registration.php'")
}
