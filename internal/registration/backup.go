package registration

import (
	"fmt"

	"github.com/fulmenhq/ncreg/pkg/safeio"
	"github.com/go-git/go-billy/v5"
)

// BackupManager keeps a single-slot backup of the manifest.
type BackupManager struct {
	fs billy.Filesystem
}

// NewBackupManager returns a BackupManager over fs.
func NewBackupManager(fs billy.Filesystem) *BackupManager {
	return &BackupManager{fs: fs}
}

// BackupIfNeeded moves manifest to backup when the manifest exists and no
// backup has been taken yet. It reports whether it moved anything.
func (b *BackupManager) BackupIfNeeded(manifest, backup string) (bool, error) {
	hasManifest, err := safeio.Exists(b.fs, manifest)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", manifest, err)
	}
	if !hasManifest {
		return false, nil
	}
	hasBackup, err := safeio.Exists(b.fs, backup)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", backup, err)
	}
	if hasBackup {
		return false, nil
	}
	if err := b.fs.Rename(manifest, backup); err != nil {
		return false, fmt.Errorf("backup %s: %w", manifest, err)
	}
	return true, nil
}

// Restore replaces manifest with backup and consumes the backup. Without a
// backup it does nothing and reports false.
func (b *BackupManager) Restore(manifest, backup string) (bool, error) {
	hasBackup, err := safeio.Exists(b.fs, backup)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", backup, err)
	}
	if !hasBackup {
		return false, nil
	}
	if err := safeio.RemoveIfExists(b.fs, manifest); err != nil {
		return false, fmt.Errorf("remove %s: %w", manifest, err)
	}
	if err := b.fs.Rename(backup, manifest); err != nil {
		return false, fmt.Errorf("restore %s: %w", backup, err)
	}
	return true, nil
}
