package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, seg := range strings.Split(filepath.ToSlash(c), "/") {
		if seg == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return filepath.ToSlash(c), nil
}

// Exists reports whether name exists on fsys. Only "not exist" is
// translated to false; other stat failures are returned.
func Exists(fsys billy.Basic, name string) (bool, error) {
	_, err := fsys.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadFile reads name from fsys.
func ReadFile(fsys billy.Basic, name string) ([]byte, error) {
	return util.ReadFile(fsys, name)
}

// RemoveIfExists removes name, treating a missing file as success.
func RemoveIfExists(fsys billy.Basic, name string) error {
	if err := fsys.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// WriteFileAtomic writes data to a sibling temp file and renames it over
// name. The existing file mode is kept when possible, otherwise 0644.
func WriteFileAtomic(fsys billy.Filesystem, name string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := fsys.Stat(name); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}

	if dir := path.Dir(filepath.ToSlash(name)); dir != "." && dir != "/" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	tmp := name + ".tmp"
	if err := util.WriteFile(fsys, tmp, data, mode); err != nil {
		_ = RemoveIfExists(fsys, tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = RemoveIfExists(fsys, tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
