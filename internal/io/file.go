package ioutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// UniqueName returns name, or name with a " (n)" suffix when exists reports
// the plain name (and lower suffixes) as taken. Suffixes start at 2.
//
// Example:
//
//	UniqueName("Talks", taken) // "Talks", "Talks (2)", "Talks (3)", ...
func UniqueName(name string, exists func(string) bool) string {
	if !exists(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", name, i)
		if !exists(candidate) {
			return candidate
		}
	}
}

// RemoveIfEmpty deletes dir when it has no entries. A missing or non-empty
// directory is left alone; removed reports whether it was deleted.
func RemoveIfEmpty(dir string) (removed bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "setting file mode")
	}
	return errors.Wrapf(os.Rename(tmpName, path), "replacing %s", path)
}

// WriteTranscript atomically writes body to path under a "# title" heading.
func WriteTranscript(path, title, body string) error {
	return WriteFileAtomic(path, []byte(fmt.Sprintf("# %s\n\n%s", title, body)))
}
