// Package fsutil contains small filesystem helpers.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

var ErrFileNotFound = errors.New("file not found")

// FileExists reports whether path exists. A path under something that is not
// a directory does not exist.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return false, nil
	}

	return false, err
}

// SearchParentsForPath looks for filename in searchPath and then each of its
// parents up to the root, and returns the first match.
func SearchParentsForPath(filename, searchPath string) (string, error) {
	dir := filepath.Clean(searchPath)

	for {
		candidate := filepath.Join(dir, filename)

		exists, err := FileExists(candidate)
		if err != nil {
			return "", err
		}

		if exists {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrFileNotFound
		}

		dir = parent
	}
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never see a partially written file.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)

		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)

		return err
	}

	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)

		return err
	}

	return os.Rename(tmp, path)
}
