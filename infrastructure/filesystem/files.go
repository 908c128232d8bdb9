package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Size returns the size of the file at path in bytes
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PartialPath returns the sibling path an output is written to before Commit
func PartialPath(path string) string {
	return path + ".part"
}

// Commit moves a finished partial file into place, replacing any existing file
func Commit(partial, final string) error {
	if err := os.Rename(partial, final); err != nil {
		return fmt.Errorf("move %s into place: %w", filepath.Base(final), err)
	}
	return nil
}

// Discard removes a partial file; a missing file is not an error
func Discard(partial string) error {
	return removeIfExists(partial)
}

// EnsureDir creates dir and its parents when missing
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether anything is present at path
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// UniquePath returns path unchanged when it is free; otherwise it appends
// _2, _3, ... before the extension until a name is free. A name is free when
// nothing exists there and inUse, if set, does not claim it.
func UniquePath(path string, inUse func(string) bool) string {
	free := func(p string) bool {
		return !Exists(p) && (inUse == nil || !inUse(p))
	}
	if free(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if free(candidate) {
			return candidate
		}
	}
}
