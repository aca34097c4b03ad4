package cjkfont

import (
	"os"
	"path/filepath"
)

// Resolve reports whether path names an existing regular file.
// Any filesystem error counts as not found.
func Resolve(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

// Locate finds path on disk. Absolute paths are checked as they are.
// Relative paths are tried against the working directory and then
// against each of dirs in order. The returned path is the first that
// resolves, or path itself when none does.
func Locate(path string, dirs ...string) (string, bool) {
	if path == "" {
		return "", false
	}
	if filepath.IsAbs(path) || Resolve(path) {
		return path, Resolve(path)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, path)
		if Resolve(p) {
			return p, true
		}
	}
	return path, false
}
