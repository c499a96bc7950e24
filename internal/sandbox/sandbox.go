package sandbox

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Dir is a uniquely named temporary directory owned by a single install attempt
type Dir struct {
	Path string
}

// New creates a fresh directory under the system temp dir.
// Callers must defer Remove.
func New(prefix string) (*Dir, error) {
	path, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, errors.Wrap(err, "creating temp directory")
	}
	return &Dir{Path: path}, nil
}

// Join returns the path of elem inside the directory
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.Path}, elem...)...)
}

// Remove deletes the directory and everything under it
func (d *Dir) Remove() error {
	err := os.RemoveAll(d.Path)
	if err == nil {
		return nil
	}

	// Package managers sometimes leave read-only trees behind
	filepath.WalkDir(d.Path, func(p string, entry fs.DirEntry, err error) error {
		if err == nil && entry.IsDir() {
			os.Chmod(p, 0755)
		}
		return nil
	})
	if err := os.RemoveAll(d.Path); err != nil {
		return errors.Wrapf(err, "removing %s", d.Path)
	}
	return nil
}
