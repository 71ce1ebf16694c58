// Package fsx holds the small file operations the toolkit relies on:
// atomic whole-file replacement and picking the newest download.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// ErrNoCandidates is returned by Latest when nothing matches the pattern.
var ErrNoCandidates = errors.New("no matching files")

// renameFunc is swapped in tests to simulate a failed replace.
var renameFunc = os.Rename

// WriteFileAtomic replaces path with data. The bytes land in a temp file in
// the same directory first, so a failed write leaves the old file intact.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := renameFunc(tmpName, path); err != nil {
		return err
	}

	_ = syncDir(dir)
	return nil
}

// Candidate is a file considered by Latest.
type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Latest returns the file in dir matching pattern with the greatest
// modification time. Directories are ignored.
func Latest(dir, pattern string) (Candidate, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return Candidate{}, fmt.Errorf("matching %q: %w", pattern, err)
	}

	var best Candidate
	found := false
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if !found || info.ModTime().After(best.ModTime) {
			best = Candidate{Path: m, Size: info.Size(), ModTime: info.ModTime()}
			found = true
		}
	}

	if !found {
		return Candidate{}, fmt.Errorf("%w: %s in %s", ErrNoCandidates, pattern, dir)
	}
	return best, nil
}

// CopyFile copies src over dst atomically.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return WriteFileAtomic(dst, data, 0o644)
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
