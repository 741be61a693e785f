package files

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oukeidos/imgtrans/internal/logger"
)

// AtomicWrite writes data to a temp file and renames it into place.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	_, err := AtomicWriteFrom(path, bytes.NewReader(data), perms)
	return err
}

// AtomicWriteFrom streams r into a temp file next to path and renames it
// into place once fully written. On any failure the destination is left
// untouched and the temp file is removed. Every existing ancestor of path
// must be a real directory.
func AtomicWriteFrom(path string, r io.Reader, perms os.FileMode) (int64, error) {
	if err := RejectSymlinkPath(path); err != nil {
		return 0, err
	}
	return writeAtomic(path, r, perms)
}

// AtomicWriteUnder is AtomicWriteFromUnder for an in-memory payload.
func AtomicWriteUnder(root, path string, data []byte, perms os.FileMode) error {
	_, err := AtomicWriteFromUnder(root, path, bytes.NewReader(data), perms)
	return err
}

// AtomicWriteFromUnder is AtomicWriteFrom for a path inside root. Only the
// part of path below root is checked for links, so root itself may be
// reached through a symlinked ancestor such as /tmp on macOS.
func AtomicWriteFromUnder(root, path string, r io.Reader, perms os.FileMode) (int64, error) {
	if err := RejectSymlinkUnder(root, path); err != nil {
		return 0, err
	}
	return writeAtomic(path, r, perms)
}

func writeAtomic(path string, r io.Reader, perms os.FileMode) (int64, error) {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".imgtrans-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanup := true
	defer func() {
		if cleanup {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(perms); err != nil {
		return 0, fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	n, err := io.Copy(tmpFile, r)
	if err != nil {
		return n, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return n, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return n, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := renameAtomic(tmpPath, path); err != nil {
		return n, fmt.Errorf("failed to rename temp file to destination: %w", err)
	}
	if err := syncDir(dir); err != nil {
		logger.Debug("Directory fsync failed", "path", dir, "error", err)
	}

	cleanup = false
	return n, nil
}

// Exists reports whether path names an existing file or directory.
// Any stat error counts as absent, mirroring a plain existence check.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
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
