package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SymlinkError reports a write target that resolves through a link.
type SymlinkError struct {
	Path string
	At   string
}

func (e *SymlinkError) Error() string {
	return fmt.Sprintf("refusing to write through link: %s (link at %s)", e.Path, e.At)
}

// RejectSymlinkPath fails when path, or any existing directory above it,
// is a symlink or reparse point.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return checkLinks(abs, "")
}

// RejectSymlinkUnder fails when path is not inside root, or when path or a
// directory between it and root is a symlink or reparse point. root and
// its ancestors are not checked.
func RejectSymlinkUnder(root, path string) error {
	root = filepath.Clean(root)
	rel, err := filepath.Rel(root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return fmt.Errorf("%s is not inside %s", path, root)
	}
	return checkLinks(filepath.Join(root, rel), root)
}

// ConfinedPath joins a slash-separated object name onto root. The result
// must stay inside root and must not pass through a link created below it.
func ConfinedPath(root, name string) (string, error) {
	rel := filepath.FromSlash(strings.TrimLeft(name, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%q escapes %s", name, root)
	}
	root = filepath.Clean(root)
	full := filepath.Join(root, rel)
	if err := checkLinks(full, root); err != nil {
		return "", err
	}
	return full, nil
}

// checkLinks walks from path towards the filesystem root, stopping early
// at stop. Elements that do not exist yet are skipped.
func checkLinks(path, stop string) error {
	for p := path; p != stop; {
		info, err := os.Lstat(p)
		switch {
		case err == nil:
			if info.Mode()&os.ModeSymlink != 0 {
				return &SymlinkError{Path: path, At: p}
			}
			reparse, err := isReparsePoint(p)
			if err != nil {
				return fmt.Errorf("failed to check reparse point: %w", err)
			}
			if reparse {
				return &SymlinkError{Path: path, At: p}
			}
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("failed to access path: %w", err)
		}

		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return nil
}
