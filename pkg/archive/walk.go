// File: pkg/archive/walk.go
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// candidateGlob selects files with an extension at any depth. Hidden
// entries are filtered before the glob is applied.
const candidateGlob = "**/*.*"

// WalkFunc is called for every file the walker yields. A non-nil error
// stops the walk and is returned by Walk.
type WalkFunc func(entry Entry) error

// Walk recursively enumerates regular files under root whose base name
// contains a dot and whose root-relative path does not match m. Hidden files
// and directories are skipped, and symlinks are followed only when they
// point at a regular file. Order follows the filesystem walk and is not
// sorted.
func Walk(root string, m *Matcher, logger *zap.Logger, fn WalkFunc) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Starting tree walk", zap.String("root", root), zap.Int("excludes", m.Len()))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = normalizePath(relPath)

		if ok, _ := doublestar.Match(candidateGlob, relPath); !ok {
			return nil
		}
		if excluded, pattern := m.MatchesWithPattern(relPath); excluded {
			logger.Debug("Excluding file", zap.String("relPath", relPath), zap.String("pattern", pattern))
			return nil
		}
		regular, err := isRegularFile(path, d)
		if err != nil {
			return err
		}
		if !regular {
			logger.Debug("Skipping non-regular file", zap.String("path", path))
			return nil
		}

		return fn(Entry{Path: path, Name: relPath})
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isRegularFile reports whether d is a regular file, resolving symlinks.
// Dangling links are skipped.
func isRegularFile(path string, d fs.DirEntry) (bool, error) {
	if d.Type().IsRegular() {
		return true, nil
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}
