package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Kind is the resolved variant of an input.
type Kind int

const (
	// KindMissing is an input that is neither a regular file nor a directory.
	KindMissing Kind = iota
	// KindFile is a regular file, archived verbatim under its base name.
	KindFile
	// KindTree is a directory, walked and folded.
	KindTree
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindTree:
		return "tree"
	default:
		return "missing"
	}
}

// Input is one input path after resolution against the filesystem.
type Input struct {
	Kind    Kind
	Path    string // Path as configured, relative to the source root.
	AbsPath string // Resolved absolute path.
	StatErr error  // Why a missing input could not be resolved, if stat failed.
}

// ResolveInputs resolves every configured path of spec once. The variant is
// decided by os.Stat following symlinks: a regular file is a file input, a
// directory is a tree input, and a path that does not exist or is neither
// is missing. Any other stat failure, such as a permission error or a
// symlink loop, is returned.
func ResolveInputs(spec Spec, sourceRoot string) ([]Input, error) {
	inputs := make([]Input, 0, len(spec.Paths))
	for _, p := range spec.Paths {
		absPath, err := filepath.Abs(filepath.Join(sourceRoot, p))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve input %q: %w", p, err)
		}

		in := Input{Kind: KindMissing, Path: p, AbsPath: absPath}
		info, err := os.Stat(absPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			in.StatErr = err
		case err != nil:
			return nil, fmt.Errorf("failed to stat input %q: %w", p, err)
		case info.Mode().IsRegular():
			in.Kind = KindFile
		case info.IsDir():
			in.Kind = KindTree
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// missingError builds the strict-mode error for a missing input.
func (in Input) missingError() error {
	if in.StatErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingInput, in.Path, in.StatErr)
	}
	return fmt.Errorf("%w: %s is not a regular file or directory", ErrMissingInput, in.Path)
}
