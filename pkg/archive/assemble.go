// File: pkg/archive/assemble.go
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Assembler writes archives one at a time.
type Assembler struct {
	opts   Options
	folder *Folder
	logger *zap.Logger
}

// NewAssembler compiles the fold markers in opts.
func NewAssembler(opts Options, logger *zap.Logger) (*Assembler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	folder, err := NewFolder(opts.Fold)
	if err != nil {
		return nil, err
	}
	return &Assembler{opts: opts, folder: folder, logger: logger}, nil
}

// Assemble writes <DestDir>/<spec.Name>.zip, replacing any previous archive.
// Tree inputs are filtered by matcher. A failure leaves whatever was already
// on disk in place.
func (a *Assembler) Assemble(spec Spec, matcher *Matcher) (Result, error) {
	logger := a.logger.With(zap.String("archive", spec.Name))
	result := Result{Name: spec.Name, Path: filepath.Join(a.opts.DestDir, spec.Name+".zip")}

	if err := ensureDirectory(a.opts.DestDir, logger); err != nil {
		return result, fmt.Errorf("failed to create archive directory: %w", err)
	}

	inputs, err := ResolveInputs(spec, a.opts.SourceRoot)
	if err != nil {
		return result, err
	}

	container, err := OpenZip(result.Path, ContainerOptions{
		AllowOverwrite: true,
		Level:          a.opts.CompressionLevel,
	})
	if err != nil {
		logger.Error("Failed to open archive", zap.String("path", result.Path), zap.Error(err))
		return result, err
	}

	for _, in := range inputs {
		if err := a.processInput(container, in, matcher, logger); err != nil {
			logger.Error("Failed to process input", zap.String("input", in.Path), zap.Error(err))
			if abortErr := container.Abort(); abortErr != nil {
				logger.Warn("Failed to release archive file", zap.String("path", result.Path), zap.Error(abortErr))
			}
			return result, err
		}
	}

	if err := container.Close(); err != nil {
		logger.Error("Failed to finalise archive", zap.String("path", result.Path), zap.Error(err))
		return result, err
	}

	result.Entries = container.Len()
	logger.Info("Wrote archive", zap.String("path", result.Path), zap.Int("entries", result.Entries))
	return result, nil
}

func (a *Assembler) processInput(c Container, in Input, matcher *Matcher, logger *zap.Logger) error {
	switch in.Kind {
	case KindFile:
		return addFile(c, filepath.Base(in.AbsPath), in.AbsPath, nil, logger)
	case KindTree:
		return Walk(in.AbsPath, matcher, logger, func(e Entry) error {
			return addFile(c, e.Name, e.Path, a.folder, logger)
		})
	default:
		if a.opts.Strict {
			return in.missingError()
		}
		logger.Debug("Skipping missing input", zap.String("input", in.Path))
		return nil
	}
}

// addFile copies path into c under name, through folder when it is non-nil.
func addFile(c Container, name, path string, folder *Folder, logger *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if folder != nil {
		r = folder.Reader(file)
	}
	if err := c.Add(name, r); err != nil {
		return err
	}
	logger.Debug("Added entry", zap.String("entry", name), zap.String("source", path), zap.Bool("folded", folder != nil))
	return nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
