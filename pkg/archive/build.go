// File: pkg/archive/build.go
package archive

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Build writes every archive in specs to opts.DestDir, in order.
//
// All exclusion patterns, fold markers and the compression level are checked, and the destination
// directory created, before the first archive is opened. Archives are then
// assembled one at a time; the first failure stops the build and archives
// completed before it stay on disk. The returned report lists the archives
// written so far even when an error is returned.
func Build(specs []Spec, opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting archive build", zap.Int("archives", len(specs)), zap.String("destDir", opts.DestDir))

	asm, err := NewAssembler(opts, logger)
	if err != nil {
		logger.Error("Invalid fold markers", zap.Error(err))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := validateLevel(opts.CompressionLevel); err != nil {
		logger.Error("Invalid compression level", zap.Error(err))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	matchers, err := compileSpecs(specs)
	if err != nil {
		logger.Error("Invalid archive configuration", zap.Error(err))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := ensureDirectory(opts.DestDir, logger); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	report := &Report{}
	for i, spec := range specs {
		result, err := asm.Assemble(spec, matchers[i])
		if err != nil {
			return report, fmt.Errorf("archive %q: %w", spec.Name, err)
		}
		report.Archives = append(report.Archives, result)
	}

	logger.Info("Archive build completed",
		zap.Int("archives", len(report.Archives)),
		zap.Duration("elapsed", time.Since(startTime)))
	return report, nil
}

// compileSpecs validates every spec and compiles its exclusion patterns.
func compileSpecs(specs []Spec) ([]*Matcher, error) {
	seen := make(map[string]struct{}, len(specs))
	matchers := make([]*Matcher, len(specs))
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate archive name %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		m, err := CompileMatcher(spec.Excludes)
		if err != nil {
			return nil, fmt.Errorf("archive %q: %w", spec.Name, err)
		}
		matchers[i] = m
	}
	return matchers, nil
}
