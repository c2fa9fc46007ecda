package archive

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

// PlannedEntry is an entry an archive would contain.
type PlannedEntry struct {
	Name   string // Entry name inside the archive.
	Source string // Absolute path of the file that wins for this name.
	Folded bool   // Whether the content goes through the line transform.
}

// PlannedArchive is the dry-run view of one archive.
type PlannedArchive struct {
	Name    string
	Path    string         // Where the archive would be written.
	Entries []PlannedEntry // In first-add order, with duplicates resolved to the last source.
	Missing []string       // Inputs that would be skipped.
}

// Names returns the entry names in order.
func (p *PlannedArchive) Names() []string {
	names := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		names[i] = e.Name
	}
	return names
}

// Plan resolves spec the way Assemble does without reading file contents or
// writing anything.
func Plan(spec Spec, opts Options, logger *zap.Logger) (*PlannedArchive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	matcher, err := CompileMatcher(spec.Excludes)
	if err != nil {
		return nil, fmt.Errorf("archive %q: %w", spec.Name, err)
	}
	inputs, err := ResolveInputs(spec, opts.SourceRoot)
	if err != nil {
		return nil, err
	}

	plan := &PlannedArchive{
		Name: spec.Name,
		Path: filepath.Join(opts.DestDir, spec.Name+".zip"),
	}
	index := make(map[string]int)
	add := func(e PlannedEntry) {
		if i, ok := index[e.Name]; ok {
			plan.Entries[i] = e
			return
		}
		index[e.Name] = len(plan.Entries)
		plan.Entries = append(plan.Entries, e)
	}

	for _, in := range inputs {
		switch in.Kind {
		case KindFile:
			add(PlannedEntry{Name: filepath.Base(in.AbsPath), Source: in.AbsPath})
		case KindTree:
			err := Walk(in.AbsPath, matcher, logger, func(e Entry) error {
				add(PlannedEntry{Name: e.Name, Source: e.Path, Folded: true})
				return nil
			})
			if err != nil {
				return nil, err
			}
		default:
			if opts.Strict {
				return nil, in.missingError()
			}
			plan.Missing = append(plan.Missing, in.Path)
		}
	}
	return plan, nil
}
