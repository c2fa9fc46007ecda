// File: pkg/site/data.go
package site

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sitearchive/pkg/archive"
)

// ArchivesDataFiles are the data file names tried in order inside the data directory.
var ArchivesDataFiles = []string{"archives.yml", "archives.yaml", "archives.json"}

// inputOptions is the mapping form of an archive input element.
type inputOptions struct {
	Exclude []string `yaml:"exclude"`
}

// FindArchivesData returns the first archive data file present in dataDir,
// or "" when there is none.
func FindArchivesData(dataDir string) (string, error) {
	for _, name := range ArchivesDataFiles {
		path := filepath.Join(dataDir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", nil
}

// LoadArchives decodes the archive data file at path.
func LoadArchives(path string) ([]archive.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive data: %w", err)
	}
	defer f.Close()

	specs, err := DecodeArchives(f)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return specs, nil
}

// DecodeArchives decodes a mapping of archive name to input list, keeping
// document order. Each list element is either a path string or a mapping
// whose "exclude" sequence is appended to the archive's shared exclusion
// list; the excludes are not tied to neighbouring paths.
func DecodeArchives(r io.Reader) ([]archive.Spec, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = resolveAlias(root.Content[0])
	}
	if isNull(root) {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: archives must be a mapping of name to inputs", root.Line)
	}

	specs := make([]archive.Spec, 0, len(root.Content)/2)
	seen := make(map[string]int)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], resolveAlias(root.Content[i+1])
		name := key.Value
		if line, dup := seen[name]; dup {
			return nil, fmt.Errorf("line %d: archive %q already defined on line %d", key.Line, name, line)
		}
		seen[name] = key.Line

		spec, err := decodeInputs(name, value)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func decodeInputs(name string, value *yaml.Node) (archive.Spec, error) {
	spec := archive.Spec{Name: name}
	if isNull(value) {
		return spec, nil
	}
	if value.Kind != yaml.SequenceNode {
		return spec, fmt.Errorf("line %d: inputs of archive %q must be a list", value.Line, name)
	}

	for _, item := range value.Content {
		item = resolveAlias(item)
		switch item.Kind {
		case yaml.ScalarNode:
			if isNull(item) {
				continue
			}
			spec.Paths = append(spec.Paths, item.Value)
		case yaml.MappingNode:
			var opts inputOptions
			if err := item.Decode(&opts); err != nil {
				return spec, fmt.Errorf("line %d: archive %q: %w", item.Line, name, err)
			}
			spec.Excludes = append(spec.Excludes, opts.Exclude...)
		default:
			return spec, fmt.Errorf("line %d: archive %q: input must be a path or an exclude mapping", item.Line, name)
		}
	}
	return spec, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
