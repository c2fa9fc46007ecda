// File: pkg/archive/types.go
package archive

import (
	"fmt"
	"strings"
)

// Spec describes one named archive as supplied by the site configuration.
type Spec struct {
	Name     string   // Archive name; the output file is Name + ".zip".
	Paths    []string // Input paths relative to the site source root, in configuration order.
	Excludes []string // Exclusion patterns shared by every tree input of the archive.
}

// Options holds the settings shared by every archive of one build.
type Options struct {
	SourceRoot       string      // Site source root that input paths are resolved against.
	DestDir          string      // Directory the archives are written to.
	Strict           bool        // Fail on inputs that resolve to neither a file nor a directory.
	Fold             FoldMarkers // Markers for the line transform applied to tree files.
	CompressionLevel int         // Flate level for archive entries; 0 stores entries uncompressed.
}

// Entry is a file yielded by the tree walker.
type Entry struct {
	Path string // Absolute path of the source file.
	Name string // Entry name inside the archive, slash separated.
}

// Result summarises one written archive.
type Result struct {
	Name    string // Archive name.
	Path    string // Path of the written .zip file.
	Entries int    // Number of distinct entries in the archive.
}

// Report collects the results of a build, in the order archives were written.
type Report struct {
	Archives []Result
}

// Validate checks that the archive name can be used as a file name inside
// the archive directory.
func (s Spec) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("archive name must not be empty")
	case strings.ContainsAny(s.Name, `/\`):
		return fmt.Errorf("archive name %q must not contain path separators", s.Name)
	case s.Name == "." || s.Name == "..":
		return fmt.Errorf("archive name %q is not a valid file name", s.Name)
	}
	return nil
}
