// File: pkg/archive/fold.go
package archive

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Default fold markers. A start line keeps the text before the "//" and
// after the "{{"; everything up to and including the end marker line is
// dropped.
const (
	DefaultFoldStart = `^(.*?)//\s*\{\{(.*)$`
	DefaultFoldEnd   = "// }}"
)

// FoldMarkers configures the line transform. Empty fields fall back to the
// defaults.
type FoldMarkers struct {
	Start string // Regular expression with exactly two capture groups: prefix and suffix.
	End   string // Literal compared against each whitespace-trimmed line.
}

// Folder collapses fold regions in source files.
type Folder struct {
	start *regexp.Regexp
	end   string
}

// NewFolder compiles the fold markers.
func NewFolder(markers FoldMarkers) (*Folder, error) {
	startPattern := markers.Start
	if startPattern == "" {
		startPattern = DefaultFoldStart
	}
	end := strings.TrimSpace(markers.End)
	if end == "" {
		end = DefaultFoldEnd
	}

	start, err := regexp.Compile(startPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: fold start %q: %v", ErrInvalidPattern, startPattern, err)
	}
	if start.NumSubexp() != 2 {
		return nil, fmt.Errorf("%w: fold start %q must have exactly two capture groups, has %d",
			ErrInvalidPattern, startPattern, start.NumSubexp())
	}
	return &Folder{start: start, end: end}, nil
}

// NewFoldReader returns a reader that yields src with fold regions collapsed
// using the default markers.
func NewFoldReader(src io.Reader) io.Reader {
	folder, _ := NewFolder(FoldMarkers{})
	return folder.Reader(src)
}

// Reader returns a reader that yields src with fold regions collapsed. Lines
// are transformed as they are read; an unterminated region drops the rest of
// the file.
func (f *Folder) Reader(src io.Reader) io.Reader {
	return &foldReader{folder: f, src: bufio.NewReader(src)}
}

// step applies the transform to one line, terminator included, appending
// the output to dst.
func (f *Folder) step(dst []byte, line string, folding bool) ([]byte, bool) {
	body := strings.TrimSuffix(line, "\n")
	if m := f.start.FindStringSubmatch(body); m != nil {
		dst = append(dst, m[1]...)
		dst = append(dst, m[2]...)
		dst = append(dst, '\n')
		folding = true
	} else if !folding {
		dst = append(dst, line...)
	}

	// Checked after emission so the end marker line itself is dropped.
	if strings.TrimSpace(line) == f.end {
		folding = false
	}
	return dst, folding
}

type foldReader struct {
	folder  *Folder
	src     *bufio.Reader
	pending []byte
	folding bool
	err     error
}

func (r *foldReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		line, err := r.src.ReadString('\n')
		if len(line) > 0 {
			r.pending, r.folding = r.folder.step(r.pending[:0], line, r.folding)
		}
		if err != nil {
			r.err = err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
