// File: pkg/archive/container.go
package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"go.uber.org/multierr"
)

// DefaultCompressionLevel is the flate level used when none is configured.
const DefaultCompressionLevel = 5

// Container is the archive writer the assembler fills.
type Container interface {
	// Add reads r to the end and stores it under name.
	Add(name string, r io.Reader) error
	// Close writes the archive and releases the destination file.
	Close() error
	// Abort releases the destination file without finalising the archive.
	Abort() error
}

// ContainerOptions configures a container when it is opened.
type ContainerOptions struct {
	AllowOverwrite bool // Replace an entry added twice instead of failing with ErrEntryExists.
	Level          int  // Flate level; flate.NoCompression stores entries.
}

type zipEntry struct {
	name string
	data []byte
}

// ZipContainer buffers entries in memory and writes them as a ZIP file on
// Close, in the order their names were first added.
type ZipContainer struct {
	path    string
	file    *os.File
	opts    ContainerOptions
	entries []zipEntry
	index   map[string]int
	closed  bool
}

var _ Container = (*ZipContainer)(nil)

// OpenZip creates (or truncates) the archive at path.
func OpenZip(path string, opts ContainerOptions) (*ZipContainer, error) {
	if err := validateLevel(opts.Level); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive %s: %w", path, err)
	}
	return &ZipContainer{
		path:  path,
		file:  file,
		opts:  opts,
		index: make(map[string]int),
	}, nil
}

func validateLevel(level int) error {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return fmt.Errorf("invalid compression level %d", level)
	}
	return nil
}

// Path returns the archive file path.
func (c *ZipContainer) Path() string {
	return c.path
}

// Len returns the number of distinct entries added so far.
func (c *ZipContainer) Len() int {
	return len(c.entries)
}

// Add implements Container.
func (c *ZipContainer) Add(name string, r io.Reader) error {
	if c.closed {
		return ErrContainerClosed
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read entry %q: %w", name, err)
	}

	if i, ok := c.index[name]; ok {
		if !c.opts.AllowOverwrite {
			return fmt.Errorf("%w: %q", ErrEntryExists, name)
		}
		c.entries[i].data = data
		return nil
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, zipEntry{name: name, data: data})
	return nil
}

// Close implements Container.
func (c *ZipContainer) Close() error {
	if c.closed {
		return ErrContainerClosed
	}
	c.closed = true

	zw := zip.NewWriter(c.file)
	level := c.opts.Level
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	err := c.writeEntries(zw)
	if err == nil {
		err = zw.Close()
	}
	err = multierr.Append(err, c.file.Close())
	if err != nil {
		return fmt.Errorf("failed to write archive %s: %w", c.path, err)
	}
	return nil
}

// Abort implements Container. The file on disk is left as is.
func (c *ZipContainer) Abort() error {
	if c.closed {
		return ErrContainerClosed
	}
	c.closed = true
	return c.file.Close()
}

func (c *ZipContainer) writeEntries(zw *zip.Writer) error {
	method := zip.Deflate
	if c.opts.Level == flate.NoCompression {
		method = zip.Store
	}
	for _, entry := range c.entries {
		header := &zip.FileHeader{Name: entry.name, Method: method}
		header.SetMode(0o644)
		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create entry %q: %w", entry.name, err)
		}
		if _, err := w.Write(entry.data); err != nil {
			return fmt.Errorf("failed to write entry %q: %w", entry.name, err)
		}
	}
	return nil
}
