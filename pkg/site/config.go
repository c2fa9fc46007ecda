// File: pkg/site/config.go
package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"sitearchive/pkg/archive"
)

// DefaultConfigFile is the site configuration file looked up in the source root.
const DefaultConfigFile = "_config.yml"

// Configuration keys, shared between _config.yml and bound command-line flags.
const (
	KeySource           = "source"
	KeyDestination      = "destination"
	KeyDataDir          = "data_dir"
	KeyStrict           = "archives.strict"
	KeyFoldStart        = "archives.fold_start"
	KeyFoldEnd          = "archives.fold_end"
	KeyCompressionLevel = "archives.compression_level"
)

// Config holds the resolved site settings used by the archive hook.
type Config struct {
	Source           string // Absolute site source root.
	Destination      string // Absolute site output directory.
	DataDir          string // Data directory, relative to Source unless absolute.
	Strict           bool   // Fail on missing inputs.
	FoldStart        string // Fold start pattern; empty means the default.
	FoldEnd          string // Fold end marker; empty means the default.
	CompressionLevel int    // Flate level for archive entries.
	ConfigFile       string // The configuration file that was read, if any.
}

// NewViper returns a viper instance carrying the defaults for site settings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataDir, "_data")
	v.SetDefault(KeyCompressionLevel, archive.DefaultCompressionLevel)
	return v
}

// LoadConfig reads the site configuration into v and resolves the settings.
//
// When configFile is empty, <source>/_config.yml is read if it exists, where
// source comes from v (typically a bound --source flag) or defaults to the
// working directory. An explicitly named file must exist. Relative source
// and destination paths are resolved against the working directory; the
// destination defaults to <source>/_site.
func LoadConfig(v *viper.Viper, configFile string) (*Config, error) {
	explicit := configFile != ""
	if !explicit {
		base := v.GetString(KeySource)
		if base == "" {
			base = "."
		}
		configFile = filepath.Join(base, DefaultConfigFile)
	}

	cfg := &Config{}
	if _, err := os.Stat(configFile); err == nil || explicit {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read site config %s: %w", configFile, err)
		}
		cfg.ConfigFile = configFile
	}

	source := v.GetString(KeySource)
	if source == "" {
		source = filepath.Dir(configFile)
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source %q: %w", source, err)
	}
	cfg.Source = absSource

	destination := v.GetString(KeyDestination)
	if destination == "" {
		destination = filepath.Join(absSource, "_site")
	}
	if cfg.Destination, err = filepath.Abs(destination); err != nil {
		return nil, fmt.Errorf("failed to resolve destination %q: %w", destination, err)
	}

	cfg.DataDir = v.GetString(KeyDataDir)
	cfg.Strict = v.GetBool(KeyStrict)
	cfg.FoldStart = v.GetString(KeyFoldStart)
	cfg.FoldEnd = v.GetString(KeyFoldEnd)
	cfg.CompressionLevel = v.GetInt(KeyCompressionLevel)
	return cfg, nil
}

// ArchiveDir is the directory archives are written to.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.Destination, "archives")
}

// DataPath resolves the data directory against the source root.
func (c *Config) DataPath() string {
	if filepath.IsAbs(c.DataDir) {
		return c.DataDir
	}
	return filepath.Join(c.Source, c.DataDir)
}

// Options converts the configuration into archive build options.
func (c *Config) Options() archive.Options {
	return archive.Options{
		SourceRoot:       c.Source,
		DestDir:          c.ArchiveDir(),
		Strict:           c.Strict,
		Fold:             archive.FoldMarkers{Start: c.FoldStart, End: c.FoldEnd},
		CompressionLevel: c.CompressionLevel,
	}
}
