// Package site loads a static site's configuration and archive data and
// runs the archive hook against the site's output directory.
package site

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"sitearchive/pkg/archive"
)

// Site is a loaded site: its settings and the archives it declares.
type Site struct {
	Config   *Config
	Archives []archive.Spec
	DataFile string // Archive data file that was read; empty when the site declares none.
}

// Load reads the site configuration and the archive data file. A site
// without an archive data file has no archives.
func Load(v *viper.Viper, configFile string) (*Site, error) {
	cfg, err := LoadConfig(v, configFile)
	if err != nil {
		return nil, err
	}

	s := &Site{Config: cfg}
	s.DataFile, err = FindArchivesData(cfg.DataPath())
	if err != nil {
		return nil, err
	}
	if s.DataFile == "" {
		return s, nil
	}
	if s.Archives, err = LoadArchives(s.DataFile); err != nil {
		return nil, err
	}
	return s, nil
}

// Build writes every archive of the site.
func (s *Site) Build(logger *zap.Logger) (*archive.Report, error) {
	return archive.Build(s.Archives, s.Config.Options(), logger)
}

// Plan resolves the named archives, or all of them when names is empty,
// without writing anything.
func (s *Site) Plan(names []string, logger *zap.Logger) ([]*archive.PlannedArchive, error) {
	specs, err := s.selectArchives(names)
	if err != nil {
		return nil, err
	}

	opts := s.Config.Options()
	plans := make([]*archive.PlannedArchive, 0, len(specs))
	for _, spec := range specs {
		plan, err := archive.Plan(spec, opts, logger)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (s *Site) selectArchives(names []string) ([]archive.Spec, error) {
	if len(names) == 0 {
		return s.Archives, nil
	}
	byName := make(map[string]archive.Spec, len(s.Archives))
	for _, spec := range s.Archives {
		byName[spec.Name] = spec
	}
	specs := make([]archive.Spec, 0, len(names))
	for _, name := range names {
		spec, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown archive %q", name)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
