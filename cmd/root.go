package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"sitearchive/pkg/logging"
	"sitearchive/pkg/site"
	"sitearchive/pkg/version"
)

var (
	cfgFile string
	debug   bool
	logger  = zap.NewNop()
)

// flagKeys maps persistent flags onto site configuration keys.
var flagKeys = map[string]string{
	"source":      site.KeySource,
	"destination": site.KeyDestination,
	"strict":      site.KeyStrict,
}

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "sitearchive",
	Short: "sitearchive packages static site sources into ZIP archives",
	Long: `sitearchive runs after a static site has been written and bundles the
source files named in <data_dir>/archives.yml into <destination>/archives/<name>.zip.
Directories are walked recursively, filtered by the archive's exclude patterns,
and fold regions in their files are collapsed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !debug {
			return nil
		}
		if err := logging.Setup(true, version.AppName, version.Version); err != nil {
			return fmt.Errorf("failed to initialize debug logger: %w", err)
		}
		logger = logging.Logger
		return nil
	},
}

// Execute runs the root command, logging through base.
func Execute(base *zap.Logger) error {
	if base != nil {
		logger = base
	}
	return RootCmd.Execute()
}

// newSettings returns site settings with the persistent flags bound to
// their configuration keys, so flags override _config.yml.
func newSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := site.NewViper()
	flags := cmd.Flags()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return v, nil
}

func loadSite(cmd *cobra.Command) (*site.Site, error) {
	v, err := newSettings(cmd)
	if err != nil {
		return nil, err
	}
	return site.Load(v, cfgFile)
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "site configuration file (default <source>/_config.yml)")
	flags.String("source", "", "site source directory (default: the working directory)")
	flags.String("destination", "", "site output directory (default <source>/_site)")
	flags.Bool("strict", false, "fail when an archive input does not exist")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
}
