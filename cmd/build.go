package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitearchive/pkg/archive"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write every declared archive into <destination>/archives",
	Long: `Build reads the site configuration and archive data and writes one ZIP
archive per declared name. Run it after the site generator has written its output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSite(cmd)
		if err != nil {
			return err
		}
		if len(s.Archives) == 0 {
			logger.Warn("No archives declared", zap.String("dataDir", s.Config.DataPath()))
			return nil
		}

		report, err := s.Build(logger)
		printReport(cmd.OutOrStdout(), report)
		return err
	},
}

func printReport(w io.Writer, report *archive.Report) {
	if report == nil {
		return
	}
	for _, r := range report.Archives {
		fmt.Fprintf(w, "%s\t%d entries\n", r.Path, r.Entries)
	}
}

func init() {
	RootCmd.AddCommand(buildCmd)
}
