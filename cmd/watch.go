package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitearchive/pkg/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild archives whenever site sources change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, err := cmd.Flags().GetDuration("debounce")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		s, err := loadSite(cmd)
		if err != nil {
			return err
		}

		// The site is reloaded on every rebuild so edits to the
		// configuration and archive data take effect.
		rebuild := func() error {
			current, err := loadSite(cmd)
			if err != nil {
				return err
			}
			report, err := current.Build(logger)
			printReport(cmd.OutOrStdout(), report)
			return err
		}
		if err := rebuild(); err != nil {
			logger.Error("Initial build failed", zap.Error(err))
		}

		w, err := watch.New(watch.Config{
			BaseDir:  s.Config.Source,
			Ignore:   outputIgnores(s.Config.Source, s.Config.Destination),
			Debounce: debounce,
			Logger:   logger,
			OnChange: func(_ context.Context, changed []string) error {
				logger.Info("Rebuilding archives", zap.Strings("changed", changed))
				return rebuild()
			},
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("Watching for changes", zap.String("source", s.Config.Source))
		return w.Run(ctx)
	},
}

// outputIgnores keeps the site output directory out of the watch when it
// lives inside the source tree.
func outputIgnores(source, destination string) []string {
	rel, err := filepath.Rel(source, destination)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	rel = filepath.ToSlash(rel)
	return []string{rel, rel + "/**"}
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before rebuilding")
	RootCmd.AddCommand(watchCmd)
}
