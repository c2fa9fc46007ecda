package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sitearchive/pkg/archive"
)

var listCmd = &cobra.Command{
	Use:   "list [archive...]",
	Short: "Show the entries each archive would contain without writing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		flat, err := cmd.Flags().GetBool("flat")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		s, err := loadSite(cmd)
		if err != nil {
			return err
		}
		plans, err := s.Plan(args, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range plans {
			fmt.Fprintf(out, "%s (%d entries)\n", p.Path, len(p.Entries))
			if flat {
				for _, name := range p.Names() {
					fmt.Fprintln(out, name)
				}
			} else if tree := archive.RenderTree(p.Names()); tree != "" {
				fmt.Fprintln(out, tree)
			}
			for _, missing := range p.Missing {
				fmt.Fprintf(out, "skipped missing input: %s\n", missing)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("flat", false, "print entry names one per line instead of a tree")
	RootCmd.AddCommand(listCmd)
}
