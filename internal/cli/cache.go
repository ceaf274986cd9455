package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local set and printing cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print the number of cached sets, printings and recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			stats, err := store.Stats()
			if err != nil {
				return err
			}

			label := color.New(color.FgCyan).SprintFunc()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %d\n", label("Sets:     "), stats.Sets)
			fmt.Fprintf(w, "%s %d\n", label("Printings:"), stats.Printings)
			fmt.Fprintf(w, "%s %d\n", label("Runs:     "), stats.Runs)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop cached sets and printings; run history is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	})

	return cmd
}
