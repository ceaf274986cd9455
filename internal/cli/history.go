package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xcube/internal/sqlite"
	"github.com/mesh-intelligence/xcube/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		jsonl string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generate runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}

			if jsonl != "" {
				if err := sqlite.ExportRunsJSONL(jsonl, runs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d runs to %s\n", len(runs), jsonl)
				return nil
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to show (0 for all)")
	cmd.Flags().StringVar(&jsonl, "jsonl", "", "write the runs to a JSONL file instead of printing them")

	cmd.AddCommand(newHistoryImportCmd(a))
	return cmd
}

func newHistoryImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add runs from a JSONL file written by history --jsonl",
		Long: "Import reads runs from FILE and records those not already in the history.\n" +
			"Lines that are not valid runs are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, skipped, err := sqlite.ReadRunsJSONL(args[0])
			if err != nil {
				return err
			}
			if skipped > 0 {
				a.log.Warnf("Skipped %d malformed lines in %s", skipped, args[0])
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			n, err := store.ImportRuns(runs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d runs\n", n, len(runs))
			return nil
		},
	}
}

func printRuns(w io.Writer, runs []types.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tCUBE\tDATE\tCARDS\tOUTPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.CubeName,
			r.CubeDate.Format("2006-01-02"),
			r.Cards,
			r.Output)
	}
	return tw.Flush()
}
