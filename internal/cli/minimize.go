package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xcube/internal/deckfile"
)

func newMinimizeCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "minimize DECK",
		Short: "Strip comments and blank lines from an XMage deck file",
		Long: "Minimize copies DECK without the comment and blank lines XMage ignores.\n" +
			"The result is written next to DECK as <name>.min.dck unless --output is given.",
		Example: "  xcube minimize vintage.dck",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := deckfile.Open(args[0])
			if err != nil {
				return err
			}

			a.log.Infof("Minimizing %s", deck)
			out, kept, err := deck.Minimize(output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d lines)\n", color.GreenString("Minimized"), out, kept)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <name>.min.dck)")
	return cmd
}
