package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newChecksCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "List the checks enabled by the current policy, in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks, err := g.policy.Checks()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range checks {
				fmt.Fprintf(w, "%s\t%s\n", c.Name(), c.Severity())
			}
			return w.Flush()
		},
	}
}
