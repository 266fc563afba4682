package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salchaD-27/hotpath-check/internal/hotpath"
)

func newMangleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mangle [path]",
		Short: "Print the symbol fragment searched for a namespaced function path",
		Example: `  hotpath-check mangle engine::audio::render
  6engine5audio6render`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), hotpath.SearchName(args[0]))
			return nil
		},
	}
}
