package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salchaD-27/hotpath-check/internal/hotpath"
	"github.com/salchaD-27/hotpath-check/internal/irfile"
)

func newDiscoverCmd(g *globals) *cobra.Command {
	var showFile bool

	discoverCmd := &cobra.Command{
		Use:   "discover [path...]",
		Short: "List the functions registered in .hot_funcs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range args {
				files, err := irfile.Files(p)
				if err != nil {
					return err
				}
				for _, file := range files {
					text, err := irfile.Read(cmd.Context(), file)
					if err != nil {
						return err
					}
					set := hotpath.Discover(text)
					for _, name := range g.policy.Functions {
						set.Add(name)
					}
					logger().Debugf("%s: %d hot functions", file, set.Len())
					for _, name := range set.Sorted() {
						if showFile {
							fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", file, name)
						} else {
							fmt.Fprintln(cmd.OutOrStdout(), name)
						}
					}
				}
			}
			return nil
		},
	}

	discoverCmd.Flags().BoolVarP(&showFile, "with-file", "H", false, "Prefix each name with its IR file")
	return discoverCmd
}
