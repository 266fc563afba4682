package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/salchaD-27/hotpath-check/internal/finding"
	"github.com/salchaD-27/hotpath-check/internal/report"
	"github.com/salchaD-27/hotpath-check/internal/scan"
)

func newVerifyCmd(g *globals) *cobra.Command {
	var (
		format        string
		functions     []string
		failOnWarning bool
		jobs          int
	)

	verifyCmd := &cobra.Command{
		Use:   "verify [path...]",
		Short: "Verify hot functions in LLVM IR files or directories",
		Long: `Verify every function listed in the .hot_funcs section of each IR file.
Directories are searched for .ll and .bc files; "-" reads IR from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := formatFor(cmd, format, g.policy)
			if err != nil {
				return err
			}
			v, err := g.policy.Verifier()
			if err != nil {
				return err
			}

			res, err := scan.Scan(cmd.Context(), args, scan.Options{
				Verifier:    v,
				Only:        functions,
				Extra:       g.policy.Functions,
				Concurrency: jobs,
			})
			if err != nil {
				return err
			}

			// Export the findings in the requested format
			out, err := report.Export(outFormat, res.Findings)
			if err != nil {
				return err
			}
			if out != "" && !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			errs, warns := count(res.Findings)
			logger().Infof("verified %d functions in %d files: %d errors, %d warnings", res.Functions, len(res.Files), errs, warns)

			summary := cmd.ErrOrStderr()
			switch {
			case errs > 0:
				color.New(color.FgRed).Fprintf(summary, "Hot path verification failed: %d errors, %d warnings\n", errs, warns)
				return exitCode(exitError)
			case warns > 0 && (failOnWarning || g.policy.FailOnWarning):
				color.New(color.FgYellow).Fprintf(summary, "Hot path verification produced %d warnings\n", warns)
				return exitCode(exitWarnings)
			default:
				color.New(color.FgGreen).Fprintf(summary, "Verified %d hot functions in %d files (%d warnings)\n", res.Functions, len(res.Files), warns)
				return nil
			}
		},
	}

	addFormatFlag(verifyCmd.Flags(), &format)
	verifyCmd.Flags().StringSliceVar(&functions, "function", nil, "Verify these functions instead of the .hot_funcs entries (repeatable)")
	verifyCmd.Flags().BoolVar(&failOnWarning, "fail-on-warning", false, "Exit with status 2 when warnings are found")
	verifyCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files verified in parallel (default GOMAXPROCS)")

	return verifyCmd
}

func count(findings []finding.Finding) (errs, warns int) {
	for _, f := range findings {
		if f.Severity == finding.Error {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}
