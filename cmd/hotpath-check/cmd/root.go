package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	"github.com/salchaD-27/hotpath-check/internal/policy"
	"github.com/salchaD-27/hotpath-check/internal/report"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("hotpath.cli")
}

// Exit codes. Warnings only fail the run when fail-on-warning is set.
const (
	exitOK       = 0
	exitError    = 1
	exitWarnings = 2
)

// exitCode carries a non-zero status out of a command that already reported
// its results.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

// globals are shared by all subcommands.
type globals struct {
	policyPath string
	verbose    int
	policy     *policy.Policy
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "hotpath-check",
		Short: "Verify that hot path functions in LLVM IR are real-time safe",
		Long: `hotpath-check reads the LLVM IR of a compiled program, finds the functions
registered in the .hot_funcs section and checks their bodies for allocations,
atomics, calls and other instructions with unpredictable latency.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			p, err := policy.Resolve(g.policyPath, dir)
			if err != nil {
				return err
			}
			verbosity := p.Verbosity
			if cmd.Flags().Changed("verbose") {
				verbosity = g.verbose
			}
			commonlog.Configure(verbosity, nil)
			g.policy = p
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.policyPath, "policy", "", "Policy file (.yaml, .yml or .hcl); defaults to $HOTPATH_POLICY or .hotpath.yaml")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "Increase log verbosity (repeatable)")

	rootCmd.AddCommand(
		newVerifyCmd(g),
		newDiscoverCmd(g),
		newMangleCmd(),
		newChecksCmd(g),
	)
	return rootCmd
}

func addFormatFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "format", "f", "text", "Output format: text|json|markdown|gha")
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:])
}

func run(rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}

	var code exitCode
	if errors.As(err, &code) {
		return int(code)
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	return exitError
}

// formatFor picks the report format: the flag when given, else the policy.
func formatFor(cmd *cobra.Command, flagValue string, p *policy.Policy) (string, error) {
	format := p.Format
	if cmd.Flags().Changed("format") || format == "" {
		format = flagValue
	}
	if _, err := report.Export(format, nil); err != nil {
		return "", err
	}
	return format, nil
}
