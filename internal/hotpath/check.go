package hotpath

import "github.com/salchaD-27/hotpath-check/internal/finding"

// Check inspects a single line of IR. Implementations must be stateless so a
// single value can be shared between verifiers and goroutines.
type Check interface {
	// Name identifies the check in reports and policy files.
	Name() string
	Severity() finding.Severity
	// CheckLine returns a description of the problem and true when the line
	// violates the check.
	CheckLine(line string) (string, bool)
}
