// Package hotpath verifies that functions annotated as hot contain no LLVM IR
// instructions that break real-time guarantees.
//
// Functions are discovered through the .hot_funcs section, their bodies are
// extracted from the textual IR and every line is run through a fixed list of
// checks. The first Error severity finding stops verification; Warning
// findings are collected and returned.
package hotpath

import (
	"strings"

	"github.com/salchaD-27/hotpath-check/internal/finding"
)

// DefaultChecks returns the built-in checks in registration order.
// extraAllocators are recognized as allocators in addition to
// DefaultAllocators.
func DefaultChecks(extraAllocators ...string) []Check {
	return []Check{
		IndirectionCheck{},
		NewAllocationCheck(extraAllocators...),
		NewFunctionCallCheck(extraAllocators...),
		AtomicCheck{},
		VolatileLoadCheck{},
		VolatileStoreCheck{},
		DivisionCheck{},
		UnalignedAccessCheck{},
		NonInboundsGepCheck{},
	}
}

// Verifier runs a fixed list of checks over hot functions.
type Verifier struct {
	checks []Check
}

// New returns a verifier running checks in the given order.
func New(checks ...Check) *Verifier {
	return &Verifier{checks: append([]Check(nil), checks...)}
}

// Default returns a verifier with DefaultChecks.
func Default() *Verifier {
	return New(DefaultChecks()...)
}

// Checks returns a copy of the configured checks.
func (v *Verifier) Checks() []Check {
	return append([]Check(nil), v.checks...)
}

// Result holds the warnings of one verified function.
type Result struct {
	Function string
	Symbol   string
	Warnings []finding.Finding
}

// Verify checks the function name in ir. It returns the Warning findings on
// success, a *NotFoundError when the function is missing, or a
// *ViolationError for the first Error finding.
func (v *Verifier) Verify(ir, name string) ([]finding.Finding, error) {
	body, err := Extract(ir, name)
	if err != nil {
		return nil, err
	}
	return v.verifyBody(body)
}

func (v *Verifier) verifyBody(body *FunctionBody) ([]finding.Finding, error) {
	warnings := []finding.Finding{}

	for i, line := range body.Lines {
		for _, check := range v.checks {
			msg, ok := check.CheckLine(line)
			if !ok {
				continue
			}
			f := finding.Finding{
				Line:        body.LineNumber(i),
				Function:    body.Name,
				Check:       check.Name(),
				Severity:    check.Severity(),
				Message:     msg,
				Instruction: strings.TrimSpace(line),
			}
			if f.Severity == finding.Error {
				return nil, &ViolationError{Finding: f}
			}
			warnings = append(warnings, f)
		}
	}

	return warnings, nil
}

// VerifyFunctions verifies names in order and stops at the first error.
// Results of the functions verified before the failure are returned with it.
func (v *Verifier) VerifyFunctions(ir string, names []string) ([]Result, error) {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		body, err := Extract(ir, name)
		if err != nil {
			return results, err
		}
		warnings, err := v.verifyBody(body)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Function: name, Symbol: body.Symbol, Warnings: warnings})
	}
	return results, nil
}

// VerifyAll discovers every hot function in ir and verifies them in name
// order.
func (v *Verifier) VerifyAll(ir string) ([]Result, error) {
	return v.VerifyFunctions(ir, Discover(ir).Sorted())
}

// VerifyFunction verifies a single function with the default checks.
func VerifyFunction(ir, name string) error {
	_, err := Default().Verify(ir, name)
	return err
}

// VerifyHotPath verifies all hot functions in ir with the default checks.
func VerifyHotPath(ir string) error {
	_, err := Default().VerifyAll(ir)
	return err
}
