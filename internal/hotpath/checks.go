package hotpath

import (
	"regexp"
	"strings"

	"github.com/salchaD-27/hotpath-check/internal/finding"
)

// IntrinsicPrefix is the namespace of backend intrinsics, which never lower
// to a real call.
const IntrinsicPrefix = "@llvm."

// DefaultAllocators are the allocator entry points recognized by
// AllocationCheck.
var DefaultAllocators = []string{
	"@malloc",
	"@calloc",
	"@realloc",
	"@alloc",
	"@__rust_alloc",
	"@__rust_realloc",
}

var (
	callRegex        = regexp.MustCompile(`(?:^|\s)call\s`)
	calleeRegex      = regexp.MustCompile(`([@%](?:"[^"]*"|[-\w.$]+))\s*\(`)
	indirectionRegex = regexp.MustCompile(`(?:^|\s)(?:invoke|callbr)\s`)
	atomicRegex      = regexp.MustCompile(`(?:^|\s)(?:atomicrmw|cmpxchg|fence)\s`)
	volatileLoad     = regexp.MustCompile(`(?:^|\s)load\s+(?:atomic\s+)?volatile\s`)
	volatileStore    = regexp.MustCompile(`(?:^|\s)store\s+(?:atomic\s+)?volatile\s`)
	divisionRegex    = regexp.MustCompile(`\s(?:sdiv|udiv|srem|urem)\s`)
	memoryAccess     = regexp.MustCompile(`(?:^|\s)(?:load|store)\s`)
	byteAlign        = regexp.MustCompile(`,\s*align\s+1\b`)
	gepRegex         = regexp.MustCompile(`\bgetelementptr\s+(?:(?:nuw|nusw)\s+)*(inbounds\b)?`)
)

// parseCalls returns the callee of every call instruction on line, in order.
// Inline asm and other exotic forms yield an empty callee. A nil result means
// the line holds no call.
func parseCalls(line string) []string {
	locs := callRegex.FindAllStringIndex(line, -1)
	if locs == nil {
		return nil
	}
	callees := make([]string, len(locs))
	for i, loc := range locs {
		end := len(line)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if c := calleeRegex.FindStringSubmatch(line[loc[1]:end]); c != nil {
			callees[i] = c[1]
		}
	}
	return callees
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// AllocationCheck flags calls into heap allocators.
type AllocationCheck struct {
	allocators []string
}

// NewAllocationCheck returns an AllocationCheck recognizing DefaultAllocators
// plus extra.
func NewAllocationCheck(extra ...string) AllocationCheck {
	return AllocationCheck{allocators: allocatorSymbols(extra)}
}

func allocatorSymbols(extra []string) []string {
	symbols := make([]string, 0, len(DefaultAllocators)+len(extra))
	symbols = append(symbols, DefaultAllocators...)
	for _, s := range extra {
		if !strings.HasPrefix(s, "@") {
			s = "@" + s
		}
		symbols = append(symbols, s)
	}
	return symbols
}

func (c AllocationCheck) symbols() []string {
	if c.allocators == nil {
		return DefaultAllocators
	}
	return c.allocators
}

func (AllocationCheck) Name() string               { return "allocation" }
func (AllocationCheck) Severity() finding.Severity { return finding.Error }

func (c AllocationCheck) CheckLine(line string) (string, bool) {
	symbols := c.symbols()
	for _, callee := range parseCalls(line) {
		if hasAnyPrefix(callee, symbols) {
			return "contains allocation (real-time violation)", true
		}
	}
	return "", false
}

// AtomicCheck flags read-modify-write, compare-and-swap and fences.
type AtomicCheck struct{}

func (AtomicCheck) Name() string               { return "atomic" }
func (AtomicCheck) Severity() finding.Severity { return finding.Error }

func (AtomicCheck) CheckLine(line string) (string, bool) {
	if atomicRegex.MatchString(line) {
		return "contains atomic operation (real-time violation)", true
	}
	return "", false
}

// IndirectionCheck flags invoke and callbr.
type IndirectionCheck struct{}

func (IndirectionCheck) Name() string               { return "indirection" }
func (IndirectionCheck) Severity() finding.Severity { return finding.Error }

func (IndirectionCheck) CheckLine(line string) (string, bool) {
	if indirectionRegex.MatchString(line) {
		return "contains indirection", true
	}
	return "", false
}

// FunctionCallCheck flags calls that survived inlining. Intrinsics are exempt
// and allocator calls are left to AllocationCheck.
type FunctionCallCheck struct {
	allocators []string
}

// NewFunctionCallCheck returns a FunctionCallCheck that skips the same
// allocators as NewAllocationCheck(extra...).
func NewFunctionCallCheck(extra ...string) FunctionCallCheck {
	return FunctionCallCheck{allocators: allocatorSymbols(extra)}
}

func (FunctionCallCheck) Name() string               { return "function_call" }
func (FunctionCallCheck) Severity() finding.Severity { return finding.Error }

func (c FunctionCallCheck) CheckLine(line string) (string, bool) {
	allocators := c.allocators
	if allocators == nil {
		allocators = DefaultAllocators
	}
	for _, callee := range parseCalls(line) {
		if strings.HasPrefix(callee, IntrinsicPrefix) || hasAnyPrefix(callee, allocators) {
			continue
		}
		return "contains function call (not inlined)", true
	}
	return "", false
}

// VolatileLoadCheck flags volatile loads.
type VolatileLoadCheck struct{}

func (VolatileLoadCheck) Name() string               { return "volatile_load" }
func (VolatileLoadCheck) Severity() finding.Severity { return finding.Warning }

func (VolatileLoadCheck) CheckLine(line string) (string, bool) {
	if volatileLoad.MatchString(line) {
		return "volatile load (forces memory access, ~100-300 cycles)", true
	}
	return "", false
}

// VolatileStoreCheck flags volatile stores.
type VolatileStoreCheck struct{}

func (VolatileStoreCheck) Name() string               { return "volatile_store" }
func (VolatileStoreCheck) Severity() finding.Severity { return finding.Warning }

func (VolatileStoreCheck) CheckLine(line string) (string, bool) {
	if volatileStore.MatchString(line) {
		return "volatile store (forces write-through, ~100-300 cycles)", true
	}
	return "", false
}

// DivisionCheck flags integer division and remainder.
type DivisionCheck struct{}

func (DivisionCheck) Name() string               { return "division" }
func (DivisionCheck) Severity() finding.Severity { return finding.Warning }

func (DivisionCheck) CheckLine(line string) (string, bool) {
	if divisionRegex.MatchString(line) {
		return "division/modulo operation (10-40 cycles, not pipelined)", true
	}
	return "", false
}

// UnalignedAccessCheck flags loads and stores declared with align 1.
type UnalignedAccessCheck struct{}

func (UnalignedAccessCheck) Name() string               { return "unaligned_access" }
func (UnalignedAccessCheck) Severity() finding.Severity { return finding.Warning }

func (UnalignedAccessCheck) CheckLine(line string) (string, bool) {
	if memoryAccess.MatchString(line) && byteAlign.MatchString(line) {
		return "unaligned memory access (2-10x slower, blocks SIMD)", true
	}
	return "", false
}

// NonInboundsGepCheck flags getelementptr without the inbounds keyword.
type NonInboundsGepCheck struct{}

func (NonInboundsGepCheck) Name() string               { return "non_inbounds_gep" }
func (NonInboundsGepCheck) Severity() finding.Severity { return finding.Warning }

func (NonInboundsGepCheck) CheckLine(line string) (string, bool) {
	for _, m := range gepRegex.FindAllStringSubmatch(line, -1) {
		if m[1] == "" {
			return "non-inbounds GEP (adds bounds checks, prevents optimization)", true
		}
	}
	return "", false
}
