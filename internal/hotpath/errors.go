package hotpath

import (
	"fmt"

	"github.com/salchaD-27/hotpath-check/internal/finding"
)

// NotFoundError is returned when a function has no definition in the IR.
// Annotated functions removed by dead code elimination end up here.
type NotFoundError struct {
	Function string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("function %s not found in IR", e.Function)
}

// ViolationError is returned when an Error severity check fires.
type ViolationError struct {
	Finding finding.Finding
}

func (e *ViolationError) Error() string {
	return e.Finding.String()
}
