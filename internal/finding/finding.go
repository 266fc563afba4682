package finding

import "fmt"

type Severity string

const (
	Error   Severity = "ERROR"
	Warning Severity = "WARN"
)

// Finding is a single result of verifying a hot function.
type Finding struct {
	File        string   `json:"file,omitempty"`
	Line        int      `json:"line,omitempty"`
	Function    string   `json:"function"`
	Check       string   `json:"check"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Instruction string   `json:"instruction,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Function, f.Message)
}

// HasErrors reports whether any finding has Error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == Error {
			return true
		}
	}
	return false
}
