package hotpath

import (
	"regexp"
	"strings"
)

// FunctionBody is the instruction text of one function definition.
type FunctionBody struct {
	// Name is the name that was requested.
	Name string
	// Symbol is the symbol of the matched definition, without the leading '@'.
	Symbol string
	// StartLine is the 1-based line in the IR text on which Lines[0] starts.
	StartLine int
	Lines     []string
}

// LineNumber returns the IR line number of Lines[i].
func (b *FunctionBody) LineNumber(i int) int {
	return b.StartLine + i
}

// definitionPattern builds a pattern for a `define` block whose symbol is
// matched by symbol. Group 1 is the symbol, group 2 the body up to the first
// line holding only '}'.
func definitionPattern(symbol string) *regexp.Regexp {
	return regexp.MustCompile(`(?ms)define[^@]*@(` + symbol + `)\([^)]*\)[^{]*\{(.*?)\n\}[ \t]*\r?$`)
}

// Extract locates the definition of name in ir and returns its body lines.
// Namespaced names are mangled first. A definition whose symbol is exactly the
// search name wins; otherwise the first symbol containing it is used, which
// tolerates hash and instantiation suffixes added by the compiler.
func Extract(ir, name string) (*FunctionBody, error) {
	search := regexp.QuoteMeta(SearchName(name))

	patterns := []*regexp.Regexp{
		definitionPattern(`"?` + search + `"?`),
		definitionPattern(`[^\s(]*` + search + `[^(\s]*`),
	}
	for _, re := range patterns {
		loc := re.FindStringSubmatchIndex(ir)
		if loc == nil {
			continue
		}
		body := ir[loc[4]:loc[5]]
		return &FunctionBody{
			Name:      name,
			Symbol:    strings.Trim(ir[loc[2]:loc[3]], `"`),
			StartLine: strings.Count(ir[:loc[4]], "\n") + 1,
			Lines:     strings.Split(body, "\n"),
		}, nil
	}

	return nil, &NotFoundError{Function: name}
}
