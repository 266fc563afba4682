package hotpath

import (
	"fmt"
	"regexp"
	"sort"
)

// HotFunctionSet holds the names of functions annotated as hot.
type HotFunctionSet map[string]struct{}

func (s HotFunctionSet) Add(name string) {
	s[name] = struct{}{}
}

func (s HotFunctionSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

func (s HotFunctionSet) Len() int {
	return len(s)
}

// Sorted returns the names in lexical order.
func (s HotFunctionSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HotSection is the section the marking construct places its entries in.
const HotSection = ".hot_funcs"

// Entries look like:
//
//	@HOT_FUNC.1 = internal constant <{ ptr, [8 x i8] }> <{ ptr @alloc_foo, ... }>, section ".hot_funcs", align 8
//
// Typed-pointer IR from older LLVM writes `[4 x i8]* @alloc_foo` instead.
var hotEntryRegex = regexp.MustCompile(`(?:\bptr|\*)\s+(@(?:"[^"]*"|[-\w.$]+)).*section\s+"` + regexp.QuoteMeta(HotSection) + `"`)

// constantPattern matches the definition of a string constant referenced from
// a .hot_funcs entry. The identifier is escaped since symbols may contain '.'.
func constantPattern(ref string) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(`(?m)^\s*%s\s*=.*?c"([^"]+)\\00"`, regexp.QuoteMeta(ref)))
}

// Discover returns the names of all functions registered in the .hot_funcs
// section of ir. Entries that cannot be resolved are skipped.
func Discover(ir string) HotFunctionSet {
	found := make(HotFunctionSet)
	seen := make(map[string]bool)

	for _, m := range hotEntryRegex.FindAllStringSubmatch(ir, -1) {
		ref := m[1]
		if seen[ref] {
			continue
		}
		seen[ref] = true

		re, err := constantPattern(ref)
		if err != nil {
			continue
		}
		if c := re.FindStringSubmatch(ir); c != nil {
			found.Add(c[1])
		}
	}

	return found
}
