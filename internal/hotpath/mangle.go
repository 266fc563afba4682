package hotpath

import (
	"strconv"
	"strings"
)

// PathSeparator separates the segments of a namespaced function path.
const PathSeparator = "::"

// Mangle converts a namespaced path (a::b::c) to the length-prefixed form
// used in symbol names (1a1b1c).
func Mangle(path string) string {
	var b strings.Builder
	for _, segment := range strings.Split(path, PathSeparator) {
		b.WriteString(strconv.Itoa(len(segment)))
		b.WriteString(segment)
	}
	return b.String()
}

// SearchName returns the string to look for in symbol names. Free functions
// are often emitted unmangled, so plain names are used as-is.
func SearchName(name string) string {
	if strings.Contains(name, PathSeparator) {
		return Mangle(name)
	}
	return name
}
