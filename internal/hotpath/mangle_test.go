package hotpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangle(t *testing.T) {
	assert.Equal(t, "3foo", Mangle("foo"))
	assert.Equal(t, "3foo3bar", Mangle("foo::bar"))
	assert.Equal(t, "1a1b1c", Mangle("a::b::c"))
	assert.Equal(t, "7tinywdf3dag10node_arena15get_children_of", Mangle("tinywdf::dag::node_arena::get_children_of"))
}

func TestSearchName(t *testing.T) {
	// Free functions are matched verbatim
	assert.Equal(t, "process", SearchName("process"))
	assert.Equal(t, "5audio7process", SearchName("audio::process"))
}
