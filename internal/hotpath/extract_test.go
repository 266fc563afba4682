package hotpath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiFunctionIR = `; ModuleID = 'dsp.7a3c1f-cgu.0'
source_filename = "dsp.7a3c1f-cgu.0"

define internal i32 @_ZN3dsp4gain5apply17h9c2d3e4f5a6b7c8dE(i32 %x, i32 %g) unnamed_addr #0 {
start:
  %0 = mul i32 %x, %g
  ret i32 %0
}

define noundef i32 @_ZN3dsp6filter4tick17h1a2b3c4d5e6f7a8bE(ptr noundef nonnull align 4 dereferenceable(8) %self) unnamed_addr #1 {
start:
  %0 = load i32, ptr %self, align 4
  %1 = sdiv i32 %0, 3
  ret i32 %1
}

define i32 @tick(i32 %a) {
  ret i32 %a
}
`

func TestExtractMangledFunction(t *testing.T) {
	body, err := Extract(multiFunctionIR, "dsp::filter::tick")
	require.NoError(t, err)

	assert.Equal(t, "dsp::filter::tick", body.Name)
	assert.Equal(t, "_ZN3dsp6filter4tick17h1a2b3c4d5e6f7a8bE", body.Symbol)
	assert.Equal(t, []string{"", "start:", "  %0 = load i32, ptr %self, align 4", "  %1 = sdiv i32 %0, 3", "  ret i32 %1"}, body.Lines)
}

func TestExtractLineNumbers(t *testing.T) {
	body, err := Extract(multiFunctionIR, "dsp::filter::tick")
	require.NoError(t, err)

	// The header of dsp::filter::tick is on line 10
	assert.Equal(t, 10, body.LineNumber(0))
	assert.Equal(t, 13, body.LineNumber(3))
}

func TestExtractPrefersExactSymbol(t *testing.T) {
	// "tick" is a substring of the filter symbol defined earlier, but an
	// exact definition exists.
	body, err := Extract(multiFunctionIR, "tick")
	require.NoError(t, err)

	assert.Equal(t, "tick", body.Symbol)
	assert.Equal(t, []string{"", "  ret i32 %a"}, body.Lines)
}

func TestExtractSubstringFallback(t *testing.T) {
	body, err := Extract(multiFunctionIR, "apply")
	require.NoError(t, err)
	assert.Equal(t, "_ZN3dsp4gain5apply17h9c2d3e4f5a6b7c8dE", body.Symbol)
}

func TestExtractQuotedSymbol(t *testing.T) {
	ir := "define void @\"mix.voice\"(ptr %v) {\n  ret void\n}\n"
	body, err := Extract(ir, "mix.voice")
	require.NoError(t, err)
	assert.Equal(t, "mix.voice", body.Symbol)
}

func TestExtractEmptyBody(t *testing.T) {
	body, err := Extract("define void @test_func() {\n}", "test_func")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, body.Lines)
}

func TestExtractNotFound(t *testing.T) {
	_, err := Extract(multiFunctionIR, "dsp::mixer::run")
	require.Error(t, err)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "dsp::mixer::run", nf.Function)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "dsp::mixer::run")
}

func TestExtractIgnoresDeclarations(t *testing.T) {
	ir := "declare ptr @malloc(i64)\n"
	_, err := Extract(ir, "malloc")
	assert.Error(t, err)
}

func TestExtractCRLF(t *testing.T) {
	ir := "define i32 @test_func(i32 %x) {\r\n  %0 = sdiv i32 %x, 3\r\n  ret i32 %0\r\n}\r\n"
	body, err := Extract(ir, "test_func")
	require.NoError(t, err)
	assert.Len(t, body.Lines, 3)

	warnings, err := Default().Verify(ir, "test_func")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "division", warnings[0].Check)
	assert.Equal(t, "%0 = sdiv i32 %x, 3", warnings[0].Instruction)
	assert.Equal(t, 2, warnings[0].Line)
}
