package irfile

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const sampleIR = "define void @f() {\n  ret void\n}\n"

func TestFilesWalksDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "deps"), 0o755))
	for _, name := range []string{"b.ll", "a.ll", "deps/c.bc", "notes.txt", "a.o"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sampleIR), 0o644))
	}

	files, err := Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.ll"),
		filepath.Join(dir, "b.ll"),
		filepath.Join(dir, "deps", "c.bc"),
	}, files)
}

func TestFilesSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleIR), 0o644))

	files, err := Files(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestFilesMissing(t *testing.T) {
	_, err := Files(filepath.Join(t.TempDir(), "missing.ll"))
	assert.Error(t, err)
}

func TestFilesStdin(t *testing.T) {
	files, err := Files(Stdin)
	require.NoError(t, err)
	assert.Equal(t, []string{Stdin}, files)
}

func TestReadNormalizesLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.ll")
	require.NoError(t, os.WriteFile(path, []byte("define void @f() {\r\n  ret void\r\n}\r\n"), 0o644))

	text, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, sampleIR, text)
}

func TestReadUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.ll")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, sampleIR...), 0o644))

	text, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, sampleIR, text)
}

func TestReadUTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(sampleIR)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "utf16.ll")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))

	text, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, sampleIR, text)
}

func TestReadBitcodeWithFailingTool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.bc")
	require.NoError(t, os.WriteFile(path, []byte{'B', 'C', 0xC0, 0xDE, 0x35, 0x14}, 0o644))

	t.Setenv("HOTPATH_LLVM_DIS", filepath.Join(t.TempDir(), "no-such-llvm-dis"))
	_, err := Read(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module.bc")
}

func TestReadBitcodeWithLLVMDis(t *testing.T) {
	if _, err := exec.LookPath("llvm-as"); err != nil {
		t.Skip("llvm-as not installed")
	}
	if _, err := exec.LookPath(LLVMDis()); err != nil {
		t.Skip("llvm-dis not installed")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "module.ll")
	bc := filepath.Join(dir, "module.bc")
	require.NoError(t, os.WriteFile(src, []byte(sampleIR), 0o644))
	require.NoError(t, exec.Command("llvm-as", src, "-o", bc).Run())

	text, err := Read(context.Background(), bc)
	require.NoError(t, err)
	assert.Contains(t, text, "define void @f()")
}
