// Package irfile locates and reads LLVM IR inputs.
package irfile

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the path that reads IR from standard input.
const Stdin = "-"

func logger() commonlog.Logger {
	return commonlog.GetLogger("hotpath.irfile")
}

// bitcodeMagic starts every raw LLVM bitcode file.
var bitcodeMagic = []byte{'B', 'C', 0xC0, 0xDE}

// Files returns the IR inputs under path. A file is returned as-is; a
// directory is walked for .ll and .bc files in lexical order.
func Files(path string) ([]string, error) {
	if path == Stdin {
		return []string{Stdin}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		switch filepath.Ext(p) {
		case ".ll", ".bc":
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// Read returns the textual IR of path. Bitcode is disassembled with
// llvm-dis. Text input may be UTF-8 or BOM-marked UTF-16, as written by some
// Windows shells; line endings are normalized to "\n".
func Read(ctx context.Context, path string) (string, error) {
	var r io.Reader
	if path == Stdin {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	br := bufio.NewReader(r)
	if magic, _ := br.Peek(len(bitcodeMagic)); bytes.Equal(magic, bitcodeMagic) {
		if path == Stdin {
			return "", fmt.Errorf("bitcode on stdin is not supported, pass a file path")
		}
		return disassemble(ctx, path)
	}

	logger().Debugf("reading IR text from %s", path)
	return decode(br)
}

func decode(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// LLVMDis returns the llvm-dis executable, overridable with
// $HOTPATH_LLVM_DIS.
func LLVMDis() string {
	if v := os.Getenv("HOTPATH_LLVM_DIS"); v != "" {
		return v
	}
	return "llvm-dis"
}

// disassemble runs llvm-dis on a bitcode file and returns its output.
func disassemble(ctx context.Context, path string) (string, error) {
	tool := LLVMDis()
	logger().Debugf("disassembling %s with %s", path, tool)

	cmd := exec.CommandContext(ctx, tool, "-o", "-", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s %s: %s", tool, path, msg)
	}
	return decode(&stdout)
}
