// Package scan verifies the hot functions of one or more IR files.
package scan

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/salchaD-27/hotpath-check/internal/finding"
	"github.com/salchaD-27/hotpath-check/internal/hotpath"
	"github.com/salchaD-27/hotpath-check/internal/irfile"
)

// Loggers are looked up per call since the backend is installed by main after
// package initialization.
func logger() commonlog.Logger {
	return commonlog.GetLogger("hotpath.scan")
}

// NotFoundCheck is the check name reported for missing hot functions.
const NotFoundCheck = "not_found"

type Options struct {
	Verifier *hotpath.Verifier
	// Only, when set, replaces discovery with an explicit list of names.
	Only []string
	// Extra names are verified in addition to the discovered ones.
	Extra []string
	// Concurrency bounds the number of files processed at once. Zero means
	// GOMAXPROCS.
	Concurrency int
}

// Result is the outcome of a scan. Findings are grouped by file in input
// order, then in verification order.
type Result struct {
	Files     []string
	Functions int
	Findings  []finding.Finding
}

type fileResult struct {
	functions int
	findings  []finding.Finding
	// defined lists the requested names found in the file.
	defined []string
}

// Scan verifies every IR file under paths. Violations and missing functions
// become Error findings; only I/O failures are returned as errors. Each file
// is verified fail-fast on its own, so an error in one file does not hide the
// results of another.
//
// A name from a file's own .hot_funcs section must be defined in that file.
// Names given through Options.Only or Options.Extra are verified wherever
// they are defined and reported missing only when no file defines them.
func Scan(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Verifier == nil {
		opts.Verifier = hotpath.Default()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	var files []string
	for _, p := range paths {
		found, err := irfile.Files(p)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", p, err)
		}
		files = append(files, found...)
	}

	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			r, err := scanFile(ctx, file, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{Files: files}
	defined := make(map[string]bool)
	for _, r := range results {
		out.Functions += r.functions
		out.Findings = append(out.Findings, r.findings...)
		for _, name := range r.defined {
			defined[name] = true
		}
	}
	for _, name := range requested(opts) {
		if defined[name] {
			continue
		}
		logger().Errorf("%s: not found in any input", name)
		out.Findings = append(out.Findings, finding.Finding{
			Function: name,
			Check:    NotFoundCheck,
			Severity: finding.Error,
			Message:  "not found in IR",
		})
	}
	return out, nil
}

func scanFile(ctx context.Context, path string, opts Options) (fileResult, error) {
	if err := ctx.Err(); err != nil {
		return fileResult{}, err
	}

	text, err := irfile.Read(ctx, path)
	if err != nil {
		return fileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	names, defined := functionNames(text, opts)
	if len(names) == 0 {
		logger().Noticef("%s: no hot functions", path)
		return fileResult{}, nil
	}
	logger().Infof("%s: verifying %d hot functions", path, len(names))

	verified, err := opts.Verifier.VerifyFunctions(text, names)

	r := fileResult{defined: defined}
	for _, v := range verified {
		logger().Debugf("%s: %s (%s) passed with %d warnings", path, v.Function, v.Symbol, len(v.Warnings))
		r.functions++
		for _, w := range v.Warnings {
			w.File = path
			r.findings = append(r.findings, w)
		}
	}

	var violation *hotpath.ViolationError
	var notFound *hotpath.NotFoundError
	switch {
	case err == nil:
	case errors.As(err, &violation):
		f := violation.Finding
		f.File = path
		r.functions++
		r.findings = append(r.findings, f)
		logger().Errorf("%s: %s", path, f)
	case errors.As(err, &notFound):
		r.findings = append(r.findings, finding.Finding{
			File:     path,
			Function: notFound.Function,
			Check:    NotFoundCheck,
			Severity: finding.Error,
			Message:  "not found in IR",
		})
		logger().Errorf("%s: %s", path, err)
	default:
		return fileResult{}, fmt.Errorf("verifying %s: %w", path, err)
	}
	return r, nil
}

// requested returns the names given through Only, or else Extra, without
// duplicates.
func requested(opts Options) []string {
	names := opts.Extra
	if len(opts.Only) > 0 {
		names = opts.Only
	}
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// functionNames returns the sorted names to verify in text and the requested
// names text accounts for. Discovered names are always verified; requested
// names only when text defines them.
func functionNames(text string, opts Options) (names, defined []string) {
	set := make(hotpath.HotFunctionSet)
	if len(opts.Only) == 0 {
		set = hotpath.Discover(text)
	}
	for _, name := range requested(opts) {
		if !set.Contains(name) {
			if _, err := hotpath.Extract(text, name); err != nil {
				continue
			}
			set.Add(name)
		}
		defined = append(defined, name)
	}
	return set.Sorted(), defined
}
