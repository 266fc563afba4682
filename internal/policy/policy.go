// Package policy loads verification settings from YAML or HCL files.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/salchaD-27/hotpath-check/internal/hotpath"
)

// Policy controls which checks run and how results are reported.
type Policy struct {
	// Disable lists check names that are not run.
	Disable []string `yaml:"disable"`
	// Allocators are extra allocator symbols, e.g. "@mi_malloc".
	Allocators []string `yaml:"allocators"`
	// Functions are verified in addition to the ones found in .hot_funcs.
	Functions     []string `yaml:"functions"`
	FailOnWarning bool     `yaml:"fail_on_warning"`
	Format        string   `yaml:"format"`
	Verbosity     int      `yaml:"verbosity"`
}

// DefaultFiles are looked up in the working directory when no policy file is
// given.
var DefaultFiles = []string{".hotpath.yaml", ".hotpath.yml", "hotpath.hcl"}

func Default() *Policy {
	return &Policy{Format: "text"}
}

// Load reads a policy file. The format is chosen by extension.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy: %w", err)
	}

	p := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, p)
	case ".hcl":
		err = decodeHCL(data, path, p)
	default:
		return nil, fmt.Errorf("unsupported policy file %q: expected .yaml, .yml or .hcl", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Format == "" {
		p.Format = "text"
	}
	return p, nil
}

// Resolve finds and loads the policy for a run: an explicit path, then
// $HOTPATH_POLICY, then DefaultFiles in dir. Environment overrides are applied
// last. A missing default file is not an error.
func Resolve(path, dir string) (*Policy, error) {
	if path == "" {
		path = os.Getenv("HOTPATH_POLICY")
	}
	if path == "" {
		for _, name := range DefaultFiles {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	p := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	if v := os.Getenv("HOTPATH_FORMAT"); v != "" {
		p.Format = v
	}
	if v := os.Getenv("HOTPATH_FAIL_ON_WARNING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			p.FailOnWarning = b
		}
	}
	return p, nil
}

// Checks returns the default checks minus the disabled ones, in registration
// order.
func (p *Policy) Checks() ([]hotpath.Check, error) {
	all := hotpath.DefaultChecks(p.Allocators...)

	known := make(map[string]bool, len(all))
	for _, c := range all {
		known[c.Name()] = true
	}
	disabled := make(map[string]bool, len(p.Disable))
	for _, name := range p.Disable {
		name = strings.ToLower(strings.TrimSpace(name))
		if !known[name] {
			return nil, fmt.Errorf("unknown check %q", name)
		}
		disabled[name] = true
	}

	checks := make([]hotpath.Check, 0, len(all))
	for _, c := range all {
		if !disabled[c.Name()] {
			checks = append(checks, c)
		}
	}
	return checks, nil
}

// Verifier builds a verifier from the policy.
func (p *Policy) Verifier() (*hotpath.Verifier, error) {
	checks, err := p.Checks()
	if err != nil {
		return nil, err
	}
	return hotpath.New(checks...), nil
}
