package policy

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// A YAML policy:
//
//	disable: [division]
//	allocators: ["@mi_malloc"]
//	functions: ["engine::audio::render"]
//	fail_on_warning: true
//	format: gha
func decodeYAML(data []byte, p *Policy) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
