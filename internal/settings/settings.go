// Package settings describes the compilation target and the host
// environment. Settings are read from bbc.yaml:
//
//	pointer_size: 4
//	boolean_type: u8
//	exit_code_type: i32
//	sizeof_type: i32
//	array_length_type: i32
//	externals:
//	  - name: stdout
//	    params: [u16]
//	    return: void
//	optimizations:
//	  evaluate: true
//	  inline_calls: true
//	  unroll_loops: true
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

// Settings fixes the target numeric widths and the host primitives.
type Settings struct {
	// PointerSize is the size of a pointer in bytes.
	PointerSize int `yaml:"pointer_size"`

	// BooleanType is the builtin type comparisons and conditions produce.
	BooleanType string `yaml:"boolean_type,omitempty"`

	// ExitCodeType is the type of the value a top-level return yields.
	ExitCodeType string `yaml:"exit_code_type,omitempty"`

	// SizeofType is the type of sizeof(T) and of allocation sizes.
	SizeofType string `yaml:"sizeof_type,omitempty"`

	// ArrayLengthType is the type of array lengths and indexes.
	ArrayLengthType string `yaml:"array_length_type,omitempty"`

	// Externals lists the functions the host provides for [External(name)].
	Externals []External `yaml:"externals,omitempty"`

	Optimizations Optimizations `yaml:"optimizations"`
}

// External describes one host-provided primitive.
type External struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
	Return string   `yaml:"return,omitempty"`
}

// Optimizations toggles the compile-time rewriting passes.
type Optimizations struct {
	Evaluate    bool `yaml:"evaluate"`
	InlineCalls bool `yaml:"inline_calls"`
	UnrollLoops bool `yaml:"unroll_loops"`
}

// Default returns settings for a 64-bit target with every optimization enabled.
func Default() *Settings {
	s := &Settings{
		Optimizations: Optimizations{Evaluate: true, InlineCalls: true, UnrollLoops: true},
	}
	s.setDefaults()
	return s
}

// Load reads and validates a settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes settings from YAML. Omitted fields get their defaults.
func Parse(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.setDefaults()
	if err := s.validate(path); err != nil {
		return nil, err
	}
	return &s, nil
}

// Find searches for the settings file starting from dir and walking up to
// parent directories. It returns an empty path when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, config.SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (s *Settings) setDefaults() {
	if s.PointerSize == 0 {
		s.PointerSize = 8
	}
	if s.BooleanType == "" {
		s.BooleanType = "u8"
	}
	if s.ExitCodeType == "" {
		s.ExitCodeType = "i32"
	}
	if s.SizeofType == "" {
		s.SizeofType = "i32"
	}
	if s.ArrayLengthType == "" {
		s.ArrayLengthType = "i32"
	}
	for i := range s.Externals {
		if s.Externals[i].Return == "" {
			s.Externals[i].Return = "void"
		}
	}
}

func (s *Settings) validate(path string) error {
	switch s.PointerSize {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("%s: pointer_size must be 1, 2, 4 or 8, got %d", path, s.PointerSize)
	}
	for field, name := range map[string]string{
		"boolean_type":      s.BooleanType,
		"exit_code_type":    s.ExitCodeType,
		"sizeof_type":       s.SizeofType,
		"array_length_type": s.ArrayLengthType,
	} {
		k, ok := types.ParseBuiltin(name)
		if !ok || types.ClassOf(k) == types.NotNumeric {
			return fmt.Errorf("%s: %s: %q is not a numeric builtin type", path, field, name)
		}
	}
	seen := make(map[string]bool)
	for i, ext := range s.Externals {
		if ext.Name == "" {
			return fmt.Errorf("%s: externals[%d]: name is required", path, i)
		}
		if seen[ext.Name] {
			return fmt.Errorf("%s: externals[%d]: duplicate external %q", path, i, ext.Name)
		}
		seen[ext.Name] = true
		for j, p := range ext.Params {
			if _, ok := types.ParseBuiltin(p); !ok {
				return fmt.Errorf("%s: externals[%d] (%s): params[%d]: unknown type %q", path, i, ext.Name, j, p)
			}
		}
		if _, ok := types.ParseBuiltin(ext.Return); !ok {
			return fmt.Errorf("%s: externals[%d] (%s): unknown return type %q", path, i, ext.Name, ext.Return)
		}
	}
	return nil
}

func mustKind(name string) types.Kind {
	k, ok := types.ParseBuiltin(name)
	if !ok {
		return types.I32
	}
	return k
}

func (s *Settings) BooleanKind() types.Kind     { return mustKind(s.BooleanType) }
func (s *Settings) ExitCodeKind() types.Kind    { return mustKind(s.ExitCodeType) }
func (s *Settings) SizeofKind() types.Kind      { return mustKind(s.SizeofType) }
func (s *Settings) ArrayLengthKind() types.Kind { return mustKind(s.ArrayLengthType) }

// External looks up a host primitive by name.
func (s *Settings) External(name string) (External, bool) {
	for _, e := range s.Externals {
		if e.Name == name {
			return e, true
		}
	}
	return External{}, false
}

// Signature returns the parameter and return kinds of the primitive.
func (e External) Signature() ([]types.Kind, types.Kind) {
	params := make([]types.Kind, len(e.Params))
	for i, p := range e.Params {
		params[i] = mustKind(p)
	}
	return params, mustKind(e.Return)
}
