// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package keymap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Section is one entry of a keymap file: an optional context naming
// the surface the bindings apply to (empty means global) and a table
// of keystroke sequences to action names. A null or empty action
// unbinds the sequence.
type Section struct {
	Context  string            `json:"context"`
	Bindings map[string]string `json:"bindings"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into keymap sections.
func Parse(data []byte) ([]Section, error) {
	stripped := jsonc.ToJSON(data)

	var sections []Section
	if err := json.Unmarshal(stripped, &sections); err != nil {
		return nil, fmt.Errorf("keymap: parsing: %w", err)
	}
	return sections, nil
}

// ReadFile reads a JSONC keymap file from disk and parses it into
// sections. Returns a descriptive error if the file cannot be read
// or the JSON is malformed.
func ReadFile(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: reading %s: %w", path, err)
	}

	sections, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sections, nil
}

//go:embed default.jsonc
var defaultRaw []byte

// Default returns the built-in keymap sections. Panics if the
// embedded asset does not parse, which is a build defect.
func Default() []Section {
	sections, err := Parse(defaultRaw)
	if err != nil {
		panic("keymap: embedded default keymap invalid: " + err.Error())
	}
	return sections
}

// Load builds the effective keymap: the embedded defaults, then the
// user's file appended when path is non-empty, so user bindings
// shadow the defaults.
func Load(path string) (*Keymap, error) {
	sections := Default()
	if path != "" {
		user, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		sections = append(sections, user...)
	}
	return New(sections)
}
