// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package keymap

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// namedKeys are the multi-character key names a keystroke may end
// with. Single characters are always valid keys. The canonical names
// follow bubbletea's key strings so conversion stays mechanical.
var namedKeys = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"enter": true, "esc": true, "tab": true, "space": true,
	"backspace": true, "delete": true, "insert": true,
	"home": true, "end": true, "pgup": true, "pgdown": true,
	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true,
	"f6": true, "f7": true, "f8": true, "f9": true, "f10": true,
	"f11": true, "f12": true,
}

// keyAliases maps accepted spellings to canonical key names.
var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdown",
	"del":      "delete",
}

// NormalizeStroke parses one keystroke and returns its canonical
// form: modifiers in ctrl-alt-shift-cmd order, lowercased, followed
// by the key. A single uppercase letter becomes shift plus the
// lowercase letter, so "G" and "shift-g" are the same stroke.
func NormalizeStroke(stroke string) (string, error) {
	if stroke == "" {
		return "", fmt.Errorf("keymap: empty keystroke")
	}

	parts := strings.Split(stroke, "-")
	key := parts[len(parts)-1]
	modifiers := parts[:len(parts)-1]
	if key == "" {
		// A trailing dash means the key is the dash itself
		// ("ctrl--"); drop the empty segment the split produced.
		if len(modifiers) == 0 {
			return "", fmt.Errorf("keymap: malformed keystroke %q", stroke)
		}
		key = "-"
		modifiers = modifiers[:len(modifiers)-1]
	}

	var ctrl, alt, shift, cmd bool
	for _, modifier := range modifiers {
		switch strings.ToLower(modifier) {
		case "ctrl":
			ctrl = true
		case "alt", "option":
			alt = true
		case "shift":
			shift = true
		case "cmd", "super", "win":
			cmd = true
		default:
			return "", fmt.Errorf("keymap: unknown modifier %q in keystroke %q", modifier, stroke)
		}
	}

	if utf8.RuneCountInString(key) == 1 {
		r, _ := utf8.DecodeRuneInString(key)
		if unicode.IsUpper(r) {
			shift = true
			r = unicode.ToLower(r)
		}
		key = string(r)
	} else {
		key = strings.ToLower(key)
		if canonical, ok := keyAliases[key]; ok {
			key = canonical
		}
		if !namedKeys[key] {
			return "", fmt.Errorf("keymap: unknown key %q in keystroke %q", key, stroke)
		}
	}

	var canonical []string
	if ctrl {
		canonical = append(canonical, "ctrl")
	}
	if alt {
		canonical = append(canonical, "alt")
	}
	if shift {
		canonical = append(canonical, "shift")
	}
	if cmd {
		canonical = append(canonical, "cmd")
	}
	canonical = append(canonical, key)
	return strings.Join(canonical, "-"), nil
}

// normalizeSequence splits a whitespace-separated keystroke sequence
// and normalizes each stroke.
func normalizeSequence(sequence string) ([]string, error) {
	fields := strings.Fields(sequence)
	if len(fields) == 0 {
		return nil, fmt.Errorf("keymap: empty keystroke sequence")
	}
	strokes := make([]string, len(fields))
	for i, field := range fields {
		stroke, err := NormalizeStroke(field)
		if err != nil {
			return nil, err
		}
		strokes[i] = stroke
	}
	return strokes, nil
}

// FromTea converts a bubbletea key string ("ctrl+k", "shift+tab",
// "G") to keystroke form. Normalization happens inside Resolve, so
// callers can feed this value directly.
func FromTea(teaKey string) string {
	if teaKey == " " {
		return "space"
	}
	if utf8.RuneCountInString(teaKey) == 1 {
		return teaKey
	}
	// A trailing "++" is a modified literal plus key.
	if strings.HasSuffix(teaKey, "++") {
		return strings.ReplaceAll(strings.TrimSuffix(teaKey, "++"), "+", "-") + "-+"
	}
	return strings.ReplaceAll(teaKey, "+", "-")
}

// toTea converts a canonical keystroke to bubbletea's key string
// format for bubbles/key matching.
func toTea(stroke string) string {
	if stroke == "space" {
		return " "
	}
	if stroke == "-" {
		return "-"
	}
	if strings.HasSuffix(stroke, "--") {
		return strings.ReplaceAll(strings.TrimSuffix(stroke, "--"), "-", "+") + "+-"
	}
	return strings.ReplaceAll(stroke, "-", "+")
}
