// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package keymap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// entry is one effective binding after shadowing and unbinding.
type entry struct {
	context  string
	sequence []string
	action   string
}

// Keymap resolves keystroke sequences to actions. Build one with New
// or Load; it is immutable and safe for concurrent reads.
type Keymap struct {
	// byContext holds the effective bindings per context, in the
	// order they were bound (file order across sections, sorted
	// within one section).
	byContext map[string][]entry

	// display records the newest surviving binding per action, for
	// help overlays and palette hints.
	display map[string]entry
}

// New flattens sections into an effective keymap. Later sections
// shadow earlier ones for the same context and sequence; null or
// empty actions remove the binding. Malformed keystrokes are
// reported with the offending sequence.
func New(sections []Section) (*Keymap, error) {
	type slot struct {
		entry
		order int
	}
	effective := make(map[string]*slot)
	order := 0

	for _, section := range sections {
		// Bindings within one section cannot collide (JSON object
		// keys are unique); sort them so flattening is deterministic.
		sequences := make([]string, 0, len(section.Bindings))
		for sequence := range section.Bindings {
			sequences = append(sequences, sequence)
		}
		slices.Sort(sequences)

		for _, sequence := range sequences {
			strokes, err := normalizeSequence(sequence)
			if err != nil {
				return nil, fmt.Errorf("%w (context %q)", err, section.Context)
			}
			mapKey := section.Context + "\x00" + strings.Join(strokes, " ")
			effective[mapKey] = &slot{
				entry: entry{
					context:  section.Context,
					sequence: strokes,
					action:   section.Bindings[sequence],
				},
				order: order,
			}
			order++
		}
	}

	slots := make([]*slot, 0, len(effective))
	for _, s := range effective {
		slots = append(slots, s)
	}
	slices.SortFunc(slots, func(a, b *slot) int { return a.order - b.order })

	// Unbound entries (null action) stay in the lookup lists: an
	// exact match on one masks any outer binding for the same
	// sequence. They never appear in display.
	keymap := &Keymap{
		byContext: make(map[string][]entry),
		display:   make(map[string]entry),
	}
	for _, s := range slots {
		keymap.byContext[s.context] = append(keymap.byContext[s.context], s.entry)
		if s.action != "" {
			keymap.display[s.action] = s.entry
		}
	}
	return keymap, nil
}

// Resolution is the outcome of looking up a keystroke sequence.
type Resolution struct {
	// Action is the bound action name when the sequence exactly
	// matches a binding, empty otherwise.
	Action string

	// Pending is true when the sequence is a proper prefix of at
	// least one longer binding, so the caller should hold the
	// keystrokes and wait for the next one.
	Pending bool
}

// Resolve looks up a keystroke sequence within a context. Context
// bindings take precedence over global ones for an exact match.
// Strokes are normalized here, so callers can pass FromTea output
// directly; a stroke that does not parse matches nothing.
func (k *Keymap) Resolve(context string, sequence []string) Resolution {
	if len(sequence) == 0 {
		return Resolution{}
	}
	strokes := make([]string, len(sequence))
	for i, raw := range sequence {
		stroke, err := NormalizeStroke(raw)
		if err != nil {
			return Resolution{}
		}
		strokes[i] = stroke
	}

	var resolution Resolution
	scan := func(entries []entry) (action string, found bool) {
		for _, e := range entries {
			if e.action != "" && len(e.sequence) > len(strokes) &&
				slices.Equal(e.sequence[:len(strokes)], strokes) {
				resolution.Pending = true
			}
			if slices.Equal(e.sequence, strokes) {
				// Shadowing already collapsed duplicates, so at most
				// one entry matches exactly. An empty action is an
				// explicit unbind: it matches, masking any outer
				// binding, but resolves to nothing.
				action = e.action
				found = true
			}
		}
		return action, found
	}

	if context != "" {
		if action, found := scan(k.byContext[context]); found {
			resolution.Action = action
			scan(k.byContext[""]) // still collect global pending chords
			return resolution
		}
	}
	if action, found := scan(k.byContext[""]); found {
		resolution.Action = action
	}
	return resolution
}

// Actions returns the distinct bound action names, sorted. The
// command palette lists these.
func (k *Keymap) Actions() []string {
	actions := make([]string, 0, len(k.display))
	for action := range k.display {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	return actions
}

// Binding returns a bubbles key.Binding for an action, for help
// overlays. The newest surviving binding wins, matching the
// shadowing rule. Single-stroke bindings carry matchable keys;
// chords are help-only since a chord cannot match one key message.
// An unbound action yields a disabled binding.
func (k *Keymap) Binding(action string) key.Binding {
	e, ok := k.display[action]
	if !ok {
		return key.NewBinding(
			key.WithHelp("", action),
			key.WithDisabled(),
		)
	}

	help := key.WithHelp(strings.Join(e.sequence, " "), action)
	if len(e.sequence) == 1 {
		return key.NewBinding(key.WithKeys(toTea(e.sequence[0])), help)
	}
	return key.NewBinding(help)
}

// Sequence returns the display form of the newest binding for an
// action ("ctrl-k ctrl-t"), or empty when unbound. Palette rows use
// this as the shortcut hint column.
func (k *Keymap) Sequence(action string) string {
	e, ok := k.display[action]
	if !ok {
		return ""
	}
	return strings.Join(e.sequence, " ")
}
