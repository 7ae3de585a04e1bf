// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/easel-foundation/easel/lib/fuzzy"
)

// Action is one row of the command palette: an action identifier the
// program knows how to dispatch, plus the keystroke hint displayed
// beside it.
type Action struct {
	Name string
	Hint string
}

// Palette is a fuzzy command launcher. While open it owns keyboard
// input: printable characters edit the query, navigation keys move
// the cursor through the ranked matches, and accept returns the
// selected action to the caller. Rendering produces overlay lines for
// Splice rather than a full view, so the palette floats above
// whatever surface opened it.
type Palette struct {
	actions []Action
	names   []string
	query   []rune
	ranked  []fuzzy.Ranked
	cursor  int
	offset  int
	maxRows int
	open    bool
}

// NewPalette creates a palette over the given actions, showing at
// most maxRows matches at a time.
func NewPalette(actions []Action, maxRows int) *Palette {
	if maxRows < 1 {
		maxRows = 1
	}
	names := make([]string, len(actions))
	for index, action := range actions {
		names[index] = action.Name
	}
	palette := &Palette{
		actions: actions,
		names:   names,
		maxRows: maxRows,
	}
	palette.rerank()
	return palette
}

// Open shows the palette with a fresh query.
func (palette *Palette) Open() {
	palette.open = true
	palette.query = palette.query[:0]
	palette.rerank()
}

// Dismiss hides the palette.
func (palette *Palette) Dismiss() {
	palette.open = false
}

// IsOpen reports whether the palette is visible and owning input.
func (palette *Palette) IsOpen() bool {
	return palette.open
}

// Query returns the current filter text.
func (palette *Palette) Query() string {
	return string(palette.query)
}

// HandleRune appends a typed character to the query and re-ranks.
func (palette *Palette) HandleRune(character rune) {
	palette.query = append(palette.query, character)
	palette.rerank()
}

// HandleBackspace removes the last query character. Reports whether
// the query changed.
func (palette *Palette) HandleBackspace() bool {
	if len(palette.query) == 0 {
		return false
	}
	palette.query = palette.query[:len(palette.query)-1]
	palette.rerank()
	return true
}

// MoveUp moves the cursor up by one match, wrapping to the bottom.
func (palette *Palette) MoveUp() {
	if len(palette.ranked) == 0 {
		return
	}
	palette.cursor--
	if palette.cursor < 0 {
		palette.cursor = len(palette.ranked) - 1
	}
	palette.scrollIntoView()
}

// MoveDown moves the cursor down by one match, wrapping to the top.
func (palette *Palette) MoveDown() {
	if len(palette.ranked) == 0 {
		return
	}
	palette.cursor++
	if palette.cursor >= len(palette.ranked) {
		palette.cursor = 0
	}
	palette.scrollIntoView()
}

// Selected returns the action under the cursor. The second result is
// false when no action matches the current query.
func (palette *Palette) Selected() (Action, bool) {
	if len(palette.ranked) == 0 {
		return Action{}, false
	}
	return palette.actions[palette.ranked[palette.cursor].Index], true
}

// MatchCount reports how many actions match the current query.
func (palette *Palette) MatchCount() int {
	return len(palette.ranked)
}

// Height reports the number of lines Render will produce: the input
// row plus the bounded result window (one row when nothing matches).
func (palette *Palette) Height() int {
	rows := len(palette.ranked)
	if rows > palette.maxRows {
		rows = palette.maxRows
	}
	if rows < 1 {
		rows = 1
	}
	return 1 + rows
}

// rerank rebuilds the match list for the current query and resets the
// cursor to the best match.
func (palette *Palette) rerank() {
	palette.ranked = fuzzy.RankStrings(palette.names, string(palette.query))
	palette.cursor = 0
	palette.offset = 0
}

// scrollIntoView adjusts the window offset so the cursor row is
// visible.
func (palette *Palette) scrollIntoView() {
	if palette.cursor < palette.offset {
		palette.offset = palette.cursor
	}
	if palette.cursor >= palette.offset+palette.maxRows {
		palette.offset = palette.cursor - palette.maxRows + 1
	}
}

// Render produces the palette's overlay lines, each exactly width
// cells wide: the query input row, then the visible window of ranked
// matches with the cursor row highlighted and matched characters
// accented. Intended for Splice onto the program's base view.
func (palette *Palette) Render(theme Theme, width int) []string {
	if width < 8 {
		width = 8
	}
	innerWidth := width - 2 // one background-colored space each side

	background := lipgloss.NewStyle().Background(theme.OverlayBackground)
	prompt := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Background(theme.OverlayBackground).
		Bold(true)
	queryStyle := lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.OverlayBackground)
	cursorStyle := lipgloss.NewStyle().
		Foreground(theme.Heading).
		Background(theme.OverlayBackground).
		Bold(true)

	lines := make([]string, 0, palette.Height())

	// Input row: prompt, query, block cursor.
	input := prompt.Render("> ") + queryStyle.Render(string(palette.query)) + cursorStyle.Render("▎")
	lines = append(lines, PadOverlayLine(input, innerWidth, background))

	if len(palette.ranked) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(theme.FaintText).
			Background(theme.OverlayBackground).
			Render("no matching actions")
		return append(lines, PadOverlayLine(empty, innerWidth, background))
	}

	end := palette.offset + palette.maxRows
	if end > len(palette.ranked) {
		end = len(palette.ranked)
	}
	for index := palette.offset; index < end; index++ {
		match := palette.ranked[index]
		action := palette.actions[match.Index]
		selected := index == palette.cursor

		rowBackground := theme.OverlayBackground
		if selected {
			rowBackground = theme.SelectedBackground
		}
		rowStyle := lipgloss.NewStyle().Background(rowBackground)

		marker := "  "
		if selected {
			marker = "› "
		}
		markerStyle := lipgloss.NewStyle().
			Foreground(theme.Accent).
			Background(rowBackground).
			Bold(true)

		// Name with matched runes accented; hint right-aligned.
		nameForeground := theme.Text
		if selected {
			nameForeground = theme.SelectedForeground
		}
		name := highlightMatches(action.Name, match.Positions, nameForeground, theme.Accent, rowBackground)

		row := markerStyle.Render(marker) + name
		if action.Hint != "" {
			hintStyle := lipgloss.NewStyle().
				Foreground(theme.Help).
				Background(rowBackground)
			gap := innerWidth - ansi.StringWidth(row) - ansi.StringWidth(action.Hint)
			if gap >= 1 {
				row += rowStyle.Render(strings.Repeat(" ", gap)) + hintStyle.Render(action.Hint)
			}
		}
		lines = append(lines, PadOverlayLine(row, innerWidth, rowStyle))
	}
	return lines
}

// highlightMatches renders name with the runes at the matched
// positions drawn in the accent color. Consecutive positions are
// grouped so each run costs one style span.
func highlightMatches(name string, positions []int, foreground, accent, background lipgloss.Color) string {
	base := lipgloss.NewStyle().Foreground(foreground).Background(background)
	if len(positions) == 0 {
		return base.Render(name)
	}
	match := lipgloss.NewStyle().Foreground(accent).Background(background).Bold(true)

	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}

	runes := []rune(name)
	var rendered strings.Builder
	for start := 0; start < len(runes); {
		end := start
		for end < len(runes) && matched[end] == matched[start] {
			end++
		}
		segment := string(runes[start:end])
		if matched[start] {
			rendered.WriteString(match.Render(segment))
		} else {
			rendered.WriteString(base.Render(segment))
		}
		start = end
	}
	return rendered.String()
}
