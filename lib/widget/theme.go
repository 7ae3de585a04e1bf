// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and visual properties for Easel's
// terminal surfaces. All colors use lipgloss ANSI 256-color codes for
// broad terminal compatibility.
//
// The fields cover the universal chrome (text, selection, borders)
// plus the handful of semantic roles Easel surfaces share: headings,
// inline code, links, and the glow tints used to animate rows that
// changed recently.
type Theme struct {
	// Text colors.
	Text      lipgloss.Color
	FaintText lipgloss.Color

	// Selected row.
	SelectedForeground lipgloss.Color
	SelectedBackground lipgloss.Color

	// UI chrome.
	Heading lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
	Help    lipgloss.Color

	// Inline content.
	Code lipgloss.Color
	Link lipgloss.Color

	// Overlay surfaces (palette, help) draw on this background so
	// they separate visually from the content beneath them.
	OverlayBackground lipgloss.Color

	// Glow tints: background for rows with a recent change event.
	// GlowChangeBackground is used for created or updated rows,
	// GlowAlertBackground for removals and destructive actions.
	GlowChangeBackground lipgloss.Color
	GlowAlertBackground  lipgloss.Color

	// CodeStyle names the chroma style used to highlight fenced code
	// blocks in markdown rendering.
	CodeStyle string
}

// GlowTint returns the background tint for a glow kind.
func (theme Theme) GlowTint(kind GlowKind) lipgloss.Color {
	if kind == GlowAlert {
		return theme.GlowAlertBackground
	}
	return theme.GlowChangeBackground
}

// Dark is the built-in dark-terminal color scheme, designed for
// 256-color terminals with a dark background (the common case for
// development environments and tmux sessions).
var Dark = Theme{
	Text:      lipgloss.Color("252"),
	FaintText: lipgloss.Color("245"),

	SelectedForeground: lipgloss.Color("255"),
	SelectedBackground: lipgloss.Color("236"),

	Heading: lipgloss.Color("255"),
	Accent:  lipgloss.Color("215"),
	Border:  lipgloss.Color("240"),
	Help:    lipgloss.Color("241"),

	Code: lipgloss.Color("186"),
	Link: lipgloss.Color("75"),

	OverlayBackground: lipgloss.Color("237"),

	GlowChangeBackground: lipgloss.Color("58"), // dark amber
	GlowAlertBackground:  lipgloss.Color("52"), // dark red

	CodeStyle: "monokai",
}

// Light is the built-in light-terminal color scheme.
var Light = Theme{
	Text:      lipgloss.Color("235"),
	FaintText: lipgloss.Color("243"),

	SelectedForeground: lipgloss.Color("16"),
	SelectedBackground: lipgloss.Color("253"),

	Heading: lipgloss.Color("16"),
	Accent:  lipgloss.Color("166"),
	Border:  lipgloss.Color("250"),
	Help:    lipgloss.Color("246"),

	Code: lipgloss.Color("94"),
	Link: lipgloss.Color("26"),

	OverlayBackground: lipgloss.Color("255"),

	GlowChangeBackground: lipgloss.Color("222"), // pale amber
	GlowAlertBackground:  lipgloss.Color("217"), // pale red

	CodeStyle: "friendly",
}

// ByName returns the built-in theme with the given name ("dark" or
// "light"). The second result is false for unknown names.
func ByName(name string) (Theme, bool) {
	switch name {
	case "dark":
		return Dark, true
	case "light":
		return Light, true
	default:
		return Theme{}, false
	}
}
