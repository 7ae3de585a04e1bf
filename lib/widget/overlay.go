// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Splice replaces a rectangular region of a rendered view with
// overlay content. The overlay lines are placed starting at (anchorX,
// anchorY) in screen coordinates. Truncation is ANSI-aware, so escape
// sequences in the underlying view survive on both sides of the
// overlay, and each splice point carries an SGR reset so styles never
// bleed between the view and the overlay.
func Splice(view string, overlay []string, anchorX, anchorY int) string {
	if len(overlay) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlay[0])

	for index, overlayLine := range overlay {
		lineIndex := anchorY + index
		if lineIndex < 0 || lineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[lineIndex]
		viewWidth := ansi.StringWidth(viewLine)

		var spliced strings.Builder
		if anchorX > 0 {
			spliced.WriteString(ansi.Truncate(viewLine, anchorX, ""))
		}
		spliced.WriteString("\x1b[0m")
		spliced.WriteString(overlayLine)
		spliced.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewWidth {
			spliced.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[lineIndex] = spliced.String()
	}

	return strings.Join(viewLines, "\n")
}

// PadOverlayLine wraps styled content in one background-colored space
// on the left and pads it to innerWidth plus one on the right, so
// every line of an overlay box has identical visible width.
func PadOverlayLine(content string, innerWidth int, background lipgloss.Style) string {
	contentWidth := ansi.StringWidth(content)
	rightPad := innerWidth - contentWidth
	if rightPad < 0 {
		rightPad = 0
	}
	return background.Render(" ") + content + background.Render(strings.Repeat(" ", rightPad+1))
}

// CenterAnchor returns the top-left anchor that centers a box of the
// given size on a screen of the given size, clamped so the box's
// origin never goes negative.
func CenterAnchor(screenWidth, screenHeight, boxWidth, boxHeight int) (anchorX, anchorY int) {
	anchorX = (screenWidth - boxWidth) / 2
	anchorY = (screenHeight - boxHeight) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}
	return anchorX, anchorY
}
