// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark/ast"
)

func (renderer *terminalRenderer) leaveHeading(heading *ast.Heading) {
	// Strip whatever inline styling accumulated: the heading's own
	// style replaces it wholesale.
	content := ansi.Strip(renderer.inline.String())
	renderer.inline.Reset()
	if content == "" {
		return
	}

	style := renderer.style().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(renderer.theme.Heading)
	} else {
		style = style.Foreground(renderer.theme.Text)
	}

	wrapped := ansi.Wrap(style.Render(content), renderer.contentWidth(), wrapBreakpoints)
	renderer.ensureBlankLine()
	renderer.write(renderer.prefixed(wrapped))
	renderer.ensureNewline()
	renderer.ensureBlankLine()
}

// blockLines joins a block node's source segments into one string.
func (renderer *terminalRenderer) blockLines(node ast.Node) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		content.Write(segment.Value(renderer.source))
	}
	return content.String()
}

// emitCode writes pre-rendered code lines verbatim, never wrapped,
// one prefixed output line per code line.
func (renderer *terminalRenderer) emitCode(code string) {
	renderer.ensureBlankLine()
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		renderer.write(renderer.takePrefix() + line)
		renderer.ensureNewline()
	}
	renderer.ensureBlankLine()
}

func (renderer *terminalRenderer) fencedCode(node *ast.FencedCodeBlock) {
	language := string(node.Language(renderer.source))
	renderer.emitCode(renderer.highlight(renderer.blockLines(node), language))
}

func (renderer *terminalRenderer) indentedCode(node *ast.CodeBlock) {
	code := renderer.style().Foreground(renderer.theme.Code)
	lines := strings.Split(strings.TrimRight(renderer.blockLines(node), "\n"), "\n")
	for index, line := range lines {
		lines[index] = code.Render(line)
	}
	renderer.emitCode(strings.Join(lines, "\n"))
}

// highlight syntax-highlights code with chroma using the theme's
// style. Code with no language tag, and code chroma cannot tokenize,
// falls back to the theme's plain code color.
func (renderer *terminalRenderer) highlight(code, language string) string {
	if language == "" {
		return renderer.style().Foreground(renderer.theme.Code).Render(code)
	}
	styleName := renderer.theme.CodeStyle
	if styleName == "" {
		styleName = "monokai"
	}
	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, code, language, "terminal256", styleName); err != nil {
		return renderer.style().Foreground(renderer.theme.Code).Render(code)
	}
	return highlighted.String()
}

func (renderer *terminalRenderer) enterList(list *ast.List) {
	start := 0
	if list.IsOrdered() {
		start = list.Start
	}
	renderer.lists = append(renderer.lists, listLevel{
		ordered: list.IsOrdered(),
		next:    start,
		tight:   list.IsTight,
	})
}

func (renderer *terminalRenderer) leaveList() {
	if len(renderer.lists) > 0 {
		renderer.lists = renderer.lists[:len(renderer.lists)-1]
	}
	if !renderer.inTightList() {
		renderer.ensureBlankLine()
	}
}

func (renderer *terminalRenderer) enterItem() {
	if len(renderer.lists) == 0 {
		return
	}
	level := &renderer.lists[len(renderer.lists)-1]

	var marker string
	if level.ordered {
		marker = fmt.Sprintf("%d. ", level.next)
		level.next++
	} else {
		marker = "• "
	}
	markerWidth := ansi.StringWidth(marker)

	// The pending bullet carries the full current prefix plus the
	// marker, so it replaces the whole prefix on the item's first
	// line; continuation lines get plain indent of the same width.
	styled := renderer.style().Foreground(renderer.theme.Accent).Render(marker)
	renderer.bullet = renderer.linePrefix + styled
	renderer.pushIndent(strings.Repeat(" ", markerWidth), markerWidth)
}

func (renderer *terminalRenderer) leaveItem() {
	renderer.popIndent()
	if renderer.inTightList() {
		renderer.ensureNewline()
	} else {
		renderer.ensureBlankLine()
	}
}

func (renderer *terminalRenderer) rule() {
	line := strings.Repeat("─", renderer.contentWidth())
	styled := renderer.style().Foreground(renderer.theme.Border).Render(line)
	renderer.ensureBlankLine()
	renderer.write(renderer.prefixed(styled))
	renderer.ensureNewline()
	renderer.ensureBlankLine()
}

func (renderer *terminalRenderer) htmlBlock(node *ast.HTMLBlock) {
	stripped := strings.TrimSpace(stripTags(renderer.blockLines(node)))
	if stripped == "" {
		return
	}
	faint := renderer.style().Foreground(renderer.theme.FaintText)
	renderer.write(renderer.prefixed(faint.Render(stripped)))
	renderer.ensureNewline()
	renderer.ensureBlankLine()
}
