// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown renders CommonMark documents as styled terminal
// text. Paragraph content reflows to the target width (soft line
// breaks in the source become spaces), while code blocks, lists, and
// blockquotes keep their structure. Extended syntax such as GFM
// tables or strikethrough is not parsed; it falls through as ordinary
// paragraph text.
package markdown

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/easel-foundation/easel/lib/widget"
)

// wrapBreakpoints are the characters ansi.Wrap may break a line at,
// beyond ordinary spaces.
const wrapBreakpoints = " ,.;-+|"

// engine is built once and shared. The goldmark parser carries no
// per-call state (Parse allocates its own reader state), so one
// instance serves every Render call.
var (
	engine     goldmark.Markdown
	engineOnce sync.Once
)

func markdownEngine() goldmark.Markdown {
	engineOnce.Do(func() {
		engine = goldmark.New()
	})
	return engine
}

// Render parses source as CommonMark and produces terminal output
// styled with the given theme, word-wrapped to width. The result has
// no trailing newline.
func Render(source string, theme widget.Theme, width int) string {
	if source == "" {
		return ""
	}
	raw := []byte(source)
	document := markdownEngine().Parser().Parse(text.NewReader(raw))

	// The output always targets a terminal (a TUI overlay or a pager),
	// so force an ANSI256 profile instead of letting lipgloss probe
	// the environment: probing sees no TTY under tests and in pipes
	// and would silently drop every style. SetColorProfile is needed
	// as well because the renderer re-detects unless the profile was
	// set explicitly.
	styles := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	styles.SetColorProfile(termenv.ANSI256)

	renderer := &terminalRenderer{
		source: raw,
		theme:  theme,
		width:  width,
		styles: styles,
	}
	ast.Walk(document, renderer.walk)

	return strings.TrimRight(renderer.out.String(), "\n")
}

// terminalRenderer walks a goldmark AST and accumulates styled
// terminal text. It walks the tree directly instead of implementing
// goldmark's renderer interface because terminal output needs
// accumulate-then-wrap semantics: a paragraph's inline content is
// collected whole and word-wrapped as a unit when the paragraph
// closes, which goldmark's streaming callbacks cannot express
// cleanly.
type terminalRenderer struct {
	source []byte
	theme  widget.Theme
	width  int

	// Finished output.
	out strings.Builder

	// Inline accumulator for the currently open paragraph, heading,
	// or list item text. Flushed with word-wrap when the block closes.
	inline strings.Builder

	// Indent stack for nested containers (blockquotes, list items).
	// linePrefix and prefixWidth mirror the stack so every emitted
	// line can be prefixed without re-walking it.
	indents     []indent
	linePrefix  string
	prefixWidth int

	// bullet, when set, replaces the line prefix for the next emitted
	// line only. List items set it so their first line carries the
	// marker and continuation lines carry plain indent.
	bullet string

	// Nesting counters for inline emphasis. Counters rather than
	// booleans so nested emphasis unwinds correctly.
	bold   int
	italic int

	lists []listLevel

	// styles carries the forced color profile; all lipgloss styles
	// derive from it.
	styles *lipgloss.Renderer

	// Trailing newline count of out, for blank-line management.
	trailingNewlines int
}

type indent struct {
	text  string
	width int
}

type listLevel struct {
	ordered bool
	next    int
	tight   bool
}

func (renderer *terminalRenderer) style() lipgloss.Style {
	return renderer.styles.NewStyle()
}

// contentWidth is the wrap width left after the active indents,
// clamped so pathological nesting cannot drive it to zero.
func (renderer *terminalRenderer) contentWidth() int {
	width := renderer.width - renderer.prefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (renderer *terminalRenderer) pushIndent(text string, width int) {
	renderer.indents = append(renderer.indents, indent{text: text, width: width})
	renderer.linePrefix += text
	renderer.prefixWidth += width
}

func (renderer *terminalRenderer) popIndent() {
	if len(renderer.indents) == 0 {
		return
	}
	top := renderer.indents[len(renderer.indents)-1]
	renderer.indents = renderer.indents[:len(renderer.indents)-1]
	renderer.linePrefix = renderer.linePrefix[:len(renderer.linePrefix)-len(top.text)]
	renderer.prefixWidth -= top.width
}

func (renderer *terminalRenderer) inTightList() bool {
	if len(renderer.lists) == 0 {
		return false
	}
	return renderer.lists[len(renderer.lists)-1].tight
}

// write appends to the output, tracking how many newlines the output
// now ends with.
func (renderer *terminalRenderer) write(text string) {
	if text == "" {
		return
	}
	renderer.out.WriteString(text)

	trailing := 0
	onlyNewlines := true
	for index := len(text) - 1; index >= 0; index-- {
		if text[index] != '\n' {
			onlyNewlines = false
			break
		}
		trailing++
	}
	if onlyNewlines {
		renderer.trailingNewlines += trailing
	} else {
		renderer.trailingNewlines = trailing
	}
}

func (renderer *terminalRenderer) ensureNewline() {
	if renderer.trailingNewlines < 1 {
		renderer.write("\n")
	}
}

func (renderer *terminalRenderer) ensureBlankLine() {
	for renderer.trailingNewlines < 2 {
		renderer.write("\n")
	}
}

// takePrefix returns the prefix for the next emitted line: the
// pending bullet if one is set (clearing it), otherwise the regular
// line prefix.
func (renderer *terminalRenderer) takePrefix() string {
	if renderer.bullet != "" {
		bullet := renderer.bullet
		renderer.bullet = ""
		return bullet
	}
	return renderer.linePrefix
}

// prefixed prepends the line prefix to every line of content. The
// first line consumes the pending bullet when one is set.
func (renderer *terminalRenderer) prefixed(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 {
			result.WriteString(renderer.takePrefix())
		} else {
			result.WriteString(renderer.linePrefix)
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content, applies line
// prefixes, and resets the accumulator.
func (renderer *terminalRenderer) flushInline() string {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return ""
	}
	wrapped := ansi.Wrap(content, renderer.contentWidth(), wrapBreakpoints)
	return renderer.prefixed(wrapped)
}

// styledText renders plain text with the active emphasis state.
func (renderer *terminalRenderer) styledText(content string) string {
	style := renderer.style().Foreground(renderer.theme.Text)
	if renderer.bold > 0 {
		style = style.Bold(true)
	}
	if renderer.italic > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

// childrenInline renders a node's children into a string, saving and
// restoring the inline accumulator and emphasis state so the caller's
// context is untouched. Used for link text and image alt text.
func (renderer *terminalRenderer) childrenInline(node ast.Node) string {
	savedInline := renderer.inline.String()
	savedBold := renderer.bold
	savedItalic := renderer.italic

	renderer.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, renderer.walk)
	}
	collected := renderer.inline.String()

	renderer.inline.Reset()
	renderer.inline.WriteString(savedInline)
	renderer.bold = savedBold
	renderer.italic = savedItalic

	return collected
}

func (renderer *terminalRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	// Block nodes.
	case ast.KindDocument:
		// Nothing to do at either boundary.

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			flushed := renderer.flushInline()
			if flushed != "" {
				renderer.write(flushed)
				renderer.ensureNewline()
				if !renderer.inTightList() {
					renderer.ensureBlankLine()
				}
			}
		}

	case ast.KindHeading:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			renderer.fencedCode(node.(*ast.FencedCodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			renderer.indentedCode(node.(*ast.CodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			bar := renderer.style().Foreground(renderer.theme.Border).Render("│ ")
			renderer.pushIndent(bar, 2)
		} else {
			renderer.popIndent()
			renderer.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			renderer.enterList(node.(*ast.List))
		} else {
			renderer.leaveList()
		}

	case ast.KindListItem:
		if entering {
			renderer.enterItem()
		} else {
			renderer.leaveItem()
		}

	case ast.KindThematicBreak:
		if entering {
			renderer.rule()
		}

	case ast.KindHTMLBlock:
		if entering {
			renderer.htmlBlock(node.(*ast.HTMLBlock))
			return ast.WalkSkipChildren, nil
		}

	// Inline nodes.
	case ast.KindText:
		if entering {
			renderer.text(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			value := node.(*ast.String)
			renderer.inline.WriteString(renderer.styledText(string(value.Value)))
		}

	case ast.KindEmphasis:
		renderer.emphasis(node.(*ast.Emphasis), entering)

	case ast.KindCodeSpan:
		if entering {
			renderer.codeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			renderer.link(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			renderer.autoLink(node.(*ast.AutoLink))
		}

	case ast.KindImage:
		if entering {
			renderer.image(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			renderer.rawHTML(node.(*ast.RawHTML))
		}
	}

	return ast.WalkContinue, nil
}
