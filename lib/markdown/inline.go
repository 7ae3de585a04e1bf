// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark/ast"
)

func (renderer *terminalRenderer) text(node *ast.Text) {
	value := string(node.Segment.Value(renderer.source))
	renderer.inline.WriteString(renderer.styledText(value))

	// Soft breaks become spaces so hard-wrapped source reflows to the
	// display width; hard breaks stay.
	if node.SoftLineBreak() {
		renderer.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		renderer.inline.WriteString("\n")
	}
}

func (renderer *terminalRenderer) emphasis(node *ast.Emphasis, entering bool) {
	counter := &renderer.italic
	if node.Level >= 2 {
		counter = &renderer.bold
	}
	if entering {
		*counter++
	} else {
		*counter--
	}
}

func (renderer *terminalRenderer) codeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch literal := child.(type) {
		case *ast.Text:
			code.Write(literal.Segment.Value(renderer.source))
		case *ast.String:
			code.Write(literal.Value)
		}
	}
	style := renderer.style().Foreground(renderer.theme.Code)
	renderer.inline.WriteString(style.Render(code.String()))
}

func (renderer *terminalRenderer) link(node *ast.Link) {
	// childrenInline applies the emphasis state to the link text, so
	// it is written through untouched; only the URL gets link color.
	display := renderer.childrenInline(node)
	renderer.inline.WriteString(display)

	if url := string(node.Destination); url != "" {
		style := renderer.style().Foreground(renderer.theme.Link)
		renderer.inline.WriteString(" " + style.Render("("+url+")"))
	}
}

func (renderer *terminalRenderer) autoLink(node *ast.AutoLink) {
	url := string(node.URL(renderer.source))
	style := renderer.style().Foreground(renderer.theme.Link)
	renderer.inline.WriteString(style.Render(url))
}

func (renderer *terminalRenderer) image(node *ast.Image) {
	// Terminals have no inline images; degrade to faint alt text with
	// the source URL alongside.
	alt := ansi.Strip(renderer.childrenInline(node))
	faint := renderer.style().Foreground(renderer.theme.FaintText)
	renderer.inline.WriteString(faint.Render("[" + alt + "]"))
	if url := string(node.Destination); url != "" {
		style := renderer.style().Foreground(renderer.theme.Link)
		renderer.inline.WriteString(" " + style.Render("("+url+")"))
	}
}

func (renderer *terminalRenderer) rawHTML(node *ast.RawHTML) {
	var html strings.Builder
	for index := 0; index < node.Segments.Len(); index++ {
		segment := node.Segments.At(index)
		html.Write(segment.Value(renderer.source))
	}
	if stripped := stripTags(html.String()); stripped != "" {
		faint := renderer.style().Foreground(renderer.theme.FaintText)
		renderer.inline.WriteString(faint.Render(stripped))
	}
}

// stripTags drops everything between < and > from an HTML fragment,
// keeping only the text content.
func stripTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
