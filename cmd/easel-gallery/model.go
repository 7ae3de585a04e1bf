// Copyright 2026 The Easel Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/easel-foundation/easel/lib/app"
	"github.com/easel-foundation/easel/lib/clock"
	"github.com/easel-foundation/easel/lib/keymap"
	"github.com/easel-foundation/easel/lib/markdown"
	"github.com/easel-foundation/easel/lib/session"
	"github.com/easel-foundation/easel/lib/widget"
)

// sessionName is the key the gallery persists its snapshots under.
const sessionName = "gallery"

// gallerySnapshot is the UI state persisted between runs: enough to
// reopen the gallery where the user left it.
type gallerySnapshot struct {
	Theme       string `cbor:"theme"`
	Counter     int    `cbor:"counter"`
	GlowEnabled bool   `cbor:"glow_enabled"`
}

// glowTickMsg drives the heat decay animation. While any feed rows
// are glowing, a new tick is scheduled after each one.
type glowTickMsg struct{}

// autosaveMsg delivers an autosave result from the timer goroutine
// into the bubbletea message loop.
type autosaveMsg struct {
	result session.SaveResult
}

// changeLog accumulates runtime notifications between bubbletea
// updates. Bubbletea copies the model value on every Update, so the
// runtime observer records changes through this shared pointer and
// the model drains it after driving the runtime.
type changeLog struct {
	feedChanged bool
}

// modelConfig holds the collaborators the gallery model is built
// from. Saver may be nil (persistence disabled); everything else is
// required.
type modelConfig struct {
	runtime *app.App
	keys    *keymap.Keymap
	clock   clock.Clock
	saver   *session.Autosaver

	themeName    string
	glowEnabled  bool
	counterStart int
}

// model is the gallery's bubbletea model. It owns no domain state:
// the counter and the feed live in the app runtime as entities, and
// the model learns about changes the same way any subscriber would,
// through an observer registration on the feed.
type model struct {
	runtime *app.App
	counter app.Handle[counterState]
	feed    app.Handle[feedState]
	changes *changeLog

	keys  *keymap.Keymap
	clk   clock.Clock
	saver *session.Autosaver

	theme     widget.Theme
	themeName string

	glow        *widget.Glow
	glowEnabled bool
	lastSeq     uint64

	palette  *widget.Palette
	helpOpen bool

	// pending holds the strokes of a partially entered chord.
	pending []string

	cursor int
	offset int

	width  int
	height int
	status string
}

func newModel(cfg modelConfig) model {
	theme, ok := widget.ByName(cfg.themeName)
	if !ok {
		theme = widget.Dark
		cfg.themeName = "dark"
	}

	counter := newCounter(cfg.runtime, cfg.counterStart)
	feed := newFeed(cfg.runtime, counter, cfg.clock)

	// The model is the driver, not an entity, so it uses the raw
	// observer primitive and detaches: the registration lives for
	// the program's lifetime.
	changes := &changeLog{}
	cfg.runtime.ObserveEntity(feed.ID(), func(*app.App) bool {
		changes.feedChanged = true
		return true
	}).Detach()

	m := model{
		runtime:     cfg.runtime,
		counter:     counter,
		feed:        feed,
		changes:     changes,
		keys:        cfg.keys,
		clk:         cfg.clock,
		saver:       cfg.saver,
		theme:       theme,
		themeName:   cfg.themeName,
		glow:        widget.NewGlow(),
		glowEnabled: cfg.glowEnabled,
		palette:     widget.NewPalette(paletteActions(cfg.keys), 8),
	}

	// Construction already enqueued the feed's first entry; settle
	// the sequence watermark so restored sessions don't glow it.
	m.syncFeed(false)
	return m
}

// paletteActions lists every bound action except the palette's own
// navigation bindings, with keystroke hints from the keymap.
func paletteActions(keys *keymap.Keymap) []widget.Action {
	var actions []widget.Action
	for _, name := range keys.Actions() {
		if strings.HasPrefix(name, "palette::") {
			continue
		}
		actions = append(actions, widget.Action{
			Name: name,
			Hint: keys.Sequence(name),
		})
	}
	return actions
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scrollIntoView()
		return m, nil

	case glowTickMsg:
		if m.glowEnabled && m.glow.Active(m.clk.Now()) {
			return m, m.glowTick()
		}
		return m, nil

	case autosaveMsg:
		if msg.result.Err != nil {
			m.status = fmt.Sprintf("autosave failed: %v", msg.result.Err)
		} else if msg.result.Wrote {
			m.status = "session saved"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey routes one keystroke. An open palette captures printable
// input for its query; everything else goes through the keymap with
// chord accumulation.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.palette.IsOpen() {
		if msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) == 1 {
			m.palette.HandleRune(msg.Runes[0])
			return m, nil
		}
		if msg.Type == tea.KeyBackspace {
			m.palette.HandleBackspace()
			return m, nil
		}
	}

	m.pending = append(m.pending, keymap.FromTea(msg.String()))
	resolution := m.keys.Resolve(m.context(), m.pending)
	switch {
	case resolution.Action != "":
		m.pending = nil
		return m.dispatch(resolution.Action)
	case resolution.Pending:
		return m, nil
	default:
		m.pending = nil
		return m, nil
	}
}

// context names the surface that currently owns navigation keys.
func (m model) context() string {
	if m.palette.IsOpen() {
		return "palette"
	}
	if m.helpOpen {
		return ""
	}
	return "feed"
}

// dispatch applies one named action. Actions that mutate the runtime
// go through the entities; the effect flush runs observers before
// the mutating call returns, so syncFeed sees the results
// immediately.
func (m model) dispatch(action string) (tea.Model, tea.Cmd) {
	switch action {
	case "app::quit":
		m.runtime.Quit()
		return m, tea.Quit

	case "help::toggle":
		m.helpOpen = !m.helpOpen
		return m, nil

	case "overlay::dismiss":
		m.helpOpen = false
		m.palette.Dismiss()
		return m, nil

	case "palette::toggle":
		if m.palette.IsOpen() {
			m.palette.Dismiss()
		} else {
			m.palette.Open()
		}
		return m, nil
	case "palette::next":
		m.palette.MoveDown()
		return m, nil
	case "palette::previous":
		m.palette.MoveUp()
		return m, nil
	case "palette::dismiss":
		m.palette.Dismiss()
		return m, nil
	case "palette::accept":
		selected, ok := m.palette.Selected()
		m.palette.Dismiss()
		if !ok {
			return m, nil
		}
		return m.dispatch(selected.Name)

	case "theme::toggle":
		if m.themeName == "dark" {
			m.themeName = "light"
		} else {
			m.themeName = "dark"
		}
		m.theme, _ = widget.ByName(m.themeName)
		m.touch()
		return m, nil

	case "glow::toggle":
		m.glowEnabled = !m.glowEnabled
		m.touch()
		if m.glowEnabled && m.glow.Active(m.clk.Now()) {
			return m, m.glowTick()
		}
		return m, nil

	case "session::save":
		if m.saver == nil {
			m.status = "persistence disabled"
			return m, nil
		}
		m.saver.Touch(m.snapshot())
		if err := m.saver.Flush(context.Background()); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
		} else {
			m.status = "session saved"
		}
		return m, nil

	case "counter::increment":
		adjustCounter(m.runtime, m.counter, +1)
		return m.afterRuntime()
	case "counter::decrement":
		adjustCounter(m.runtime, m.counter, -1)
		return m.afterRuntime()
	case "counter::reset":
		resetCounter(m.runtime, m.counter)
		return m.afterRuntime()

	case "feed::next":
		m.moveCursor(+1)
		return m, nil
	case "feed::previous":
		m.moveCursor(-1)
		return m, nil
	case "feed::top":
		m.cursor = 0
		m.scrollIntoView()
		return m, nil
	case "feed::bottom":
		m.cursor = m.entryCount() - 1
		m.scrollIntoView()
		return m, nil
	case "feed::open":
		if entry, ok := m.selectedEntry(); ok {
			m.status = fmt.Sprintf("#%d %s %s",
				entry.Seq,
				entry.Item.When.Format("15:04:05"),
				entry.Item.Message)
		}
		return m, nil
	}

	m.status = fmt.Sprintf("unknown action: %s", action)
	return m, nil
}

// afterRuntime drains the change log after a runtime mutation:
// ignites glow for new journal entries, keeps the cursor following
// the newest row, and schedules an autosave.
func (m model) afterRuntime() (tea.Model, tea.Cmd) {
	if !m.changes.feedChanged {
		return m, nil
	}
	m.changes.feedChanged = false

	follow := m.cursor >= m.entryCount()-1
	m.syncFeed(true)
	if follow {
		m.cursor = m.entryCount() - 1
	}
	m.scrollIntoView()
	m.touch()

	if m.glowEnabled {
		return m, m.glowTick()
	}
	return m, nil
}

// syncFeed advances the journal watermark, optionally igniting glow
// for entries appended since the last sync.
func (m *model) syncFeed(ignite bool) {
	now := m.clk.Now()
	for _, entry := range m.feed.Read(m.runtime).items.Entries() {
		if entry.Seq <= m.lastSeq {
			continue
		}
		m.lastSeq = entry.Seq
		if ignite {
			m.glow.Ignite(entry.Seq, entry.Item.Kind, now)
		}
	}
}

// touch hands the current snapshot to the autosaver, which debounces
// the actual write.
func (m *model) touch() {
	if m.saver != nil {
		m.saver.Touch(m.snapshot())
	}
}

// snapshot captures the persistable UI state.
func (m model) snapshot() gallerySnapshot {
	return gallerySnapshot{
		Theme:       m.themeName,
		Counter:     m.counter.Read(m.runtime).Count,
		GlowEnabled: m.glowEnabled,
	}
}

func (m model) glowTick() tea.Cmd {
	return tea.Tick(widget.GlowTickInterval, func(time.Time) tea.Msg {
		return glowTickMsg{}
	})
}

// --- Feed navigation ---

func (m model) entryCount() int {
	return m.feed.Read(m.runtime).items.Len()
}

func (m model) selectedEntry() (widget.Entry[feedItem], bool) {
	entries := m.feed.Read(m.runtime).items.Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return widget.Entry[feedItem]{}, false
	}
	return entries[m.cursor], true
}

func (m *model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if last := m.entryCount() - 1; m.cursor > last {
		m.cursor = last
	}
	m.scrollIntoView()
}

// visibleRows is the feed pane height: everything except the header
// and status rows.
func (m model) visibleRows() int {
	rows := m.height - 2
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *model) scrollIntoView() {
	if m.cursor < 0 {
		m.cursor = 0
	}
	if last := m.entryCount() - 1; m.cursor > last && last >= 0 {
		m.cursor = last
	}
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// --- Rendering ---

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	var view strings.Builder
	view.WriteString(m.renderHeader())
	view.WriteString("\n")
	view.WriteString(m.renderFeed())
	view.WriteString("\n")
	view.WriteString(m.renderStatus())
	base := view.String()

	if m.helpOpen {
		base = m.spliceOverlay(base, m.renderHelp())
	}
	if m.palette.IsOpen() {
		overlayWidth := min(m.width-4, 56)
		base = m.spliceOverlay(base, m.palette.Render(m.theme, overlayWidth))
	}
	return base
}

func (m model) renderHeader() string {
	heading := lipgloss.NewStyle().Foreground(m.theme.Heading).Bold(true)
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true)
	count := m.counter.Read(m.runtime).Count

	left := heading.Render("easel gallery") + "  counter " + accent.Render(fmt.Sprintf("%d", count))
	return ansi.Truncate(left, m.width, "")
}

func (m model) renderFeed() string {
	entries := m.feed.Read(m.runtime).items.Entries()
	visible := m.visibleRows()
	now := m.clk.Now()

	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	text := lipgloss.NewStyle().Foreground(m.theme.Text)

	rowWidth := m.width - 1 // one column reserved for the scrollbar
	if rowWidth < 1 {
		rowWidth = 1
	}

	lines := make([]string, 0, visible)
	for row := 0; row < visible; row++ {
		index := m.offset + row
		if index >= len(entries) {
			lines = append(lines, "")
			continue
		}
		entry := entries[index]

		stamp := faint.Render(entry.Item.When.Format("15:04:05"))
		message := text.Render(entry.Item.Message)
		line := " " + stamp + "  " + message

		selected := index == m.cursor
		glowing := m.glowEnabled && m.glow.Heat(entry.Seq, now) > 0

		switch {
		case selected:
			style := lipgloss.NewStyle().
				Foreground(m.theme.SelectedForeground).
				Background(m.theme.SelectedBackground)
			plain := fmt.Sprintf(" %s  %s", entry.Item.When.Format("15:04:05"), entry.Item.Message)
			line = style.Render(padToWidth(plain, rowWidth))
		case glowing:
			style := lipgloss.NewStyle().
				Foreground(m.theme.Text).
				Background(m.theme.GlowTint(m.glow.Kind(entry.Seq)))
			plain := fmt.Sprintf(" %s  %s", entry.Item.When.Format("15:04:05"), entry.Item.Message)
			line = style.Render(padToWidth(plain, rowWidth))
		}
		lines = append(lines, ansi.Truncate(line, rowWidth, "…"))
	}

	pane := strings.Join(lines, "\n")
	bar := widget.Scrollbar(m.theme, visible, len(entries), visible, m.offset, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, pane, bar)
}

func (m model) renderStatus() string {
	help := lipgloss.NewStyle().Foreground(m.theme.Help)
	status := m.status
	if status == "" {
		status = fmt.Sprintf("%s help · %s palette · %s quit",
			m.keys.Sequence("help::toggle"),
			m.keys.Sequence("palette::toggle"),
			m.keys.Sequence("app::quit"))
	}
	if len(m.pending) > 0 {
		status = strings.Join(m.pending, " ") + " …"
	}
	return ansi.Truncate(help.Render(" "+status), m.width, "")
}

// renderHelp produces the help overlay lines: embedded markdown
// rendered at the overlay width, padded to a uniform box.
func (m model) renderHelp() []string {
	boxWidth := min(m.width-4, 64)
	if boxWidth < 16 {
		boxWidth = 16
	}
	innerWidth := boxWidth - 2

	background := lipgloss.NewStyle().Background(m.theme.OverlayBackground)
	rendered := markdown.Render(helpText, m.theme, innerWidth-2)

	lines := []string{widget.PadOverlayLine("", innerWidth, background)}
	for _, line := range strings.Split(rendered, "\n") {
		lines = append(lines, widget.PadOverlayLine(" "+line, innerWidth, background))
	}
	lines = append(lines, widget.PadOverlayLine("", innerWidth, background))

	maxLines := m.height - 2
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

func (m model) spliceOverlay(base string, overlay []string) string {
	if len(overlay) == 0 {
		return base
	}
	anchorX, anchorY := widget.CenterAnchor(m.width, m.height, ansi.StringWidth(overlay[0]), len(overlay))
	return widget.Splice(base, overlay, anchorX, anchorY)
}

// padToWidth right-pads plain (unstyled) text to the given cell
// width, truncating if it is already wider.
func padToWidth(plain string, width int) string {
	current := ansi.StringWidth(plain)
	if current >= width {
		return ansi.Truncate(plain, width, "…")
	}
	return plain + strings.Repeat(" ", width-current)
}
