// Package tui provides a Bubble Tea TUI for browsing and annotating the
// screenshot library.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Programie/ScreenshotManager/internal/annotate"
	"github.com/Programie/ScreenshotManager/internal/editor"
	"github.com/Programie/ScreenshotManager/internal/export"
	"github.com/Programie/ScreenshotManager/internal/screenshot"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Highlighted list row
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("240"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// Transient messages in the status bar
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)
)

// ── Model ────────────

type mode int

const (
	modeBrowse mode = iota
	modeEdit
)

// collectionChangedMsg arrives whenever the watched sources change the
// collection.
type collectionChangedMsg struct{}

// Model is the Bubble Tea model: a live screenshot list with a metadata
// pane, plus an inline annotation editor.
type Model struct {
	lib      *screenshot.Library
	ticks    <-chan struct{}
	penWidth int

	mode   mode
	width  int
	height int
	ready  bool

	// Browse state
	entries []screenshot.Entry
	cursor  int
	list    viewport.Model
	status  string

	// Edit state
	ed             *editor.Editor
	ctrl           *annotate.Controller
	cv             *canvas
	confirmDiscard bool
}

// New creates a model around an already configured library. ticks is the
// collection's change channel; every receive refreshes the list.
func New(lib *screenshot.Library, penWidth int, ticks <-chan struct{}) Model {
	return Model{
		lib:      lib,
		ticks:    ticks,
		penWidth: penWidth,
		entries:  lib.Collection().Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the collection channel and is re-armed by
// Update after every tick.
func (m Model) waitForChange() tea.Cmd {
	ticks := m.ticks
	return func() tea.Msg {
		if _, ok := <-ticks; !ok {
			return nil
		}
		return collectionChangedMsg{}
	}
}

// ── Update ────────────

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case collectionChangedMsg:
		m.entries = m.lib.Collection().Snapshot()
		if m.cursor >= len(m.entries) {
			m.cursor = len(m.entries) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		if m.ready && m.mode == modeBrowse {
			m.rebuildList()
		}
		return m, m.waitForChange()

	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEditKeys(msg)
		}
		return m.updateBrowseKeys(msg)

	case tea.MouseMsg:
		if m.mode == modeEdit {
			return m.updateEditMouse(msg)
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.list.Height)
	case "pgdown":
		m.moveCursor(m.list.Height)
	case "home":
		m.moveCursor(-len(m.entries))
	case "end":
		m.moveCursor(len(m.entries))

	case "enter":
		if e, ok := m.selected(); ok {
			m.openEditor(e.Path)
		}

	case "c":
		if e, ok := m.selected(); ok {
			if err := export.CopyText(e.Path); err != nil {
				m.status = err.Error()
			} else {
				m.status = "copied " + e.Path
			}
		}

	case "r":
		m.lib.Reconfigure(m.lib.Sources())
		m.status = "rescanning sources"
	}
	return m, nil
}

func (m Model) updateEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "p":
		m.ctrl.SetKind(annotate.KindPen)
	case "e":
		m.ctrl.SetKind(annotate.KindEllipse)
	case "t":
		m.ctrl.SetKind(annotate.KindRect)
	case "n":
		m.ctrl.SetKind(annotate.KindNone)

	case "u":
		m.confirmDiscard = false
		if m.ed.Stack().Undo() {
			m.redraw()
		}
	case "y":
		m.confirmDiscard = false
		if m.ed.Stack().Redo() {
			m.redraw()
		}

	case "s":
		m.confirmDiscard = false
		if err := m.ed.Save(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "saved " + m.ed.Path
		}

	case "C":
		if err := m.ed.Copy(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "image copied to clipboard"
		}

	case "esc":
		if m.ed.Dirty() && !m.confirmDiscard {
			m.confirmDiscard = true
			m.status = "unsaved annotations: esc again to discard, s to save"
			return m, nil
		}
		m.closeEditor()
	}
	return m, nil
}

func (m Model) updateEditMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.cv == nil {
		return m, nil
	}
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if p, ok := m.cv.imagePoint(msg.X, msg.Y); ok {
			m.confirmDiscard = false
			m.ctrl.PointerDown(p)
			m.redraw()
		}

	case msg.Action == tea.MouseActionMotion:
		if m.ctrl.Drawing() {
			// Off-canvas drags keep tracking; the controller clamps
			// the point to the image.
			p, _ := m.cv.imagePoint(msg.X, msg.Y)
			m.ctrl.PointerMove(p)
			m.redraw()
		}

	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp()
	}
	return m, nil
}

// ── State transitions ────────────

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.ready {
		m.rebuildList()
	}
}

func (m Model) selected() (screenshot.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return screenshot.Entry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Model) openEditor(path string) {
	ed, err := editor.Open(path)
	if err != nil {
		m.status = err.Error()
		return
	}
	st := annotate.DefaultStyle()
	st.Width = m.penWidth
	m.ed = ed
	m.ctrl = annotate.NewController(ed.Stack(), ed.Bounds())
	m.ctrl.SetStyle(st)
	m.ctrl.SetKind(annotate.KindPen)
	m.mode = modeEdit
	m.confirmDiscard = false
	m.layout()
}

func (m *Model) closeEditor() {
	m.mode = modeBrowse
	m.ed = nil
	m.ctrl = nil
	m.cv = nil
	m.confirmDiscard = false
	m.status = ""
	m.layout()
}

func (m *Model) redraw() {
	m.cv.update(m.ed.Rasterize())
}

// ── Layout ────────────

// layout rebuilds the size-dependent widgets. Row 0 is the title bar and
// the last row is the status bar; the rows between belong to the mode.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	contentH := m.height - 2
	if contentH < 1 {
		contentH = 1
	}
	switch m.mode {
	case modeBrowse:
		m.list = viewport.New(m.listWidth(), contentH)
		m.rebuildList()
	case modeEdit:
		m.cv = newCanvas(m.ed.Bounds(), m.width, contentH, 1)
		m.redraw()
	}
}

// listWidth leaves the right side of the screen to the metadata pane, or
// takes everything when the terminal is too narrow for two panes.
func (m Model) listWidth() int {
	w := m.width * 3 / 5
	if w < 20 {
		w = m.width
	}
	return w
}

func (m *Model) rebuildList() {
	var sb strings.Builder
	for i, e := range m.entries {
		line := fmt.Sprintf(" %-34.34s %s", filepath.Base(e.Path),
			e.ModifiedAt.Format("2006-01-02 15:04"))
		if i == m.cursor {
			line = selectedStyle.Width(m.list.Width).Render(line)
		}
		sb.WriteString(line)
		if i < len(m.entries)-1 {
			sb.WriteString("\n")
		}
	}
	if len(m.entries) == 0 {
		sb.WriteString(dimStyle.Render(" no screenshots yet"))
	}
	m.list.SetContent(sb.String())

	// Keep the cursor visible.
	if m.cursor < m.list.YOffset {
		m.list.SetYOffset(m.cursor)
	}
	if bottom := m.list.YOffset + m.list.Height - 1; m.cursor > bottom {
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

// ── View ────────────

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.mode == modeEdit {
		return m.viewEdit()
	}
	return m.viewBrowse()
}

func (m Model) viewBrowse() string {
	title := titleStyle.Render("screenshot-manager")

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), m.renderMeta())

	hint := "↑/↓ select  enter annotate  c copy path  r rescan  q quit"
	right := fmt.Sprintf("%d screenshots", len(m.entries))
	return title + "\n" + content + "\n" + m.statusBar(hint, right)
}

func (m Model) viewEdit() string {
	name := filepath.Base(m.ed.Path)
	if m.ed.Dirty() {
		name += " *"
	}
	title := titleStyle.Render("screenshot-manager  " + name)

	body := m.cv.render()
	// Pin the status bar to the bottom row.
	if pad := m.height - 2 - m.cv.cellH; pad > 0 {
		body += strings.Repeat("\n", pad)
	}

	hint := "p pen  e ellipse  t rect  n none  u undo  y redo  s save  C copy  esc back"
	right := "tool: " + m.ctrl.Kind().String()
	return title + "\n" + body + "\n" + m.statusBar(hint, right)
}

func (m Model) renderMeta() string {
	width := m.width - m.listWidth()
	if width < 20 {
		return ""
	}
	pane := lipgloss.NewStyle().Width(width).PaddingLeft(2)

	e, ok := m.selected()
	if !ok {
		return pane.Render(dimStyle.Render("nothing selected"))
	}

	row := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + value
	}
	lines := []string{
		row("Name", filepath.Base(e.Path)),
		row("Size", fmt.Sprintf("%dx%d", e.Width, e.Height)),
		row("Modified", e.ModifiedAt.Format("2006-01-02 15:04:05")),
		row("Path", dimStyle.Render(e.Path)),
	}
	return pane.Render(strings.Join(lines, "\n"))
}

// statusBar renders the bottom row: key hints on the left (replaced by a
// transient notice when one is set) and mode info on the right.
func (m Model) statusBar(hint, right string) string {
	left := hint
	if m.status != "" {
		left = noticeStyle.Render(m.status)
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 3
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// ── Entrypoint ────────────

// Run opens the full-screen browser over an already configured library
// and blocks until the user quits.
func Run(lib *screenshot.Library, penWidth int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := New(lib, penWidth, lib.Collection().Watch(ctx))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
