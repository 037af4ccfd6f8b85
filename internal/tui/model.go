// Package tui renders a session in the terminal: the buffer with its ghost
// prediction, and a one-line suggestion list that follows the pointer.
package tui

import (
	"fmt"
	"strings"

	"github.com/bastiangx/typeahead/pkg/fuzzy"
	"github.com/bastiangx/typeahead/pkg/session"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Rows of the layout drawn by View.
const (
	inputRow = 1
	listRow  = 2
)

const itemGap = "  "

type reloadMsg struct{ ix *vocab.Index }

// Model is the bubbletea model wrapping one session.
type Model struct {
	session      *session.Session
	keys         keyMap
	waitingText  string
	noResultText string
	reloads      <-chan *vocab.Index
	engineOpts   []fuzzy.Option
	focused      bool
}

// Option configures a Model.
type Option func(*Model)

// WithAcceptKeys binds the keys that accept the ghost prediction.
func WithAcceptKeys(keys ...string) Option {
	return func(m *Model) { m.keys = newKeyMap(keys) }
}

// WithStatusText sets what is drawn in place of an empty list.
func WithStatusText(waiting, noResult string) Option {
	return func(m *Model) {
		m.waitingText = waiting
		m.noResultText = noResult
	}
}

// WithReloads swaps in every index received on ch, building engines with opts.
func WithReloads(ch <-chan *vocab.Index, opts ...fuzzy.Option) Option {
	return func(m *Model) {
		m.reloads = ch
		m.engineOpts = opts
	}
}

// New returns a model driving sess.
func New(sess *session.Session, opts ...Option) Model {
	m := Model{
		session:      sess,
		keys:         newKeyMap(nil),
		waitingText:  "Waiting for input...",
		noResultText: "No results",
		focused:      true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts a program for m on the terminal with mouse motion reporting.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.waitReload()
}

func (m Model) waitReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		ix, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{ix: ix}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case reloadMsg:
		engine, err := fuzzy.NewEngine(msg.ix, m.engineOpts...)
		if err != nil {
			log.Errorf("Ignoring reloaded vocabulary: %v", err)
		} else {
			m.session.SetSearcher(engine)
		}
		return m, m.waitReload()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Accept):
		m.apply(session.Accept{})
	case key.Matches(msg, m.keys.Backspace):
		m.apply(session.DeleteChar{})
	case key.Matches(msg, m.keys.Left):
		m.apply(session.MoveCursor{Pos: m.session.Cursor() - 1})
	case key.Matches(msg, m.keys.Right):
		m.apply(session.MoveCursor{Pos: m.session.Cursor() + 1})
	case key.Matches(msg, m.keys.Home):
		m.apply(session.MoveCursor{Pos: 0})
	case key.Matches(msg, m.keys.End):
		m.apply(session.MoveCursor{Pos: len([]rune(m.session.Buffer()))})
	case key.Matches(msg, m.keys.HoverDown):
		m.moveHover(1)
	case key.Matches(msg, m.keys.HoverUp):
		m.moveHover(-1)
	case key.Matches(msg, m.keys.Pick):
		if i, ok := hovered(m.session.View().Items); ok {
			m.apply(session.Select{Index: i})
		}
	case key.Matches(msg, m.keys.Clear):
		m.apply(session.Reset{})
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		for _, r := range msg.Runes {
			m.apply(session.InsertChar{Ch: r})
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	idx := suggest.NoHover
	if msg.Y == listRow {
		_, spans := renderItems(m.session.View().Items)
		idx = spanAt(spans, msg.X)
	}

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.apply(session.Hover{Index: idx})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if idx == suggest.NoHover {
			m.focused = msg.Y == inputRow
			return m
		}
		m.focused = false
		m.apply(session.Select{Index: idx})
	}
	return m
}

func (m *Model) apply(ev session.Event) {
	if m.session.Apply(ev).Has(session.EffectFocusInput) {
		m.focused = true
	}
}

func (m *Model) moveHover(step int) {
	items := m.session.View().Items
	if len(items) == 0 {
		return
	}
	cur, ok := hovered(items)
	next := cur + step
	if !ok {
		next = 0
		if step < 0 {
			next = len(items) - 1
		}
	}
	if next >= len(items) {
		next = len(items) - 1
	}
	m.apply(session.Hover{Index: next})
}

func hovered(items []suggest.DisplayItem) (int, bool) {
	for _, it := range items {
		if it.Hovered {
			return it.Index, true
		}
	}
	return suggest.NoHover, false
}

// View draws the title, the input line, the list row and the help line.
func (m Model) View() string {
	v := m.session.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render("typeahead"))
	b.WriteString("\n")
	b.WriteString(m.renderInput(v))
	b.WriteString("\n")

	if len(v.Items) == 0 {
		text := m.waitingText
		if v.Status == session.StatusNoResult {
			text = m.noResultText
		}
		b.WriteString(statusStyle.Render(text))
	} else {
		row, _ := renderItems(v.Items)
		b.WriteString(row)
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderInput(v session.View) string {
	runes := []rune(v.Buffer)
	before, after := string(runes[:v.Cursor]), string(runes[v.Cursor:])

	var b strings.Builder
	b.WriteString(promptStyle.Render("> "))
	b.WriteString(before)
	if !m.focused {
		b.WriteString(after)
		return b.String()
	}
	if after == "" {
		if v.GhostSuffix != "" {
			g := []rune(v.GhostSuffix)
			b.WriteString(cursorStyle.Render(ghostStyle.Render(string(g[0]))))
			b.WriteString(ghostStyle.Render(string(g[1:])))
		} else {
			b.WriteString(cursorStyle.Render(" "))
		}
		return b.String()
	}
	a := []rune(after)
	b.WriteString(cursorStyle.Render(string(a[0])))
	b.WriteString(string(a[1:]))
	return b.String()
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

// span is the column range [start, end) one list entry occupies.
type span struct {
	start, end int
	index      int
}

// renderItems lays the entries out on one row and records where each landed.
func renderItems(items []suggest.DisplayItem) (string, []span) {
	var b strings.Builder
	spans := make([]span, 0, len(items))
	x := 0
	for i, it := range items {
		if i > 0 {
			b.WriteString(itemGap)
			x += len(itemGap)
		}
		text := fmt.Sprintf("%d %s", it.Rank, it.Word)
		style := hoverStyle.Foreground(wordColor(it.Word))
		if !it.Hovered {
			style = style.UnsetUnderline().UnsetBold()
		}
		b.WriteString(style.Render(text))
		w := lipgloss.Width(text)
		spans = append(spans, span{start: x, end: x + w, index: it.Index})
		x += w
	}
	return b.String(), spans
}

func spanAt(spans []span, x int) int {
	for _, s := range spans {
		if x >= s.start && x < s.end {
			return s.index
		}
	}
	return suggest.NoHover
}
