package tui

import (
	"testing"

	"github.com/bastiangx/typeahead/pkg/fuzzy"
	"github.com/bastiangx/typeahead/pkg/session"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/bastiangx/typeahead/pkg/vocab"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	ix, err := vocab.Build([]string{"the", "cat", "catfish", "dog"})
	require.NoError(t, err)
	engine, err := fuzzy.NewEngine(ix)
	require.NoError(t, err)
	return New(session.New(engine), opts...)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func typeRunes(t *testing.T, m Model, s string) Model {
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestTypingAndAccept(t *testing.T) {
	m := newModel(t)
	assert.Contains(t, m.View(), "Waiting for input...")

	m = typeRunes(t, m, "ca")
	view := m.View()
	assert.Contains(t, view, "> cat")
	assert.Contains(t, view, "1 cat  2 catfish")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "cat", m.session.Buffer())

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "cat", m.session.Buffer())

	m = typeRunes(t, m, "zzz")
	assert.Contains(t, m.View(), "No results")
}

func TestCustomAcceptKeys(t *testing.T) {
	m := newModel(t, WithAcceptKeys("right"), WithStatusText("idle", "nothing"))
	assert.Contains(t, m.View(), "idle")

	m = typeRunes(t, m, "do")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "do", m.session.Buffer(), "tab is no longer bound")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "dog", m.session.Buffer())
}

func TestCursorKeys(t *testing.T) {
	m := newModel(t)
	m = typeRunes(t, m, "cat")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, m.session.Cursor())
	assert.Equal(t, session.StatusWaiting, m.session.Status())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.session.Cursor())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 3, m.session.Cursor())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Empty(t, m.session.Buffer())
}

func TestHoverKeysAndPick(t *testing.T) {
	m := newModel(t)
	m = typeRunes(t, m, "the ca")

	// cat, catfish, dog, the
	for range 5 {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	i, ok := hovered(m.session.View().Items)
	require.True(t, ok)
	assert.Equal(t, 3, i, "hover stops at the last entry")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	i, _ = hovered(m.session.View().Items)
	assert.Equal(t, 1, i)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "the catfish", m.session.Buffer())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "the catfish", m.session.Buffer(), "enter without hover does nothing")
}

func TestMouse(t *testing.T) {
	m := newModel(t)
	m = typeRunes(t, m, "ca")
	// "1 cat  2 catfish"
	m = update(t, m, tea.MouseMsg{X: 8, Y: listRow, Action: tea.MouseActionMotion})
	i, ok := hovered(m.session.View().Items)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	m = update(t, m, tea.MouseMsg{X: 5, Y: listRow, Action: tea.MouseActionMotion})
	_, ok = hovered(m.session.View().Items)
	assert.False(t, ok, "the gap between entries hovers nothing")

	m = update(t, m, tea.MouseMsg{X: 2, Y: listRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "cat", m.session.Buffer())
	assert.True(t, m.focused)

	m = update(t, m, tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, m.focused)
	m = update(t, m, tea.MouseMsg{X: 2, Y: inputRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, m.focused)
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReload(t *testing.T) {
	ch := make(chan *vocab.Index, 1)
	m := newModel(t, WithReloads(ch))
	m = typeRunes(t, m, "owx")
	assert.Equal(t, session.StatusNoResult, m.session.Status())

	ix, err := vocab.Build([]string{"owl"})
	require.NoError(t, err)
	ch <- ix
	msg := m.Init()()
	m = update(t, m, msg)
	assert.Equal(t, "owl", m.session.Ghost())

	close(ch)
	assert.Nil(t, m.Init()())
}

func TestSpanAt(t *testing.T) {
	_, spans := renderItems([]suggest.DisplayItem{
		{Word: "cat", Index: 0, Rank: 1},
		{Word: "catfish", Index: 1, Rank: 2},
	})
	testCases := []struct {
		x    int
		want int
	}{
		{0, 0},
		{4, 0},
		{5, suggest.NoHover},
		{7, 1},
		{15, 1},
		{16, suggest.NoHover},
		{-1, suggest.NoHover},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, spanAt(spans, tc.x), "spanAt(%d)", tc.x)
	}
}

func TestWordColorIsStable(t *testing.T) {
	assert.Equal(t, wordColor("catfish"), wordColor("catfish"))
	assert.Contains(t, palette, wordColor("dog"))
}
