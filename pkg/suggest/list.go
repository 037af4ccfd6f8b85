// Package suggest holds the ranked suggestion list a renderer draws under the input.
//
// The list never ranks or filters anything itself. It is rebuilt wholesale
// from the session's suggestions and only owns which entry the pointer is over.
package suggest

import (
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/fuzzy"
)

// NoHover marks the absence of a hovered entry.
const NoHover = -1

// DisplayItem is one entry as the renderer should draw it.
// Index addresses the entry in Hover and Pick calls.
type DisplayItem struct {
	Word    string
	Index   int
	Rank    uint16
	Cost    int
	Hovered bool
}

// List is the current ranked candidates plus the hovered position.
type List struct {
	items   []fuzzy.Candidate
	hovered int
}

// NewList returns an empty list with nothing hovered.
func NewList() *List {
	return &List{hovered: NoHover}
}

// Reset replaces every item and clears the hover.
func (l *List) Reset(items []fuzzy.Candidate) {
	l.items = make([]fuzzy.Candidate, len(items))
	copy(l.items, items)
	l.hovered = NoHover
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Items returns a copy of the items in rank order.
func (l *List) Items() []fuzzy.Candidate {
	out := make([]fuzzy.Candidate, len(l.items))
	copy(out, l.items)
	return out
}

// Hover moves the hover to i. Out of range values, NoHover included, clear it.
func (l *List) Hover(i int) {
	if i < 0 || i >= len(l.items) {
		l.hovered = NoHover
		return
	}
	l.hovered = i
}

// Hovered returns the hovered index, if any.
func (l *List) Hovered() (int, bool) {
	return l.hovered, l.hovered != NoHover
}

// Pick resolves the word at i and clears the hover.
// ok is false, and nothing changes, when i is out of range.
func (l *List) Pick(i int) (word string, ok bool) {
	if i < 0 || i >= len(l.items) {
		return "", false
	}
	l.hovered = NoHover
	return l.items[i].Word, true
}

// Render projects the items and hover state for drawing.
func (l *List) Render() []DisplayItem {
	ranks := utils.CreateRankList(len(l.items))
	out := make([]DisplayItem, len(l.items))
	for i, c := range l.items {
		out[i] = DisplayItem{
			Word:    c.Word,
			Index:   i,
			Rank:    ranks[i],
			Cost:    c.Cost,
			Hovered: i == l.hovered,
		}
	}
	return out
}
