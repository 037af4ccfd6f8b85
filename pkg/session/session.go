// Package session owns the text buffer being typed into and keeps the
// completion state derived from it in step with every edit.
//
// A Session is driven by Apply with one Event at a time and read through
// View. Every mutating event recomputes the active token, the suggestions
// and the ghost prediction before Apply returns, so a renderer pulling View
// after any event never sees results for an older buffer.
//
// A Session is not safe for concurrent use. Callers serialize events.
package session

import (
	"strings"
	"unicode"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/fuzzy"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// Searcher ranks completions for a fragment. *fuzzy.Engine implements it.
type Searcher interface {
	Search(q fuzzy.Query) []fuzzy.Candidate
}

// SearchFunc adapts a plain function to Searcher.
type SearchFunc func(q fuzzy.Query) []fuzzy.Candidate

// Search calls f(q).
func (f SearchFunc) Search(q fuzzy.Query) []fuzzy.Candidate {
	return f(q)
}

// Session is the input buffer, its cursor and the completion state derived from them.
type Session struct {
	searcher Searcher
	maxCost  int
	limit    int
	logger   *log.Logger

	buffer []rune
	cursor int

	token       string
	tokenOK     bool
	suggestions []fuzzy.Candidate
	ghost       string
	status      Status
	list        *suggest.List
}

// Option configures a Session.
type Option func(*Session)

// WithMaxCost overrides the searcher's edit cost ceiling.
func WithMaxCost(n int) Option {
	return func(s *Session) { s.maxCost = n }
}

// WithLimit overrides the searcher's result cap.
func WithLimit(n int) Option {
	return func(s *Session) { s.limit = n }
}

// WithLogger sets the logger used for consistency warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New returns an empty session searching with searcher.
func New(searcher Searcher, opts ...Option) *Session {
	s := &Session{
		searcher: searcher,
		maxCost:  -1,
		limit:    0,
		logger:   log.Default(),
		list:     suggest.NewList(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// SetSearcher swaps the searcher, typically after the vocabulary was rebuilt,
// and recomputes against the current buffer.
func (s *Session) SetSearcher(searcher Searcher) {
	s.searcher = searcher
	s.recompute()
}

// Apply handles one event to completion and returns the side effects the
// renderer should perform.
func (s *Session) Apply(ev Event) Effect {
	switch e := ev.(type) {
	case InsertChar:
		s.buffer = append(s.buffer, 0)
		copy(s.buffer[s.cursor+1:], s.buffer[s.cursor:])
		s.buffer[s.cursor] = e.Ch
		s.cursor++
		s.recompute()

	case DeleteChar:
		if s.cursor == 0 {
			return EffectNone
		}
		s.buffer = append(s.buffer[:s.cursor-1], s.buffer[s.cursor:]...)
		s.cursor--
		s.recompute()

	case MoveCursor:
		s.cursor = clamp(e.Pos, 0, len(s.buffer))
		s.recompute()

	case Accept:
		if s.ghost == "" {
			return EffectNone
		}
		s.replaceToken(s.ghost)
		s.recompute()

	case Select:
		word, ok := s.list.Pick(e.Index)
		if !ok {
			s.logger.Debug("select out of range", "index", e.Index, "items", s.list.Len())
			return EffectNone
		}
		s.replaceToken(s.withTypedCase(word))
		s.recompute()
		return EffectFocusInput

	case Hover:
		s.list.Hover(e.Index)

	case Reset:
		s.buffer = s.buffer[:0]
		s.cursor = 0
		s.recompute()

	default:
		s.logger.Warnf("Ignoring unknown event %T", ev)
	}
	return EffectNone
}

// replaceToken swaps the last occurrence of the active token for word and
// moves the cursor to the end. A token that cannot be found leaves the
// buffer untouched.
func (s *Session) replaceToken(word string) {
	if !s.tokenOK || s.token == "" {
		s.logger.Debug("no active token to replace", "word", word)
		return
	}
	buf := string(s.buffer)
	i := strings.LastIndex(buf, s.token)
	if i < 0 {
		s.logger.Warn("active token missing from buffer", "token", s.token)
		return
	}
	buf = buf[:i] + word + buf[i+len(s.token):]
	s.buffer = []rune(buf)
	s.cursor = len(s.buffer)
}

// activeToken is the run of non-space runes ending at the cursor.
// It is only defined while the cursor sits at the end of the buffer.
func (s *Session) activeToken() (string, bool) {
	if s.cursor != len(s.buffer) {
		return "", false
	}
	start := len(s.buffer)
	for start > 0 && !unicode.IsSpace(s.buffer[start-1]) {
		start--
	}
	return string(s.buffer[start:]), true
}

func (s *Session) recompute() {
	s.token, s.tokenOK = s.activeToken()

	var found []fuzzy.Candidate
	if s.token != "" && s.searcher != nil {
		found = s.searcher.Search(fuzzy.Query{Fragment: s.token, MaxCost: s.maxCost, Limit: s.limit})
	}

	switch {
	case len(s.buffer) == 0:
		s.setSuggestions(nil, StatusWaiting)
	case len(found) == 0 && s.token != "":
		s.setSuggestions(nil, StatusNoResult)
	case len(found) == 0:
		s.setSuggestions(nil, StatusWaiting)
	default:
		s.setSuggestions(found, StatusReady)
	}

	s.ghost = s.prediction()
}

func (s *Session) setSuggestions(found []fuzzy.Candidate, status Status) {
	s.suggestions = found
	s.status = status
	s.list.Reset(found)
}

// prediction is the top suggestion carrying the typed capitalization, or
// empty when there is nothing left to predict.
func (s *Session) prediction() string {
	if len(s.suggestions) == 0 || utils.EndsWithSpace(string(s.buffer)) {
		return ""
	}
	top := s.suggestions[0].Word
	if top == vocab.Normalize(s.token) {
		return ""
	}
	return s.withTypedCase(top)
}

// withTypedCase copies the capitals typed in the active token onto word.
func (s *Session) withTypedCase(word string) string {
	return utils.ApplyCapitalization(word, utils.CapitalPositions(norm.NFC.String(s.token)))
}

// Buffer returns the current text.
func (s *Session) Buffer() string {
	return string(s.buffer)
}

// Cursor returns the cursor as a rune offset into Buffer.
func (s *Session) Cursor() int {
	return s.cursor
}

// ActiveToken returns the token being typed. ok is false while the cursor
// is inside the buffer.
func (s *Session) ActiveToken() (token string, ok bool) {
	return s.token, s.tokenOK
}

// Suggestions returns a copy of the ranked candidates for the active token.
func (s *Session) Suggestions() []fuzzy.Candidate {
	if s.suggestions == nil {
		return nil
	}
	out := make([]fuzzy.Candidate, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// Ghost returns the full predicted word, or empty when no preview is shown.
func (s *Session) Ghost() string {
	return s.ghost
}

// Status returns what the renderer should show in place of an empty list.
func (s *Session) Status() Status {
	return s.status
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
