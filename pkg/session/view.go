package session

import (
	"strings"

	"github.com/bastiangx/typeahead/pkg/suggest"
	"golang.org/x/text/unicode/norm"
)

// View is everything a renderer needs to draw the input and the list.
type View struct {
	Buffer string
	Cursor int
	Token  string
	// Ghost is the whole predicted word.
	Ghost string
	// GhostSuffix is the part of Ghost still to be typed, drawn dimmed after
	// the cursor. It is empty when Ghost does not extend the typed token,
	// e.g. for a correction, even though accepting would still apply Ghost.
	GhostSuffix string
	Items       []suggest.DisplayItem
	Status      Status
}

// View returns the current renderable state.
func (s *Session) View() View {
	return View{
		Buffer:      string(s.buffer),
		Cursor:      s.cursor,
		Token:       s.token,
		Ghost:       s.ghost,
		GhostSuffix: ghostSuffix(s.ghost, s.token),
		Items:       s.list.Render(),
		Status:      s.status,
	}
}

// ghostSuffix strips the typed token from ghost. Words in the index are
// composed, so a decomposed token is composed before comparing.
func ghostSuffix(ghost, token string) string {
	if ghost == "" {
		return ""
	}
	token = norm.NFC.String(token)
	if !strings.HasPrefix(ghost, token) {
		return ""
	}
	return ghost[len(token):]
}
