package session

// Event is one user action fed to Session.Apply.
type Event interface {
	isEvent()
}

// InsertChar inserts Ch at the cursor and advances it.
type InsertChar struct{ Ch rune }

// DeleteChar removes the rune before the cursor, like backspace.
type DeleteChar struct{}

// MoveCursor places the cursor at rune offset Pos, clamped to the buffer.
type MoveCursor struct{ Pos int }

// Accept replaces the active token with the ghost prediction.
type Accept struct{}

// Select replaces the active token with the suggestion at Index.
type Select struct{ Index int }

// Hover moves the list hover to Index; suggest.NoHover clears it.
type Hover struct{ Index int }

// Reset empties the buffer.
type Reset struct{}

func (InsertChar) isEvent() {}
func (DeleteChar) isEvent() {}
func (MoveCursor) isEvent() {}
func (Accept) isEvent()     {}
func (Select) isEvent()     {}
func (Hover) isEvent()      {}
func (Reset) isEvent()      {}

// Effect lists presentation side effects an event asks the renderer to perform.
type Effect uint8

const (
	// EffectNone requests nothing.
	EffectNone Effect = 0
	// EffectFocusInput asks the renderer to return focus to the input.
	EffectFocusInput Effect = 1
)

// Has reports whether f is set in e.
func (e Effect) Has(f Effect) bool {
	return e&f != 0
}

// Status tells the renderer what to show when there are no items.
type Status int

const (
	// StatusWaiting means nothing is being typed: the buffer is empty,
	// ends in whitespace, or the cursor sits inside it.
	StatusWaiting Status = iota
	// StatusNoResult means a token is being typed but nothing matched.
	StatusNoResult
	// StatusReady means suggestions are available.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusNoResult:
		return "no_result"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}
