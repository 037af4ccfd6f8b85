/*
Package server drives one completion session over msgpack IPC.

A renderer running in another process owns the screen and forwards every
keystroke, click and hover to the server through stdin. The server applies
it to its session and answers on stdout with everything needed to redraw:
the buffer, the cursor, the ghost prediction and the ranked suggestions.

# IPC

Messages are a stream of msgpack maps, no framing or delimiters. Every
request carries an ID that is echoed in its response.

Typing a character:

	{"id": "k1", "ev": "insert", "ch": "t"}

The server answers with the full view:

	{"id": "k1", "b": "the cat", "c": 7, "tok": "cat", "g": "catfish", "gs": "fish",
	 "s": [{"w": "cat", "r": 1}, {"w": "catfish", "r": 2}], "st": "ready", "t": 41}

Events are insert (ch), delete, move (pos), accept, select (i), hover (i),
reset and view. A select response sets "f" to ask the renderer to return
focus to its input. The info event returns vocabulary and cache statistics
instead of a view.

Malformed requests and unknown events get an error with code 400; the
stream keeps going.

When the server starts it writes {"status": "ready"}.

Timings in "t" are microseconds spent applying the event.
*/
package server

// Event names accepted in Request.Event.
const (
	EventInsert = "insert"
	EventDelete = "delete"
	EventMove   = "move"
	EventAccept = "accept"
	EventSelect = "select"
	EventHover  = "hover"
	EventReset  = "reset"
	EventView   = "view"
	EventInfo   = "info"
)

// Request is one event from the renderer.
type Request struct {
	ID    string `msgpack:"id"`
	Event string `msgpack:"ev"`
	Char  string `msgpack:"ch,omitempty"`
	Index int    `msgpack:"i,omitempty"`
	Pos   int    `msgpack:"pos,omitempty"`
}

// Suggestion is one ranked list entry.
type Suggestion struct {
	Word    string `msgpack:"w"`
	Rank    uint16 `msgpack:"r"`
	Hovered bool   `msgpack:"h,omitempty"`
}

// Response is the session view after a request.
type Response struct {
	ID          string       `msgpack:"id"`
	Buffer      string       `msgpack:"b"`
	Cursor      int          `msgpack:"c"`
	Token       string       `msgpack:"tok"`
	Ghost       string       `msgpack:"g"`
	GhostSuffix string       `msgpack:"gs"`
	Suggestions []Suggestion `msgpack:"s"`
	Status      string       `msgpack:"st"`
	Focus       bool         `msgpack:"f,omitempty"`
	TimeTaken   int64        `msgpack:"t"`
}

// InfoResponse answers the info event.
type InfoResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats"`
}

// ErrorResponse reports a request that could not be applied.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
