package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/typeahead/pkg/fuzzy"
	"github.com/bastiangx/typeahead/pkg/session"
	"github.com/bastiangx/typeahead/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server feeds requests from a reader into one session and writes views back.
type Server struct {
	engine     *fuzzy.Engine
	engineOpts []fuzzy.Option
	session    *session.Session
	reader     io.Reader
	writer     io.Writer
	encoder    *msgpack.Encoder
	reloads    <-chan *vocab.Index
	banner     bool
	logReqs    bool
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = w
	}
}

// WithReloads makes the server swap in every index received on ch.
// opts are used to build the engine around each new index.
func WithReloads(ch <-chan *vocab.Index, opts ...fuzzy.Option) Option {
	return func(s *Server) {
		s.reloads = ch
		s.engineOpts = opts
	}
}

// WithReadyBanner toggles the {"status": "ready"} message at startup.
func WithReadyBanner(on bool) Option {
	return func(s *Server) { s.banner = on }
}

// WithRequestLogging logs every request at debug level.
func WithRequestLogging(on bool) Option {
	return func(s *Server) { s.logReqs = on }
}

// NewServer creates a server answering on stdin/stdout.
// sess must already search with engine.
func NewServer(engine *fuzzy.Engine, sess *session.Session, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		session: sess,
		reader:  os.Stdin,
		writer:  os.Stdout,
		banner:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.encoder = msgpack.NewEncoder(s.writer)
	return s
}

type frame struct {
	raw msgpack.RawMessage
	err error
}

// Start serves until the input ends or ctx is done. Requests and vocabulary
// reloads are handled one at a time on the calling goroutine.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")

	if s.banner {
		s.send(map[string]string{"status": "ready"})
	}

	frames := make(chan frame)
	go s.readFrames(ctx, frames)

	reloads := s.reloads
	for {
		select {
		case <-ctx.Done():
			return nil

		case ix, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			s.swapIndex(ix)

		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if f.err != nil {
				if errors.Is(f.err, io.EOF) {
					log.Debug("Input closed, stopping server.")
					return nil
				}
				log.Errorf("Reading request stream: %v", f.err)
				return f.err
			}
			s.handleRequest(f.raw)
		}
	}
}

// readFrames splits the input into whole msgpack values so a request that
// fails to decode does not desync the stream.
func (s *Server) readFrames(ctx context.Context, out chan<- frame) {
	defer close(out)
	dec := msgpack.NewDecoder(s.reader)
	for {
		raw, err := dec.DecodeRaw()
		select {
		case out <- frame{raw: raw, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) swapIndex(ix *vocab.Index) {
	engine, err := fuzzy.NewEngine(ix, s.engineOpts...)
	if err != nil {
		log.Errorf("Ignoring reloaded vocabulary: %v", err)
		return
	}
	s.engine = engine
	s.session.SetSearcher(engine)
	log.Infof("Vocabulary swapped: %d words", ix.Len())
}

func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "invalid msgpack request", 400)
		return
	}
	if s.logReqs {
		log.Debug("request", "id", req.ID, "ev", req.Event, "ch", req.Char, "i", req.Index, "pos", req.Pos)
	}

	if req.Event == EventInfo {
		s.send(InfoResponse{ID: req.ID, Status: "ok", Stats: s.engine.Stats()})
		return
	}

	start := time.Now()
	var effect session.Effect
	switch req.Event {
	case EventInsert:
		if req.Char == "" {
			s.sendError(req.ID, "insert needs 'ch'", 400)
			return
		}
		for _, r := range req.Char {
			effect |= s.session.Apply(session.InsertChar{Ch: r})
		}
	case EventDelete:
		effect = s.session.Apply(session.DeleteChar{})
	case EventMove:
		effect = s.session.Apply(session.MoveCursor{Pos: req.Pos})
	case EventAccept:
		effect = s.session.Apply(session.Accept{})
	case EventSelect:
		effect = s.session.Apply(session.Select{Index: req.Index})
	case EventHover:
		effect = s.session.Apply(session.Hover{Index: req.Index})
	case EventReset:
		effect = s.session.Apply(session.Reset{})
	case EventView:
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown event: %q", req.Event), 400)
		return
	}
	elapsed := time.Since(start)

	s.send(buildResponse(req.ID, s.session.View(), effect, elapsed))
}

func buildResponse(id string, v session.View, effect session.Effect, elapsed time.Duration) Response {
	suggestions := make([]Suggestion, len(v.Items))
	for i, it := range v.Items {
		suggestions[i] = Suggestion{Word: it.Word, Rank: it.Rank, Hovered: it.Hovered}
	}
	return Response{
		ID:          id,
		Buffer:      v.Buffer,
		Cursor:      v.Cursor,
		Token:       v.Token,
		Ghost:       v.Ghost,
		GhostSuffix: v.GhostSuffix,
		Suggestions: suggestions,
		Status:      v.Status.String(),
		Focus:       effect.Has(session.EffectFocusInput),
		TimeTaken:   elapsed.Microseconds(),
	}
}

func (s *Server) send(v any) {
	if err := s.encoder.Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	log.Debugf("Request %q rejected: %s", id, message)
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
