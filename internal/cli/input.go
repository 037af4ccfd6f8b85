// Package cli replays typed lines through a session for debugging without a
// full-screen front-end.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/pkg/session"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var errQuit = errors.New("quit")

// InputHandler reads lines and turns them into session events. Plain text
// is typed one rune at a time; lines starting with ':' are commands.
type InputHandler struct {
	session      *session.Session
	in           io.Reader
	out          io.Writer
	prompt       string
	showCosts    bool
	waitingText  string
	noResultText string
	requestCount int

	ghostStyle  lipgloss.Style
	hoverStyle  lipgloss.Style
	statusStyle lipgloss.Style
}

// Option configures an InputHandler.
type Option func(*InputHandler)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(h *InputHandler) {
		h.in = r
		h.out = w
	}
}

// WithPrompt sets the prompt printed before each line.
func WithPrompt(p string) Option {
	return func(h *InputHandler) { h.prompt = p }
}

// WithShowCosts prints each suggestion's edit cost.
func WithShowCosts(on bool) Option {
	return func(h *InputHandler) { h.showCosts = on }
}

// WithStatusText sets what is printed in place of an empty list.
func WithStatusText(waiting, noResult string) Option {
	return func(h *InputHandler) {
		h.waitingText = waiting
		h.noResultText = noResult
	}
}

// NewInputHandler returns a handler driving sess.
func NewInputHandler(sess *session.Session, opts ...Option) *InputHandler {
	h := &InputHandler{
		session:      sess,
		in:           os.Stdin,
		out:          os.Stdout,
		prompt:       "> ",
		waitingText:  "Waiting for input...",
		noResultText: "No results",
	}
	for _, opt := range opts {
		opt(h)
	}
	r := lipgloss.NewRenderer(h.out)
	h.ghostStyle = r.NewStyle().Faint(true)
	h.hoverStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	h.statusStyle = r.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	return h
}

// Start runs the read loop until the input ends or :q is entered.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "typeahead cli")
	fmt.Fprintln(h.out, "type text and press Enter; :tab :pick N :hover N :bs [N] :left :right :reset :q")

	sc := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, h.prompt)
		if !sc.Scan() {
			fmt.Fprintln(h.out)
			return sc.Err()
		}
		err := h.handleLine(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(h.out, "error: %v\n", err)
			continue
		}
		h.render()
	}
}

// handleLine applies one input line. Plain text keeps every rune, trailing
// spaces included.
func (h *InputHandler) handleLine(line string) error {
	h.requestCount++
	start := time.Now()
	defer func() {
		log.Debugf("Line %d took [ %v ]", h.requestCount, time.Since(start))
	}()

	if !strings.HasPrefix(line, ":") {
		for _, r := range line {
			h.session.Apply(session.InsertChar{Ch: r})
		}
		return nil
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case ":tab":
		if h.session.Ghost() == "" {
			log.Debug("nothing to accept")
		}
		h.session.Apply(session.Accept{})
	case ":pick":
		n, err := rankArg(args)
		if err != nil {
			return err
		}
		h.session.Apply(session.Select{Index: n - 1})
	case ":hover":
		if len(args) == 0 {
			h.session.Apply(session.Hover{Index: suggest.NoHover})
			return nil
		}
		n, err := rankArg(args)
		if err != nil {
			return err
		}
		h.session.Apply(session.Hover{Index: n - 1})
	case ":bs":
		n := 1
		if len(args) > 0 {
			var err error
			if n, err = rankArg(args); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			h.session.Apply(session.DeleteChar{})
		}
	case ":left":
		h.session.Apply(session.MoveCursor{Pos: h.session.Cursor() - 1})
	case ":right":
		h.session.Apply(session.MoveCursor{Pos: h.session.Cursor() + 1})
	case ":reset":
		h.session.Apply(session.Reset{})
	case ":view":
	case ":q", ":quit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
	return nil
}

func rankArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one number, got %d arguments", len(args))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

// render prints the buffer with the ghost suffix, then the list or the status text.
func (h *InputHandler) render() {
	v := h.session.View()

	var b strings.Builder
	runes := []rune(v.Buffer)
	b.WriteString(string(runes[:v.Cursor]))
	b.WriteString("|")
	b.WriteString(string(runes[v.Cursor:]))
	if v.GhostSuffix != "" {
		b.WriteString(h.ghostStyle.Render(v.GhostSuffix))
	} else if v.Ghost != "" {
		b.WriteString(h.ghostStyle.Render(" -> " + v.Ghost))
	}
	fmt.Fprintln(h.out, b.String())

	if len(v.Items) == 0 {
		text := h.waitingText
		if v.Status == session.StatusNoResult {
			text = h.noResultText
		}
		fmt.Fprintln(h.out, h.statusStyle.Render(text))
		return
	}
	for _, it := range v.Items {
		line := fmt.Sprintf("%2d. %s", it.Rank, it.Word)
		if h.showCosts {
			line += fmt.Sprintf(" (cost %d)", it.Cost)
		}
		if it.Hovered {
			line = h.hoverStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		fmt.Fprintln(h.out, line)
	}
}
