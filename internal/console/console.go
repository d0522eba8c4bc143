// Package console is the terminal presentation surface. It renders the four
// views (home/registration, chatbot, profile, report), reads line-oriented
// actions from the user, and drives the session controller. All state lives
// in the session object; the console only renders and dispatches.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rayanearaujoc/mefirstapp/internal/report"
	"github.com/rayanearaujoc/mefirstapp/internal/session"
)

// Deps provides dependencies for the console views.
type Deps struct {
	Logger     *slog.Logger
	Controller *session.Controller
	Aggregator *report.Aggregator
}

// Console runs the interactive terminal loop. One user action is handled to
// completion before the next is read.
type Console struct {
	deps Deps
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a console reading actions from in and rendering to out.
func New(deps Deps, in io.Reader, out io.Writer) *Console {
	return &Console{
		deps: deps,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// Run creates a fresh session and processes user actions until the input
// ends, the user quits, or the context is cancelled.
func (c *Console) Run(ctx context.Context) error {
	log := c.deps.Logger.With("component", "console")

	s := session.NewSession()
	log.InfoContext(ctx, "Session started", "session_id", s.ID)
	defer log.InfoContext(ctx, "Session ended", "session_id", s.ID)

	c.printf("=== MeFirst ===\n")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var err error
		switch s.Page {
		case session.PageRegistration:
			err = c.handleRegistration(ctx, s)
		case session.PageChat:
			err = c.handleChat(ctx, s)
		case session.PageProfile:
			err = c.handleProfile(ctx, s)
		case session.PageReport:
			err = c.handleReport(ctx, s)
		default:
			err = fmt.Errorf("unknown page: %v", s.Page)
		}

		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// errQuit signals a user-requested exit.
var errQuit = errors.New("quit")

// readLine reads one trimmed input line, returning io.EOF when the input is
// exhausted.
func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
