// Package engine runs the interactive command loop over one encounter session.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/encounter"
	"github.com/cory-johannsen/tracker/internal/frontend/history"
	"github.com/cory-johannsen/tracker/internal/frontend/shell"
	"github.com/cory-johannsen/tracker/internal/game/command"
	"github.com/cory-johannsen/tracker/internal/game/session"
)

// ErrUsage marks a command invoked with the wrong arguments. The loop prints
// the command's usage and carries on.
var ErrUsage = errors.New("usage")

// Outcome tells the loop what to do after a command.
type Outcome int

const (
	// Continue waits for the next command.
	Continue Outcome = iota
	// Redraw redraws the roster table, then waits for the next command.
	Redraw
	// Exit ends the loop.
	Exit
)

// Renderer draws the roster table.
type Renderer interface {
	Draw(st *session.State) error
}

// Scripter runs encounter macros.
type Scripter interface {
	RunFile(ctx context.Context, path string, st *session.State, out io.Writer) error
}

// Deps holds the collaborators of an Engine.
type Deps struct {
	State      *session.State
	Encounters *encounter.Manager
	Registry   *command.Registry
	Screen     Renderer
	History    *history.History
	Picker     history.Picker
	Shell      shell.Runner
	Scripts    Scripter
	In         io.Reader
	Out        io.Writer
	Prompt     string
	// Autosave is read at startup and force-written at exit.
	Autosave string
	// Players is the startup fallback when Autosave cannot be loaded.
	Players string
	Logger  *zap.Logger
}

// Engine is the single-threaded read/dispatch loop. It is not safe for
// concurrent use.
type Engine struct {
	st       *session.State
	enc      *encounter.Manager
	registry *command.Registry
	screen   Renderer
	hist     *history.History
	picker   history.Picker
	shell    shell.Runner
	scripts  Scripter
	in       *bufio.Reader
	out      io.Writer
	prompt   string
	autosave string
	players  string
	logger   *zap.Logger
}

// New creates an Engine.
//
// Precondition: State, Encounters, Registry, Screen, History, In, Out and
// Logger must be non-nil. Picker, Shell and Scripts may be nil, in which case
// the matching commands report that they are unavailable.
func New(d Deps) *Engine {
	return &Engine{
		st:       d.State,
		enc:      d.Encounters,
		registry: d.Registry,
		screen:   d.Screen,
		hist:     d.History,
		picker:   d.Picker,
		shell:    d.Shell,
		scripts:  d.Scripts,
		in:       bufio.NewReader(d.In),
		out:      d.Out,
		prompt:   d.Prompt,
		autosave: d.Autosave,
		players:  d.Players,
		logger:   d.Logger,
	}
}

// State returns the live session state.
func (e *Engine) State() *session.State { return e.st }

// Start loads the autosave, falling back to the default player roster and
// then to an empty roster.
func (e *Engine) Start(ctx context.Context) {
	_, err := e.enc.Load(ctx, e.autosave, e.st)
	if err == nil {
		e.printf("loaded %s...\n", e.autosave)
		return
	}
	e.logger.Info("autosave unavailable", zap.String("id", e.autosave), zap.Error(err))
	e.println("autosave error, loading default...")
	if _, err := e.enc.Load(ctx, e.players, e.st); err != nil {
		e.logger.Info("default roster unavailable", zap.String("id", e.players), zap.Error(err))
		e.println("no default roster, starting empty")
		return
	}
	e.printf("loaded %s...\n", e.players)
}

// Run draws the table and processes commands until exit, end of input or
// cancellation of ctx.
//
// Postcondition: The autosave has been force-written unless ctx was cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.draw()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.printf("%s", e.prompt)
		line, err := e.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			e.println()
			e.exit(ctx)
			return nil
		}
		switch e.Dispatch(ctx, line) {
		case Redraw:
			e.draw()
		case Exit:
			return nil
		}
	}
}

// Dispatch runs one input line.
//
// Postcondition: Command failures are reported to the operator and never
// returned; blank lines are a no-op.
func (e *Engine) Dispatch(ctx context.Context, line string) Outcome {
	parsed := command.Parse(line)
	if parsed.Command == "" {
		return Continue
	}

	cmd, ok := e.registry.ResolveLine(parsed)
	if !ok {
		e.hist.Add(parsed.Line)
		e.printf("`%s`: command not found\nuse \"help\" for help\n", parsed.Command)
		return Continue
	}
	if cmd.Handler != command.HandlerHistory {
		e.hist.Add(parsed.Line)
	}

	fn, ok := handlerMap[cmd.Handler]
	if !ok {
		e.logger.Error("command has no handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
		e.printf("`%s`: not implemented\n", cmd.Name)
		return Continue
	}

	e.logger.Debug("dispatching", zap.String("command", cmd.Name), zap.Strings("args", parsed.Args))
	outcome, err := fn(ctx, e, &call{cmd: cmd, parsed: parsed})
	if err != nil {
		if errors.Is(err, ErrUsage) {
			if err != ErrUsage {
				e.printf("%s: %v\n", cmd.Name, err)
			}
			e.printUsage(cmd)
		} else {
			e.printf("%s: %v\n", cmd.Name, err)
		}
		e.logger.Debug("command failed", zap.String("command", cmd.Name), zap.Error(err))
	}
	return outcome
}

// exit force-saves the autosave.
func (e *Engine) exit(ctx context.Context) {
	if err := e.enc.Save(ctx, e.autosave, e.st, true); err != nil {
		e.logger.Error("autosave failed", zap.String("id", e.autosave), zap.Error(err))
		e.printf("autosave failed: %v\n", err)
	}
	e.println("exiting...")
}

// releaseInput drops lines read ahead of the current command before the
// picker or a subprocess takes the terminal. Those read the terminal directly,
// so anything left in the buffer was typed for them and must not run as
// tracker commands afterwards.
func (e *Engine) releaseInput() {
	n := e.in.Buffered()
	if n == 0 {
		return
	}
	_, _ = e.in.Discard(n)
	e.logger.Warn("discarded buffered input", zap.Int("bytes", n))
	e.printf("discarded %d bytes of pending input\n", n)
}

func (e *Engine) draw() {
	if err := e.screen.Draw(e.st); err != nil {
		e.logger.Warn("drawing roster", zap.Error(err))
	}
}

func (e *Engine) printUsage(cmd *command.Command) {
	e.println("usage:")
	for _, u := range strings.Split(cmd.Usage, "\n") {
		e.printf("  %s\n", u)
	}
}

func (e *Engine) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

func (e *Engine) println(args ...any) {
	_, _ = fmt.Fprintln(e.out, args...)
}
