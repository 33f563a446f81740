// Package app provides the application shell: views inside a framed root
// canvas, a command prompt and the loop that turns key events into command
// dispatch
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"termapp/pkg/device"
	"termapp/pkg/history"
	"termapp/pkg/input"
	"termapp/pkg/ui"
)

const (
	// TemplateView is the hidden canvas new views are stamped from
	TemplateView = "_template"
	// DefaultView is the view shown when nothing else is selected
	DefaultView = "default"

	minCols = 8
	minRows = 5
)

// Options contains startup options for an Application
type Options struct {
	AltBuffer   bool
	InitialView string
	Title       string
	Leader      string
	// Echo prints typed characters as they are inserted
	Echo    bool
	Logger  *zap.Logger
	History history.Manager
	Decoder []input.DecoderOption
}

// DefaultOptions returns the options used by the interactive shell
func DefaultOptions() Options {
	return Options{
		AltBuffer:   true,
		InitialView: DefaultView,
		Leader:      ui.DefaultLeader,
		Echo:        true,
	}
}

// Commands maps dispatch tokens to handlers. Default, if set, receives
// committed lines that match no handler.
type Commands struct {
	Handlers map[string]func()
	Default  func(line string)
}

// dispatch runs the handler for ev and reports whether a registered handler
// consumed it
func (c Commands) dispatch(ev input.Event) bool {
	if h, ok := c.Handlers[ev.Token()]; ok && h != nil {
		h()
		return true
	}
	if ev.Kind == input.EventCommit && c.Default != nil {
		c.Default(ev.Text)
	}
	// anything else is ignored
	return false
}

// Application owns the device, the view registry, the prompt and the input
// decoder. It runs once: after Shutdown it cannot be started again.
type Application struct {
	dev     *device.Device
	src     input.Source
	decoder *input.Decoder
	logger  *zap.Logger
	opts    Options

	root   *ui.Canvas
	border *ui.Border
	views  map[string]*ui.Canvas
	active *ui.Canvas
	prompt *ui.Prompt

	history history.Manager
	session *Session

	started      bool
	altActive    bool
	shutdownOnce sync.Once
	shutdownErr  error
	closed       bool
}

// New creates an application drawing on dev and reading keys from src
// decoded with km. The screen is split into a frame, a view area and a
// one-line prompt above the bottom edge.
func New(dev *device.Device, src input.Source, km input.Keymap, opts Options) (*Application, error) {
	cols, rows, err := dev.QuerySize()
	if err != nil {
		return nil, NewAppError(ErrorDevice, "size", "failed to query terminal size", err)
	}
	if cols < minCols || rows < minRows {
		return nil, NewAppError(ErrorDevice, "size",
			fmt.Sprintf("terminal too small: %dx%d, need at least %dx%d", cols, rows, minCols, minRows), nil)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.InitialView == "" {
		opts.InitialView = DefaultView
	}

	a := &Application{
		dev:     dev,
		src:     src,
		logger:  logger,
		opts:    opts,
		root:    ui.NewCanvas(dev, ui.NewRegion(1, 1, cols, rows)),
		border:  ui.NewBorder(opts.Title),
		views:   make(map[string]*ui.Canvas),
		history: opts.History,
		session: NewSession(),
	}
	a.root.AddChild(a.border)

	a.views[TemplateView] = ui.NewCanvas(dev, ui.NewRegion(2, 2, cols-2, rows-4))
	if _, err := a.NewView(DefaultView, true); err != nil {
		return nil, err
	}

	a.prompt = ui.NewPrompt(dev, ui.NewRegion(2, rows-1, cols-2, 1), opts.Leader)
	decoderOpts := append([]input.DecoderOption{input.WithLogger(logger)}, opts.Decoder...)
	a.decoder = input.NewDecoder(src, km, a.prompt.Buffer(), decoderOpts...)
	return a, nil
}

// NewView stamps a new empty view from the template. If makeDefault is set
// the view becomes active.
func (a *Application) NewView(name string, makeDefault bool) (*ui.Canvas, error) {
	if name == "" || name == TemplateView {
		return nil, NewAppError(ErrorView, "name", fmt.Sprintf("invalid view name %q", name), nil)
	}
	if _, exists := a.views[name]; exists {
		return nil, NewAppError(ErrorView, "duplicate", fmt.Sprintf("view %q already exists", name), nil)
	}
	view := a.views[TemplateView].MakeCopy()
	a.views[name] = view
	if makeDefault {
		a.active = view
	}
	return view, nil
}

// ChangeView makes the named view active and redraws it with the prompt.
// Unknown names are ignored.
func (a *Application) ChangeView(name string) error {
	view, ok := a.views[name]
	if !ok || name == TemplateView {
		a.logger.Debug("ignoring unknown view", zap.String("view", name))
		return nil
	}
	a.active = view
	if !a.started {
		return nil
	}
	return a.redraw()
}

// View returns a registered view
func (a *Application) View(name string) (*ui.Canvas, bool) {
	view, ok := a.views[name]
	return view, ok && name != TemplateView
}

// ViewNames returns the registered view names in sorted order
func (a *Application) ViewNames() []string {
	names := make([]string, 0, len(a.views))
	for name := range a.views {
		if name != TemplateView {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ActiveView returns the view being shown
func (a *Application) ActiveView() *ui.Canvas {
	return a.active
}

// IsActive reports whether view is the one being shown
func (a *Application) IsActive(view *ui.Canvas) bool {
	return a.active == view
}

// Prompt returns the command prompt
func (a *Application) Prompt() *ui.Prompt {
	return a.prompt
}

// Device returns the output device
func (a *Application) Device() *device.Device {
	return a.dev
}

// Decoder returns the input decoder
func (a *Application) Decoder() *input.Decoder {
	return a.decoder
}

// History returns the command history, which may be nil
func (a *Application) History() history.Manager {
	return a.history
}

// Session returns the session counters
func (a *Application) Session() *Session {
	return a.session
}

// Logger returns the application logger
func (a *Application) Logger() *zap.Logger {
	return a.logger
}

// Startup enters the alternate buffer if requested and draws the frame,
// the initial view and the prompt
func (a *Application) Startup() error {
	if a.closed {
		return ErrShutdown
	}
	if a.started {
		return nil
	}
	a.started = true

	if a.opts.AltBuffer {
		if err := a.dev.EnterAltBuffer(); err != nil {
			return NewAppError(ErrorDevice, "alt_buffer", "failed to enter alternate buffer", err)
		}
		a.altActive = true
	}
	if a.opts.InitialView != DefaultView {
		if _, ok := a.View(a.opts.InitialView); !ok {
			a.logger.Warn("initial view not found", zap.String("view", a.opts.InitialView))
		}
		_ = a.ChangeView(a.opts.InitialView)
	}

	if err := a.root.Refresh(); err != nil {
		return NewAppError(ErrorDevice, "draw", "failed to draw frame", err)
	}
	return a.redraw()
}

// Redraw repaints the frame, the active view and the prompt
func (a *Application) Redraw() error {
	if err := a.root.Refresh(); err != nil {
		return NewAppError(ErrorDevice, "draw", "failed to draw frame", err)
	}
	return a.redraw()
}

// redraw repaints the active view, then the prompt so the cursor ends on
// the command line
func (a *Application) redraw() error {
	if err := a.active.Refresh(); err != nil {
		return NewAppError(ErrorDevice, "draw", "failed to draw view", err)
	}
	if err := a.prompt.Refresh(true); err != nil {
		return NewAppError(ErrorDevice, "draw", "failed to draw prompt", err)
	}
	return nil
}

// Shutdown leaves the alternate buffer and closes the input source, which
// restores the terminal mode. It is safe to call more than once.
func (a *Application) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.closed = true
		var errs []error
		if a.altActive {
			if err := a.dev.LeaveAltBuffer(); err != nil {
				errs = append(errs, NewAppError(ErrorDevice, "alt_buffer", "failed to leave alternate buffer", err))
			}
			a.altActive = false
		}
		if err := a.src.Close(); err != nil {
			errs = append(errs, NewAppError(ErrorInput, "close", "failed to close input", err))
		}
		a.session.End()
		a.logger.Info("application shut down")
		a.shutdownErr = errors.Join(errs...)
	})
	return a.shutdownErr
}

// Run starts the application if needed and processes key events until
// ESC, end of input or ctx is done. It always shuts the application down
// before returning.
func (a *Application) Run(ctx context.Context, cmds Commands) error {
	if a.closed {
		return ErrShutdown
	}
	if err := a.Startup(); err != nil {
		return errors.Join(err, a.Shutdown())
	}

	for {
		ev, err := a.decoder.Next(ctx)
		if err != nil {
			shutdownErr := a.Shutdown()
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return shutdownErr
			}
			return errors.Join(NewAppError(ErrorInput, "read", "failed to read input", err), shutdownErr)
		}

		if done := a.handle(ev, cmds); done {
			return a.Shutdown()
		}
		if err := a.dev.Err(); err != nil {
			return errors.Join(NewAppError(ErrorDevice, "write", "terminal output failed", err), a.Shutdown())
		}
	}
}

// handle applies one event and reports whether the loop should stop
func (a *Application) handle(ev input.Event, cmds Commands) bool {
	switch ev.Kind {
	case input.EventEscape:
		return true

	case input.EventBackspace:
		if ev.Removed && a.opts.Echo {
			a.erase(runewidth.RuneWidth(ev.Rune))
		}

	case input.EventChar:
		if a.opts.Echo {
			_ = a.dev.Print(string(ev.Rune))
		}

	case input.EventUnrecognizedEscape:
		a.session.recordUnrecognized()
		a.logger.Debug("dropping unrecognized escape", zap.Binary("bytes", ev.Bytes))

	case input.EventCommit, input.EventArrowUp, input.EventArrowDown, input.EventArrowLeft, input.EventArrowRight:
		if ev.Kind == input.EventCommit {
			a.session.recordCommit()
		}
		handled := cmds.dispatch(ev)
		if handled {
			a.session.recordDispatch()
		}
		a.logger.Debug("dispatched",
			zap.String("token", ev.Token()),
			zap.Bool("handled", handled))
		if ev.Kind == input.EventCommit && a.history != nil {
			if err := a.history.Add(ev.Text, handled); err != nil {
				a.logger.Warn("failed to record history", zap.Error(err))
			}
		}
		if err := a.redraw(); err != nil {
			a.logger.Error("redraw failed", zap.Error(err))
		}
	}
	return false
}

// erase blanks the width columns left of the cursor and steps back onto
// the first of them
func (a *Application) erase(width int) {
	width = max(width, 1)
	_ = a.dev.MoveRelative(device.Left, width)
	_ = a.dev.Print(strings.Repeat(" ", width))
	_ = a.dev.MoveRelative(device.Left, width)
}
