package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"termapp/pkg/config"
	"termapp/pkg/device"
	"termapp/pkg/history"
	"termapp/pkg/input"
	"termapp/pkg/logging"
	"termapp/pkg/serial"
	"termapp/pkg/terminal"
)

// Builder registers views on a new application and returns its command
// table
type Builder func(a *Application) (Commands, error)

// Runner provides a high-level interface to run the application from
// settings
type Runner struct {
	settings config.Settings
	build    Builder
	out      io.Writer
	app      *Application
}

// NewRunner creates a new application runner
func NewRunner(settings config.Settings, build Builder) (*Runner, error) {
	if err := settings.Validate(); err != nil {
		return nil, NewAppError(ErrorConfig, "invalid", "invalid settings", err)
	}
	return &Runner{
		settings: settings,
		build:    build,
		out:      os.Stdout,
	}, nil
}

// Application returns the application once Run has created it
func (r *Runner) Application() *Application {
	return r.app
}

// Run opens the configured device and source, runs the application until it
// shuts down or the process is interrupted and prints a session summary
func (r *Runner) Run(ctx context.Context) error {
	if err := logging.Initialize(r.settings.LogLevel, r.settings.LogFile); err != nil {
		return NewAppError(ErrorConfig, "logging", "failed to initialize logging", err)
	}
	defer logging.Sync()
	logger := logging.GetLogger()

	dev, src, err := r.open(logger)
	if err != nil {
		return err
	}

	app, err := r.newApplication(dev, src, logger)
	if err != nil {
		return closeAfter(err, src)
	}
	r.app = app

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("application started",
		zap.String("source", r.settings.Source),
		zap.String("keymap", r.settings.Keymap))
	runErr := app.Run(ctx, r.commands(app))

	if err := r.saveHistory(); err != nil {
		logger.Warn("failed to save history", zap.Error(err))
	}
	r.printSessionSummary()
	return runErr
}

// open selects the output device and input source for the configured source
// kind
func (r *Runner) open(logger *zap.Logger) (*device.Device, input.Source, error) {
	size := device.FixedSize{Cols: r.settings.Width, Rows: r.settings.Height}

	switch r.settings.Source {
	case config.SourceSerial:
		port, err := serial.Open(r.settings.Serial)
		if err != nil {
			return nil, nil, NewAppError(ErrorInput, "serial", "failed to open serial port", err)
		}
		return device.New(port, size, device.WithLogger(logger)), traceSource{port}, nil

	case config.SourceStdin:
		return device.New(os.Stdout, size, device.WithLogger(logger)), input.NewReaderSource(os.Stdin), nil

	default:
		dev, err := device.Open(device.WithLogger(logger))
		if err != nil {
			return nil, nil, NewAppError(ErrorDevice, "open", "failed to open terminal", err)
		}
		src, err := input.OpenTerminal()
		if err != nil {
			return nil, nil, NewAppError(ErrorInput, "open", "failed to open terminal input", err)
		}
		return dev, traceSource{src}, nil
	}
}

func (r *Runner) newApplication(dev *device.Device, src input.Source, logger *zap.Logger) (*Application, error) {
	km, ok := input.KeymapByName(r.settings.Keymap)
	if !ok {
		return nil, NewAppError(ErrorConfig, "keymap", fmt.Sprintf("unknown keymap %q", r.settings.Keymap), nil)
	}
	opts := Options{
		AltBuffer:   r.settings.AltBuffer,
		InitialView: r.settings.InitialView,
		Title:       r.settings.Title,
		Leader:      r.settings.Leader,
		Echo:        r.settings.Echo,
		Logger:      logger,
		History:     history.NewMemoryManager(r.settings.HistoryMax),
	}
	return New(dev, src, km, opts)
}

func (r *Runner) commands(app *Application) Commands {
	if r.build == nil {
		return Commands{}
	}
	cmds, err := r.build(app)
	if err != nil {
		app.Logger().Error("failed to build commands", zap.Error(err))
		return Commands{}
	}
	return cmds
}

func (r *Runner) saveHistory() error {
	if r.app == nil || r.app.History() == nil || r.settings.HistoryFile == "" {
		return nil
	}
	format, err := history.ParseFormat(r.settings.HistoryFormat)
	if err != nil {
		return err
	}
	return r.app.History().SaveToFile(r.settings.HistoryFile, format)
}

// printSessionSummary prints a summary of the session
func (r *Runner) printSessionSummary() {
	if r.app == nil {
		return
	}
	stats := r.app.Session().Stats()

	fmt.Fprintf(r.out, "\n=== Session Summary ===\n")
	fmt.Fprintf(r.out, "Duration: %v\n", stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(r.out, "Commands: %d\n", stats.Commits)
	fmt.Fprintf(r.out, "Dispatched: %d\n", stats.Dispatched)
	fmt.Fprintf(r.out, "Unrecognized keys: %d\n", stats.Unrecognized)
	fmt.Fprintf(r.out, "=======================\n")
}

// Stop shuts the running application down
func (r *Runner) Stop() error {
	if r.app != nil {
		return r.app.Shutdown()
	}
	return nil
}

// RunInteractive runs the application with the given settings
func RunInteractive(settings config.Settings, build Builder) error {
	runner, err := NewRunner(settings, build)
	if err != nil {
		return err
	}
	return runner.Run(context.Background())
}

// RunHeadless feeds keys to an application drawing on an in-memory screen
// of the configured size and returns the final screen. Input ends the run
// when the keys are exhausted.
func RunHeadless(settings config.Settings, build Builder, keys []byte) (*terminal.Screen, Stats, error) {
	if settings.Width < minCols || settings.Height < minRows {
		return nil, Stats{}, NewAppError(ErrorConfig, "size",
			fmt.Sprintf("headless screen too small: %dx%d", settings.Width, settings.Height), nil)
	}
	km, ok := input.KeymapByName(settings.Keymap)
	if !ok {
		return nil, Stats{}, NewAppError(ErrorConfig, "keymap", fmt.Sprintf("unknown keymap %q", settings.Keymap), nil)
	}

	screen := terminal.NewScreen(settings.Width, settings.Height)
	dev := device.New(screen, screen)
	src := input.NewReaderSource(bytes.NewReader(keys))

	opts := Options{
		// the alternate buffer would be discarded on exit
		AltBuffer:   false,
		InitialView: settings.InitialView,
		Title:       settings.Title,
		Leader:      settings.Leader,
		Echo:        settings.Echo,
		Logger:      logging.GetLogger(),
		History:     history.NewMemoryManager(settings.HistoryMax),
	}
	app, err := New(dev, src, km, opts)
	if err != nil {
		return nil, Stats{}, err
	}

	var cmds Commands
	if build != nil {
		if cmds, err = build(app); err != nil {
			return nil, Stats{}, NewAppError(ErrorConfig, "commands", "failed to build commands", err)
		}
	}
	err = app.Run(context.Background(), cmds)
	return screen, app.Session().Stats(), err
}

// closeAfter closes src after a startup failure, joining any close error
// to err
func closeAfter(err error, src input.Source) error {
	if closeErr := src.Close(); closeErr != nil {
		return errors.Join(err, NewAppError(ErrorInput, "close", "failed to close input", closeErr))
	}
	return err
}

// traceSource logs every byte read at debug level
type traceSource struct {
	input.Source
}

func (t traceSource) ReadByte() (byte, error) {
	b, err := t.Source.ReadByte()
	if err == nil {
		logging.LogRawBytes("input byte", []byte{b})
	}
	return b, err
}
