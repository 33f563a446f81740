// Package device provides the escape-coded output side of a terminal
package device

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"termapp/pkg/platform"
)

// Sizer reports the size of a terminal in character cells
type Sizer interface {
	Size() (cols, rows int, err error)
}

// FixedSize is a Sizer with a constant size
type FixedSize struct {
	Cols int
	Rows int
}

// Size returns the fixed size
func (f FixedSize) Size() (int, int, error) {
	if f.Cols < 1 || f.Rows < 1 {
		return 0, 0, fmt.Errorf("invalid fixed size %dx%d", f.Cols, f.Rows)
	}
	return f.Cols, f.Rows, nil
}

// TermSizer queries the size of the terminal attached to a file descriptor
type TermSizer struct {
	FD int
}

// Size returns the current terminal size
func (s TermSizer) Size() (int, int, error) {
	cols, rows, err := term.GetSize(s.FD)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return cols, rows, nil
}

type flusher interface {
	Flush() error
}

// Device writes control sequences and text to a terminal. The size is queried
// once and cached until InvalidateSize is called. The first write error is
// kept and returned by every later write.
type Device struct {
	out    io.Writer
	sizer  Sizer
	logger *zap.Logger

	cols  int
	rows  int
	sized bool

	err error
}

// Option configures a Device
type Option func(*Device)

// WithLogger sets the logger used for write failures
func WithLogger(logger *zap.Logger) Option {
	return func(d *Device) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a device writing to out and sized by sizer
func New(out io.Writer, sizer Sizer, opts ...Option) *Device {
	d := &Device{
		out:    out,
		sizer:  sizer,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open creates a device for the host terminal on standard output
func Open(opts ...Option) (*Device, error) {
	if err := platform.Check("terminal device"); err != nil {
		return nil, err
	}
	return New(os.Stdout, TermSizer{FD: int(os.Stdout.Fd())}, opts...), nil
}

// QuerySize returns the terminal size, querying the sizer only on first use
// or after InvalidateSize
func (d *Device) QuerySize() (int, int, error) {
	if d.sized {
		return d.cols, d.rows, nil
	}
	if d.sizer == nil {
		return 0, 0, fmt.Errorf("device has no size source")
	}
	cols, rows, err := d.sizer.Size()
	if err != nil {
		return 0, 0, err
	}
	d.cols, d.rows, d.sized = cols, rows, true
	return cols, rows, nil
}

// InvalidateSize drops the cached size
func (d *Device) InvalidateSize() {
	d.sized = false
}

// Write sends p to the terminal immediately
func (d *Device) Write(p []byte) error {
	if d.err != nil {
		return d.err
	}
	if _, err := d.out.Write(p); err != nil {
		d.fail(err)
		return d.err
	}
	if f, ok := d.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			d.fail(err)
			return d.err
		}
	}
	return nil
}

func (d *Device) fail(err error) {
	d.err = fmt.Errorf("terminal write failed: %w", err)
	d.logger.Error("device write failed", zap.Error(err))
}

// Print writes s to the terminal
func (d *Device) Print(s string) error {
	if s == "" {
		return d.err
	}
	return d.Write([]byte(s))
}

// MoveCursor moves the cursor to the 1-based column and row
func (d *Device) MoveCursor(col, row int) error {
	return d.Print(CursorPosition(col, row))
}

// MoveRelative moves the cursor n cells in dir; n < 1 writes nothing
func (d *Device) MoveRelative(dir Direction, n int) error {
	return d.Print(CursorRelative(dir, n))
}

// EnterAltBuffer switches to the alternate screen buffer
func (d *Device) EnterAltBuffer() error {
	return d.Print(AltBufferOn)
}

// LeaveAltBuffer returns to the primary screen buffer
func (d *Device) LeaveAltBuffer() error {
	return d.Print(AltBufferOff)
}

// Err returns the first write error, if any
func (d *Device) Err() error {
	return d.err
}
