//go:build windows

package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procPeekConsoleInput = kernel32.NewProc("PeekConsoleInputW")
	procReadConsoleInput = kernel32.NewProc("ReadConsoleInputW")
)

const keyEvent uint16 = 1

// inputRecord mirrors INPUT_RECORD; data holds the event union
type inputRecord struct {
	typ  uint16
	_    uint16
	data [16]byte
}

// yieldsBytes reports whether ReadFile would return bytes for rec: a key
// press carrying a character. Key releases, focus, menu, mouse and resize
// records produce nothing.
func (rec inputRecord) yieldsBytes() bool {
	if rec.typ != keyEvent {
		return false
	}
	down := binary.LittleEndian.Uint32(rec.data[0:])
	ch := binary.LittleEndian.Uint16(rec.data[10:])
	return down != 0 && ch != 0
}

// TTYSource reads raw bytes from the console with virtual terminal input
// enabled, so keys arrive in the VT encoding
type TTYSource struct {
	handle  windows.Handle
	old     *term.State
	oldMode uint32
	chunk   chunkReader
}

// OpenTerminal puts the console into raw VT input mode and returns a source over it
func OpenTerminal() (*TTYSource, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("standard input is not a console")
	}
	h := windows.Handle(os.Stdin.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return nil, fmt.Errorf("failed to get console mode: %w", err)
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	var raw uint32
	if err := windows.GetConsoleMode(h, &raw); err != nil {
		_ = term.Restore(fd, old)
		return nil, fmt.Errorf("failed to get raw console mode: %w", err)
	}
	if err := windows.SetConsoleMode(h, raw|windows.ENABLE_VIRTUAL_TERMINAL_INPUT); err != nil {
		_ = term.Restore(fd, old)
		return nil, fmt.Errorf("failed to enable virtual terminal input: %w", err)
	}
	return &TTYSource{handle: h, old: old, oldMode: mode}, nil
}

func (s *TTYSource) ReadByte() (byte, error) {
	for !s.chunk.buffered() {
		err := s.chunk.fill(func(p []byte) (int, error) {
			var n uint32
			err := windows.ReadFile(s.handle, p, &n, nil)
			return int(n), err
		})
		if err != nil {
			return 0, err
		}
	}
	return s.chunk.next(), nil
}

// Ready waits up to wait for a record that yields bytes. The console handle
// is also signalled for key releases and other records ReadFile skips;
// those are discarded so a following ReadByte cannot block.
func (s *TTYSource) Ready(wait time.Duration) (bool, error) {
	deadline := time.Now().Add(wait)
	for {
		if s.chunk.buffered() {
			return true, nil
		}
		ok, err := drainIdle(s.peek, s.discard)
		if err != nil || ok {
			return ok, err
		}

		remaining := max(time.Until(deadline), 0)
		event, err := windows.WaitForSingleObject(s.handle, uint32(remaining/time.Millisecond))
		if err != nil {
			return false, fmt.Errorf("wait failed: %w", err)
		}
		if event != windows.WAIT_OBJECT_0 {
			return false, nil
		}
		if remaining == 0 {
			return drainIdle(s.peek, s.discard)
		}
	}
}

// drainIdle discards leading records that yield no bytes and reports
// whether a byte-yielding record is next
func drainIdle(peek func() (inputRecord, bool, error), discard func() error) (bool, error) {
	for {
		rec, ok, err := peek()
		if err != nil || !ok {
			return false, err
		}
		if rec.yieldsBytes() {
			return true, nil
		}
		if err := discard(); err != nil {
			return false, err
		}
	}
}

func (s *TTYSource) peek() (inputRecord, bool, error) {
	var rec inputRecord
	var n uint32
	rv, _, err := procPeekConsoleInput.Call(
		uintptr(s.handle),
		uintptr(unsafe.Pointer(&rec)),
		1,
		uintptr(unsafe.Pointer(&n)))
	if rv == 0 {
		return rec, false, fmt.Errorf("peek console input: %w", err)
	}
	return rec, n == 1, nil
}

func (s *TTYSource) discard() error {
	var rec inputRecord
	var n uint32
	rv, _, err := procReadConsoleInput.Call(
		uintptr(s.handle),
		uintptr(unsafe.Pointer(&rec)),
		1,
		uintptr(unsafe.Pointer(&n)))
	if rv == 0 {
		return fmt.Errorf("read console input: %w", err)
	}
	return nil
}

// Close restores the console mode saved by OpenTerminal
func (s *TTYSource) Close() error {
	if s.old == nil {
		return nil
	}
	err := term.Restore(int(s.handle), s.old)
	if modeErr := windows.SetConsoleMode(s.handle, s.oldMode); modeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to restore console mode: %w", modeErr))
	}
	s.old = nil
	return err
}
