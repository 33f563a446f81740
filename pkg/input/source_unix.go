//go:build unix

package input

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTYSource reads raw bytes from the controlling terminal
type TTYSource struct {
	fd    int
	old   *term.State
	chunk chunkReader
}

// OpenTerminal puts standard input into raw mode and returns a source over it
func OpenTerminal() (*TTYSource, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("standard input is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	return &TTYSource{fd: fd, old: old}, nil
}

func (s *TTYSource) ReadByte() (byte, error) {
	for !s.chunk.buffered() {
		err := s.chunk.fill(func(p []byte) (int, error) {
			return unix.Read(s.fd, p)
		})
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return 0, err
		}
	}
	return s.chunk.next(), nil
}

func (s *TTYSource) Ready(wait time.Duration) (bool, error) {
	if s.chunk.buffered() {
		return true, nil
	}
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(wait/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, fmt.Errorf("poll failed: %w", err)
	}
	return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
}

// Close restores the terminal mode saved by OpenTerminal
func (s *TTYSource) Close() error {
	if s.old == nil {
		return nil
	}
	err := term.Restore(s.fd, s.old)
	s.old = nil
	return err
}
