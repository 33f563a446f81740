//go:build !unix && !windows

package input

import (
	"time"

	"termapp/pkg/platform"
)

// TTYSource is unavailable on this platform
type TTYSource struct{}

// OpenTerminal always fails with platform.ErrUnsupportedPlatform here
func OpenTerminal() (*TTYSource, error) {
	return nil, platform.Check("terminal input")
}

func (s *TTYSource) ReadByte() (byte, error) {
	return 0, platform.Check("terminal input")
}

func (s *TTYSource) Ready(time.Duration) (bool, error) {
	return false, platform.Check("terminal input")
}

func (s *TTYSource) Close() error {
	return nil
}
