package device

import (
	"strconv"
	"strings"
)

// Control sequence fragments
const (
	ESC = "\x1b"
	CSI = ESC + "["

	// AltBufferOn switches to the alternate screen buffer
	AltBufferOn = CSI + "?1049h"
	// AltBufferOff returns to the primary screen buffer
	AltBufferOff = CSI + "?1049l"
	// SGRReset restores default foreground, background and attributes
	SGRReset = CSI + "39;49;0m"
)

// Direction is a relative cursor movement direction
type Direction int

const (
	Up Direction = iota
	Down
	Right
	Left
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// final returns the CSI final byte for the direction
func (d Direction) final() byte {
	switch d {
	case Up:
		return 'A'
	case Down:
		return 'B'
	case Right:
		return 'C'
	default:
		return 'D'
	}
}

// Sequence builds CSI params final
func Sequence(params string, final byte) string {
	return CSI + params + string(final)
}

// CursorPosition builds an absolute cursor move. Coordinates are 1-based and
// the terminal expects row before column.
func CursorPosition(col, row int) string {
	return Sequence(strconv.Itoa(row)+";"+strconv.Itoa(col), 'H')
}

// CursorRelative builds a relative cursor move; n < 1 yields an empty string
func CursorRelative(dir Direction, n int) string {
	if n < 1 {
		return ""
	}
	return Sequence(strconv.Itoa(n), dir.final())
}

// SGR builds a select-graphic-rendition sequence; no params yields an empty string
func SGR(params ...int) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strconv.Itoa(p)
	}
	return Sequence(strings.Join(parts, ";"), 'm')
}
