// Package terminal provides a headless screen that replays ANSI output into
// a grid of cells
package terminal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Cell represents a single character cell. A wide rune occupies its cell
// and a continuation cell whose Char is 0.
type Cell struct {
	Char  rune
	Style tcell.Style
}

// Screen interprets the control sequences the device emits: cursor
// positioning (CUP, CUU, CUD, CUF, CUB), SGR, erase (ED, EL) and the
// alternate buffer switch. It does not wrap or scroll; text written past
// the right edge is dropped and counted.
type Screen struct {
	width  int
	height int

	primary [][]Cell
	alt     [][]Cell
	useAlt  bool

	// 0-based cursor
	cx int
	cy int

	style   tcell.Style
	parser  *VTParser
	partial []byte
	dropped int
}

// NewScreen creates a blank screen of width x height cells
func NewScreen(width, height int) *Screen {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Screen{
		width:   width,
		height:  height,
		primary: newBuffer(width, height),
		alt:     newBuffer(width, height),
		style:   tcell.StyleDefault,
		parser:  NewVTParser(),
	}
}

func newBuffer(width, height int) [][]Cell {
	buf := make([][]Cell, height)
	for y := range buf {
		buf[y] = make([]Cell, width)
		for x := range buf[y] {
			buf[y][x] = Cell{Char: ' ', Style: tcell.StyleDefault}
		}
	}
	return buf
}

// Size returns the screen size; it lets a Screen stand in for a terminal
func (s *Screen) Size() (int, int, error) {
	return s.width, s.height, nil
}

// Write feeds p through the parser. It never fails.
func (s *Screen) Write(p []byte) (int, error) {
	for _, b := range p {
		s.feed(b)
	}
	return len(p), nil
}

func (s *Screen) buffer() [][]Cell {
	if s.useAlt {
		return s.alt
	}
	return s.primary
}

func (s *Screen) feed(b byte) {
	switch s.parser.State {
	case StateEscape:
		s.parser.handleEscape(b)
		return
	case StateCSI:
		if final, done := s.parser.handleCSI(b); done {
			s.executeCSI(final)
			s.parser.Reset()
		}
		return
	}

	if len(s.partial) > 0 {
		if b&0xC0 == 0x80 {
			s.partial = append(s.partial, b)
			if utf8.FullRune(s.partial) {
				r, _ := utf8.DecodeRune(s.partial)
				s.partial = s.partial[:0]
				if r != utf8.RuneError {
					s.put(r)
				}
			}
			return
		}
		s.partial = s.partial[:0]
	}

	switch {
	case b == 0x1B:
		s.parser.State = StateEscape
	case b == '\r':
		s.cx = 0
	case b == '\n':
		s.cy = min(s.cy+1, s.height-1)
	case b == 0x08:
		s.cx = max(s.cx-1, 0)
	case b >= 0x20 && b <= 0x7E:
		s.put(rune(b))
	case b >= 0x80 && utf8.RuneStart(b):
		s.partial = append(s.partial, b)
	}
}

// put writes r at the cursor and advances it by the rune's width
func (s *Screen) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	if s.cx+w > s.width {
		s.dropped++
		s.cx = s.width
		return
	}
	row := s.buffer()[s.cy]
	row[s.cx] = Cell{Char: r, Style: s.style}
	if w == 2 {
		row[s.cx+1] = Cell{Char: 0, Style: s.style}
	}
	s.cx += w
}

// executeCSI executes a complete CSI sequence
func (s *Screen) executeCSI(final byte) {
	vt := s.parser
	switch final {
	case 'A':
		s.cy = max(s.cy-vt.getParam(0, 1), 0)
	case 'B':
		s.cy = min(s.cy+vt.getParam(0, 1), s.height-1)
	case 'C':
		s.cx = min(s.cx+vt.getParam(0, 1), s.width-1)
	case 'D':
		s.cx = max(s.cx-vt.getParam(0, 1), 0)
	case 'H', 'f':
		s.cy = clamp(vt.getParam(0, 1)-1, 0, s.height-1)
		s.cx = clamp(vt.getParam(1, 1)-1, 0, s.width-1)
	case 'J':
		s.eraseDisplay(vt.getParam(0, 0))
	case 'K':
		s.eraseLine(vt.getParam(0, 0))
	case 'm':
		s.applySGR(vt.Params)
	case 'h', 'l':
		if vt.Private() && vt.getParam(0, 0) == 1049 {
			s.switchAlt(final == 'h')
		}
	}
}

func (s *Screen) switchAlt(on bool) {
	if on == s.useAlt {
		return
	}
	if on {
		s.alt = newBuffer(s.width, s.height)
	}
	s.useAlt = on
}

func (s *Screen) eraseDisplay(mode int) {
	buf := s.buffer()
	for y := range buf {
		for x := range buf[y] {
			before := y < s.cy || (y == s.cy && x < s.cx)
			if mode == 2 || (mode == 0 && !before) || (mode == 1 && (before || (y == s.cy && x == s.cx))) {
				buf[y][x] = Cell{Char: ' ', Style: s.style}
			}
		}
	}
}

func (s *Screen) eraseLine(mode int) {
	row := s.buffer()[s.cy]
	for x := range row {
		if mode == 2 || (mode == 0 && x >= s.cx) || (mode == 1 && x <= s.cx) {
			row[x] = Cell{Char: ' ', Style: s.style}
		}
	}
}

// applySGR updates the current style; no parameters means reset
func (s *Screen) applySGR(params []int) {
	if len(params) == 0 {
		s.style = tcell.StyleDefault
		return
	}
	for _, p := range params {
		switch {
		case p == 0:
			s.style = tcell.StyleDefault
		case p == 1:
			s.style = s.style.Bold(true)
		case p == 2:
			s.style = s.style.Dim(true)
		case p == 3:
			s.style = s.style.Italic(true)
		case p == 4:
			s.style = s.style.Underline(true)
		case p == 5:
			s.style = s.style.Blink(true)
		case p == 9:
			s.style = s.style.StrikeThrough(true)
		case p == 22:
			s.style = s.style.Bold(false).Dim(false)
		case p == 23:
			s.style = s.style.Italic(false)
		case p == 24:
			s.style = s.style.Underline(false)
		case p == 25:
			s.style = s.style.Blink(false)
		case p == 29:
			s.style = s.style.StrikeThrough(false)
		case p >= 30 && p <= 37:
			s.style = s.style.Foreground(tcell.PaletteColor(p - 30))
		case p == 39:
			s.style = s.style.Foreground(tcell.ColorDefault)
		case p >= 40 && p <= 47:
			s.style = s.style.Background(tcell.PaletteColor(p - 40))
		case p == 49:
			s.style = s.style.Background(tcell.ColorDefault)
		}
	}
}

// Cursor returns the 1-based cursor position
func (s *Screen) Cursor() (col, row int) {
	return s.cx + 1, s.cy + 1
}

// Cell returns the cell at the 1-based position
func (s *Screen) Cell(col, row int) (Cell, error) {
	if col < 1 || col > s.width || row < 1 || row > s.height {
		return Cell{}, fmt.Errorf("cell (%d,%d) outside %dx%d screen", col, row, s.width, s.height)
	}
	return s.buffer()[row-1][col-1], nil
}

// Line returns the text of the 1-based row, full width
func (s *Screen) Line(row int) string {
	if row < 1 || row > s.height {
		return ""
	}
	var b strings.Builder
	for _, c := range s.buffer()[row-1] {
		if c.Char != 0 {
			b.WriteRune(c.Char)
		}
	}
	return b.String()
}

// Lines returns every row of the active buffer
func (s *Screen) Lines() []string {
	lines := make([]string, s.height)
	for i := range lines {
		lines[i] = s.Line(i + 1)
	}
	return lines
}

// String returns the active buffer with trailing blanks trimmed from each row
func (s *Screen) String() string {
	lines := s.Lines()
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// AltActive reports whether the alternate buffer is shown
func (s *Screen) AltActive() bool {
	return s.useAlt
}

// Dropped returns how many runes were written past the right edge
func (s *Screen) Dropped() int {
	return s.dropped
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
