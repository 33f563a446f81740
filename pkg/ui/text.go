package ui

import (
	"termapp/pkg/style"
)

// Alignment is the horizontal placement of a line of text
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

// String returns the string representation of the alignment
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	default:
		return "unknown"
	}
}

// CenterOffset returns the column offset of a line of total cells centered
// in width cells. Both halves use truncating division, so odd lengths lean left.
func CenterOffset(width, total int) int {
	return width/2 - total/2
}

// drawLine prints segs on the 1-based row vpos of the surface bounds
func drawLine(s Surface, align Alignment, vpos int, segs []style.Segment) {
	r := s.Bounds()
	row := r.Origin().Row + vpos - 1
	col := r.Origin().Col
	if align == AlignCenter {
		col += CenterOffset(r.Width(), style.Width(segs...))
	}
	for _, seg := range segs {
		s.PrintAt(col, row, seg)
		col += seg.Len()
	}
}

// Text is a single line of segments
type Text struct {
	node
	value []style.Segment
	align Alignment
	vpos  int
}

// NewText creates a text element on row vpos (1-based) of its parent
func NewText(align Alignment, vpos int, value ...style.Segment) *Text {
	return &Text{value: copySegments(value), align: align, vpos: vpos}
}

// Value returns a copy of the segments
func (t *Text) Value() []style.Segment {
	return copySegments(t.value)
}

// Alignment returns the alignment
func (t *Text) Alignment() Alignment {
	return t.align
}

// VPosition returns the 1-based row within the parent
func (t *Text) VPosition() int {
	return t.vpos
}

// Draw paints the text on s
func (t *Text) Draw(s Surface) {
	drawLine(s, t.align, t.vpos, t.value)
}

// UpdateValue replaces the segments and repaints the owning canvas so no
// cells of the old value remain
func (t *Text) UpdateValue(value ...style.Segment) error {
	t.value = copySegments(value)
	if t.owner == nil {
		return nil
	}
	return t.owner.Refresh()
}

// MultilineText is a block of lines; line i is drawn on row vpos+i
type MultilineText struct {
	node
	lines [][]style.Segment
	align Alignment
	vpos  int
}

// NewMultilineText creates a multi-line element starting at row vpos
func NewMultilineText(align Alignment, vpos int, lines ...[]style.Segment) *MultilineText {
	return &MultilineText{lines: copyLines(lines), align: align, vpos: vpos}
}

// Lines returns a copy of the lines
func (m *MultilineText) Lines() [][]style.Segment {
	return copyLines(m.lines)
}

// Draw paints each line on its own row with the element's alignment
func (m *MultilineText) Draw(s Surface) {
	for i, line := range m.lines {
		drawLine(s, m.align, m.vpos+i, line)
	}
}

// UpdateValue replaces all lines and repaints the owning canvas
func (m *MultilineText) UpdateValue(lines ...[]style.Segment) error {
	m.lines = copyLines(lines)
	if m.owner == nil {
		return nil
	}
	return m.owner.Refresh()
}

func copySegments(segs []style.Segment) []style.Segment {
	out := make([]style.Segment, len(segs))
	copy(out, segs)
	return out
}

func copyLines(lines [][]style.Segment) [][]style.Segment {
	out := make([][]style.Segment, len(lines))
	for i, l := range lines {
		out[i] = copySegments(l)
	}
	return out
}
