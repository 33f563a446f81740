package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"termapp/pkg/style"
)

// Border draws a box around its parent's region with a title in the top
// edge and, when Divider is set, a separator above the last inner row:
//
//	┌╴title╶───┐
//	│          │
//	├──────────┤
//	│          │
//	└──────────┘
type Border struct {
	node
	Title   string
	Divider bool
}

// NewBorder creates a border with a title and a divider
func NewBorder(title string) *Border {
	return &Border{Title: title, Divider: true}
}

// Draw paints the frame around the surface bounds
func (b *Border) Draw(s Surface) {
	r := s.Bounds()
	w, h := r.Width(), r.Height()
	if w < 2 || h < 2 {
		return
	}
	o := r.Origin()
	inner := w - 2

	s.PrintAt(o.Col, o.Row, style.Plain(b.top(inner)))
	for row := o.Row + 1; row < o.Row+h-1; row++ {
		s.PrintAt(o.Col, row, style.Plain("│"))
		s.PrintAt(o.Col+w-1, row, style.Plain("│"))
	}
	if b.Divider && h > 3 {
		s.PrintAt(o.Col, o.Row+h-3, style.Plain("├"+strings.Repeat("─", inner)+"┤"))
	}
	s.PrintAt(o.Col, o.Row+h-1, style.Plain("└"+strings.Repeat("─", inner)+"┘"))
}

func (b *Border) top(inner int) string {
	title := b.Title
	if title == "" || inner < 3 {
		return "┌" + strings.Repeat("─", inner) + "┐"
	}
	title = runewidth.Truncate(title, inner-2, "")
	fill := inner - 2 - runewidth.StringWidth(title)
	return "┌╴" + title + "╶" + strings.Repeat("─", fill) + "┐"
}
