// Package style provides text segments that know their display width and
// how to wrap themselves in SGR escape sequences
package style

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Segment is a run of text drawn with a single style
type Segment interface {
	// Len returns the display width in cells, escapes excluded
	Len() int
	// Text returns the bare text
	Text() string
	// Render returns the text wrapped in its escape sequences
	Render() string
	// Slice returns the cells in [from, to) as a segment with the same style
	Slice(from, to int) Segment
}

// Plain is an unstyled segment
type Plain string

func (p Plain) Len() int {
	return runewidth.StringWidth(string(p))
}

func (p Plain) Text() string {
	return string(p)
}

func (p Plain) Render() string {
	return string(p)
}

func (p Plain) Slice(from, to int) Segment {
	return Plain(sliceColumns(string(p), from, to))
}

// Width returns the total display width of segs
func Width(segs ...Segment) int {
	total := 0
	for _, s := range segs {
		total += s.Len()
	}
	return total
}

// Strings converts plain strings to segments
func Strings(values ...string) []Segment {
	segs := make([]Segment, len(values))
	for i, v := range values {
		segs[i] = Plain(v)
	}
	return segs
}

// sliceColumns keeps the runes that lie entirely inside columns [from, to).
// A wide rune cut by either edge is dropped.
func sliceColumns(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to <= from {
		return ""
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if col >= from && col+w <= to {
			b.WriteRune(r)
		}
		col += w
		if col >= to {
			break
		}
	}
	return b.String()
}

// colorNames maps the basic SGR colors to the first eight palette entries
var colorNames = map[string]tcell.Color{
	"black":   tcell.ColorBlack,
	"red":     tcell.ColorMaroon,
	"green":   tcell.ColorGreen,
	"yellow":  tcell.ColorOlive,
	"blue":    tcell.ColorNavy,
	"magenta": tcell.ColorPurple,
	"cyan":    tcell.ColorTeal,
	"white":   tcell.ColorSilver,
	"default": tcell.ColorDefault,
}

var colorCodes = map[tcell.Color]int{
	tcell.ColorBlack:   0,
	tcell.ColorMaroon:  1,
	tcell.ColorGreen:   2,
	tcell.ColorOlive:   3,
	tcell.ColorNavy:    4,
	tcell.ColorPurple:  5,
	tcell.ColorTeal:    6,
	tcell.ColorSilver:  7,
	tcell.ColorDefault: 9,
}

// ColorByName looks up one of the eight basic colors or "default"
func ColorByName(name string) (tcell.Color, bool) {
	c, ok := colorNames[strings.ToLower(name)]
	return c, ok
}

// attrCodes lists supported attributes in emission order
var attrCodes = []struct {
	mask tcell.AttrMask
	code int
	name string
}{
	{tcell.AttrBold, 1, "bold"},
	{tcell.AttrDim, 2, "faint"},
	{tcell.AttrItalic, 3, "italic"},
	{tcell.AttrUnderline, 4, "underline"},
	{tcell.AttrBlink, 5, "blink"},
	{tcell.AttrStrikeThrough, 9, "strike"},
}

// AttrByName looks up an attribute by its name (bold, faint, italic,
// underline, blink, strike)
func AttrByName(name string) (tcell.AttrMask, bool) {
	name = strings.ToLower(name)
	for _, a := range attrCodes {
		if a.name == name {
			return a.mask, true
		}
	}
	return 0, false
}
