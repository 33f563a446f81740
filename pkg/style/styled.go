package style

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"termapp/pkg/device"
)

// Styled is a segment with foreground, background and attributes
type Styled struct {
	text  string
	fg    tcell.Color
	bg    tcell.Color
	fgSet bool
	bgSet bool
	attrs tcell.AttrMask
}

// Option sets part of a segment's style
type Option func(*Styled)

// Fg sets the foreground color. Colors outside the basic eight and the
// default are ignored.
func Fg(c tcell.Color) Option {
	return func(s *Styled) {
		if _, ok := colorCodes[c]; ok {
			s.fg, s.fgSet = c, true
		}
	}
}

// Bg sets the background color
func Bg(c tcell.Color) Option {
	return func(s *Styled) {
		if _, ok := colorCodes[c]; ok {
			s.bg, s.bgSet = c, true
		}
	}
}

// Attrs adds attributes
func Attrs(a tcell.AttrMask) Option {
	return func(s *Styled) {
		s.attrs |= a
	}
}

// New creates a styled segment
func New(text string, opts ...Option) *Styled {
	s := &Styled{text: text, fg: tcell.ColorDefault, bg: tcell.ColorDefault}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Styled) Len() int {
	return runewidth.StringWidth(s.text)
}

func (s *Styled) Text() string {
	return s.text
}

// Render wraps the text in its SGR prefix and the reset suffix. A segment
// with no style renders as bare text.
func (s *Styled) Render() string {
	params := s.params()
	if len(params) == 0 {
		return s.text
	}
	return device.SGR(params...) + s.text + device.SGRReset
}

func (s *Styled) Slice(from, to int) Segment {
	c := *s
	c.text = sliceColumns(s.text, from, to)
	return &c
}

// Style returns the equivalent tcell style
func (s *Styled) Style() tcell.Style {
	return tcell.StyleDefault.Foreground(s.fg).Background(s.bg).Attributes(s.attrs)
}

func (s *Styled) params() []int {
	var params []int
	if s.fgSet {
		params = append(params, 30+colorCodes[s.fg])
	}
	if s.bgSet {
		params = append(params, 40+colorCodes[s.bg])
	}
	for _, a := range attrCodes {
		if s.attrs&a.mask != 0 {
			params = append(params, a.code)
		}
	}
	return params
}
