package ui

import (
	"github.com/mattn/go-runewidth"

	"termapp/pkg/device"
	"termapp/pkg/input"
	"termapp/pkg/style"
)

// DefaultLeader is the glyph shown before the command line
const DefaultLeader = ">"

// Prompt is a one-line canvas showing a leader glyph followed by the edit
// buffer
type Prompt struct {
	*Canvas
	leader string
	buf    *input.Buffer
}

// NewPrompt creates a prompt on the first row of r. The buffer holds at
// most width - len(leader) - 2 cells, leaving room for the separating
// space and the cursor.
func NewPrompt(dev *device.Device, r Region, leader string) *Prompt {
	if leader == "" {
		leader = DefaultLeader
	}
	r = NewRegion(r.Origin().Col, r.Origin().Row, r.Width(), 1)
	p := &Prompt{
		Canvas: NewCanvas(dev, r),
		leader: leader,
	}
	p.buf = input.NewBuffer(p.MaxLen())
	p.sync()
	return p
}

// Leader returns the leader glyph
func (p *Prompt) Leader() string {
	return p.leader
}

// MinLen is the width of the leader plus its separating space
func (p *Prompt) MinLen() int {
	return runewidth.StringWidth(p.leader) + 1
}

// MaxLen is the capacity of the edit buffer
func (p *Prompt) MaxLen() int {
	return max(p.region.Width()-runewidth.StringWidth(p.leader)-2, 0)
}

// Buffer returns the edit buffer
func (p *Prompt) Buffer() *input.Buffer {
	return p.buf
}

// Content returns the full line as it is drawn
func (p *Prompt) Content() string {
	return runewidth.FillRight(p.leader+" "+p.buf.String(), p.region.Width())
}

// CursorColumn returns the column just after the buffer text
func (p *Prompt) CursorColumn() int {
	return p.region.Origin().Col + p.MinLen() + p.buf.Width()
}

// Clear empties the edit buffer and resets the line to the leader
func (p *Prompt) Clear() {
	p.buf.Clear()
	p.sync()
}

func (p *Prompt) sync() {
	p.fill = []style.Segment{style.Plain(p.Content())}
}

// Refresh repaints the line and, if captureCursor is set, leaves the cursor
// after the buffer text
func (p *Prompt) Refresh(captureCursor bool) error {
	p.sync()
	if err := p.Canvas.Refresh(); err != nil {
		return err
	}
	if captureCursor {
		return p.dev.MoveCursor(p.CursorColumn(), p.region.Origin().Row)
	}
	return nil
}

// Draw paints the prompt line as a child of another canvas
func (p *Prompt) Draw(s Surface) {
	p.sync()
	p.Canvas.Draw(s)
}
