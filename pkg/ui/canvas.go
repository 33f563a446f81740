package ui

import (
	"strings"

	"termapp/pkg/device"
	"termapp/pkg/style"
)

// node records which canvas owns a drawable
type node struct {
	owner *Canvas
}

func (n *node) parent() *Canvas { return n.owner }
func (n *node) setParent(c *Canvas) { n.owner = c }
// Parent returns the canvas that owns the element, or nil
func (n *node) Parent() *Canvas { return n.owner }

// owned is implemented by drawables that track their parent
type owned interface {
	parent() *Canvas
	setParent(c *Canvas)
}

// Canvas is a region of the screen with a blank background and an ordered
// list of children. Children are drawn in insertion order, so later
// children overlay earlier ones. A drawable belongs to at most one canvas.
type Canvas struct {
	node
	dev      *device.Device
	region   Region
	fill     []style.Segment
	children []Drawable
}

// NewCanvas creates an empty canvas covering r on dev
func NewCanvas(dev *device.Device, r Region) *Canvas {
	c := &Canvas{dev: dev, region: r}
	c.Clear()
	return c
}

// Region returns the canvas region
func (c *Canvas) Region() Region {
	return c.region
}

// Device returns the device the canvas refreshes to
func (c *Canvas) Device() *device.Device {
	return c.dev
}

// Children returns a copy of the child list in drawing order
func (c *Canvas) Children() []Drawable {
	out := make([]Drawable, len(c.children))
	copy(out, c.children)
	return out
}

// AddChild appends d to the drawing order. A child owned by another canvas
// is detached from it first; a child already on this canvas moves to the end.
// The canvas itself or one of its ancestors is ignored.
func (c *Canvas) AddChild(d Drawable) {
	if d == nil || c.encloses(d) {
		return
	}
	if o, ok := d.(owned); ok {
		if p := o.parent(); p != nil {
			p.RemoveChild(d)
		}
		o.setParent(c)
	} else {
		c.remove(d)
	}
	c.children = append(c.children, d)
}

// encloses reports whether d is c or an ancestor of c
func (c *Canvas) encloses(d Drawable) bool {
	sc, ok := d.(interface{ canvas() *Canvas })
	if !ok {
		return false
	}
	target := sc.canvas()
	for p := c; p != nil; p = p.owner {
		if p == target {
			return true
		}
	}
	return false
}

func (c *Canvas) canvas() *Canvas { return c }

// AddChildren appends each drawable in order
func (c *Canvas) AddChildren(ds ...Drawable) {
	for _, d := range ds {
		c.AddChild(d)
	}
}

// RemoveChild detaches d and reports whether it was a child
func (c *Canvas) RemoveChild(d Drawable) bool {
	if !c.remove(d) {
		return false
	}
	if o, ok := d.(owned); ok && o.parent() == c {
		o.setParent(nil)
	}
	return true
}

func (c *Canvas) remove(d Drawable) bool {
	for i, child := range c.children {
		if child == d {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// Clear resets the background to blanks. Children are kept.
func (c *Canvas) Clear() {
	blank := style.Plain(strings.Repeat(" ", c.region.Width()))
	c.fill = make([]style.Segment, c.region.Height())
	for i := range c.fill {
		c.fill[i] = blank
	}
}

// MakeCopy returns a new canvas with the same region and device and no children
func (c *Canvas) MakeCopy() *Canvas {
	return NewCanvas(c.dev, c.region)
}

// Surface returns a surface clipped to the canvas region
func (c *Canvas) Surface() Surface {
	return NewSurface(c.dev, c.region)
}

// Refresh repaints the background and then every child
func (c *Canvas) Refresh() error {
	c.paint(c.Surface())
	return c.dev.Err()
}

// Draw paints the canvas as a child of another canvas, clipped to both regions
func (c *Canvas) Draw(s Surface) {
	c.paint(s.Sub(c.region))
}

func (c *Canvas) paint(s Surface) {
	o := c.region.Origin()
	for i, line := range c.fill {
		s.PrintAt(o.Col, o.Row+i, line)
	}
	for _, child := range c.children {
		child.Draw(s)
	}
}
