package ui

import (
	"termapp/pkg/device"
	"termapp/pkg/style"
)

// Surface is where Drawables paint. Bounds is the layout region; output
// outside the surface's clip rectangle is truncated.
type Surface interface {
	Bounds() Region
	// PrintAt prints seg with its first cell at (col, row)
	PrintAt(col, row int, seg style.Segment)
	// Sub returns a surface laid out on r and clipped to r and the
	// current clip rectangle
	Sub(r Region) Surface
}

// Drawable is anything that can paint itself onto a Surface
type Drawable interface {
	Draw(s Surface)
}

type deviceSurface struct {
	dev    *device.Device
	bounds Region
	clip   Region
}

// NewSurface returns a surface drawing to dev within r
func NewSurface(dev *device.Device, r Region) Surface {
	return &deviceSurface{dev: dev, bounds: r, clip: r}
}

func (s *deviceSurface) Bounds() Region {
	return s.bounds
}

func (s *deviceSurface) Sub(r Region) Surface {
	return &deviceSurface{dev: s.dev, bounds: r, clip: s.clip.Intersect(r)}
}

func (s *deviceSurface) PrintAt(col, row int, seg style.Segment) {
	if seg == nil || s.clip.Empty() {
		return
	}
	top := s.clip.Origin().Row
	if row < top || row >= top+s.clip.Height() {
		return
	}

	n := seg.Len()
	left := s.clip.Origin().Col
	right := left + s.clip.Width()
	from, to := max(col, left), min(col+n, right)
	if from >= to {
		return
	}
	if from != col || to != col+n {
		seg = seg.Slice(from-col, to-col)
		if seg.Len() == 0 {
			return
		}
		// a wide rune cut at the left edge shifts the slice right
		if lead := to - from - seg.Len(); lead > 0 && from > col {
			from += lead
		}
	}

	s.dev.MoveCursor(from, row)
	s.dev.Print(seg.Render())
}
