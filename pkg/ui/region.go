// Package ui provides regions, canvases and the text elements drawn on them
package ui

import "fmt"

// Point is a 1-based cell position
type Point struct {
	Col int
	Row int
}

// Region is a rectangle of cells. It is a value type; corners are derived
// from the origin and size on every call.
type Region struct {
	origin Point
	width  int
	height int
}

// NewRegion creates a region with its top-left cell at (col, row).
// Negative sizes are treated as zero.
func NewRegion(col, row, width, height int) Region {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Region{origin: Point{Col: col, Row: row}, width: width, height: height}
}

// Origin returns the top-left cell
func (r Region) Origin() Point { return r.origin }

// Width returns the number of columns
func (r Region) Width() int { return r.width }

// Height returns the number of rows
func (r Region) Height() int { return r.height }

// Empty reports whether the region covers no cells
func (r Region) Empty() bool {
	return r.width == 0 || r.height == 0
}

// TopLeft is the same cell as Origin
func (r Region) TopLeft() Point {
	return r.origin
}

// TopRight returns the last cell of the first row
func (r Region) TopRight() Point {
	return Point{Col: r.origin.Col + r.width - 1, Row: r.origin.Row}
}

// BottomLeft returns the first cell of the last row
func (r Region) BottomLeft() Point {
	return Point{Col: r.origin.Col, Row: r.origin.Row + r.height - 1}
}

// BottomRight returns the last cell of the last row
func (r Region) BottomRight() Point {
	return Point{Col: r.origin.Col + r.width - 1, Row: r.origin.Row + r.height - 1}
}

// Offset returns the region moved by dcol columns and drow rows
func (r Region) Offset(dcol, drow int) Region {
	return NewRegion(r.origin.Col+dcol, r.origin.Row+drow, r.width, r.height)
}

// Inset returns the region shrunk by n cells on every side
func (r Region) Inset(n int) Region {
	return NewRegion(r.origin.Col+n, r.origin.Row+n, r.width-2*n, r.height-2*n)
}

// Contains reports whether the cell (col, row) lies inside the region
func (r Region) Contains(col, row int) bool {
	return col >= r.origin.Col && col < r.origin.Col+r.width &&
		row >= r.origin.Row && row < r.origin.Row+r.height
}

// Intersect returns the overlap of r and o, which may be empty
func (r Region) Intersect(o Region) Region {
	left := max(r.origin.Col, o.origin.Col)
	top := max(r.origin.Row, o.origin.Row)
	right := min(r.origin.Col+r.width, o.origin.Col+o.width)
	bottom := min(r.origin.Row+r.height, o.origin.Row+o.height)
	return NewRegion(left, top, right-left, bottom-top)
}

// String returns the region as (col,row WxH)
func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.origin.Col, r.origin.Row, r.width, r.height)
}
