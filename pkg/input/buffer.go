package input

import "github.com/mattn/go-runewidth"

// Buffer is a bounded line edit buffer. Its display width never exceeds
// Max cells.
type Buffer struct {
	runes []rune
	width int
	max   int
}

// NewBuffer creates a buffer holding at most max cells
func NewBuffer(max int) *Buffer {
	if max < 0 {
		max = 0
	}
	return &Buffer{max: max}
}

// Insert appends r and reports whether it fit. Zero-width runes are
// rejected.
func (b *Buffer) Insert(r rune) bool {
	w := runewidth.RuneWidth(r)
	if w == 0 || b.width+w > b.max {
		return false
	}
	b.runes = append(b.runes, r)
	b.width += w
	return true
}

// Backspace removes the last rune and reports whether one was removed
func (b *Buffer) Backspace() bool {
	_, ok := b.pop()
	return ok
}

func (b *Buffer) pop() (rune, bool) {
	if len(b.runes) == 0 {
		return 0, false
	}
	r := b.runes[len(b.runes)-1]
	b.runes = b.runes[:len(b.runes)-1]
	b.width -= runewidth.RuneWidth(r)
	return r, true
}

// Set replaces the contents with s, truncated to Max cells
func (b *Buffer) Set(s string) {
	b.Clear()
	for _, r := range s {
		if !b.Insert(r) {
			break
		}
	}
}

// Clear empties the buffer
func (b *Buffer) Clear() {
	b.runes = b.runes[:0]
	b.width = 0
}

// SetMax changes the capacity, dropping runes past the new limit
func (b *Buffer) SetMax(max int) {
	if max < 0 {
		max = 0
	}
	b.max = max
	for b.width > max {
		b.pop()
	}
}

// String returns the buffer contents
func (b *Buffer) String() string {
	return string(b.runes)
}

// Len returns the number of runes
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Width returns the display width in cells
func (b *Buffer) Width() int {
	return b.width
}

// Max returns the capacity in cells
func (b *Buffer) Max() int {
	return b.max
}
