package ui

import (
	"bytes"
	"strings"
	"testing"

	"termapp/pkg/device"
	"termapp/pkg/style"
	"termapp/pkg/terminal"
)

func TestRegionCorners(t *testing.T) {
	tests := []struct {
		name       string
		r          Region
		tr, bl, br Point
	}{
		{"origin", NewRegion(1, 1, 10, 5), Point{10, 1}, Point{1, 5}, Point{10, 5}},
		{"offset", NewRegion(3, 4, 2, 2), Point{4, 4}, Point{3, 5}, Point{4, 5}},
		{"single cell", NewRegion(7, 7, 1, 1), Point{7, 7}, Point{7, 7}, Point{7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.TopLeft(); got != tt.r.Origin() {
				t.Errorf("TopLeft() = %v, want %v", got, tt.r.Origin())
			}
			if got := tt.r.TopRight(); got != tt.tr {
				t.Errorf("TopRight() = %v, want %v", got, tt.tr)
			}
			if got := tt.r.BottomLeft(); got != tt.bl {
				t.Errorf("BottomLeft() = %v, want %v", got, tt.bl)
			}
			if got := tt.r.BottomRight(); got != tt.br {
				t.Errorf("BottomRight() = %v, want %v", got, tt.br)
			}
			if tt.r.TopRight().Col != tt.r.Origin().Col+tt.r.Width()-1 {
				t.Error("TopRight().Col != Origin().Col+Width()-1")
			}
		})
	}
}

func TestRegionOps(t *testing.T) {
	r := NewRegion(2, 2, 4, 3)

	if !r.Contains(2, 2) || !r.Contains(5, 4) {
		t.Error("Contains() false for a corner cell")
	}
	if r.Contains(6, 2) || r.Contains(2, 5) || r.Contains(1, 2) {
		t.Error("Contains() true for an outside cell")
	}

	got := r.Intersect(NewRegion(4, 1, 10, 2))
	if want := NewRegion(4, 2, 2, 1); got != want {
		t.Errorf("Intersect() = %v, want %v", got, want)
	}
	if !r.Intersect(NewRegion(20, 20, 2, 2)).Empty() {
		t.Error("Intersect() of disjoint regions is not empty")
	}

	if got, want := r.Offset(1, -1), NewRegion(3, 1, 4, 3); got != want {
		t.Errorf("Offset() = %v, want %v", got, want)
	}
	if got, want := NewRegion(1, 1, 10, 5).Inset(1), NewRegion(2, 2, 8, 3); got != want {
		t.Errorf("Inset() = %v, want %v", got, want)
	}
	if NewRegion(1, 1, -3, 2).Width() != 0 {
		t.Error("negative width not clamped to 0")
	}
}

func TestCenterOffset(t *testing.T) {
	tests := []struct {
		width, total, want int
	}{
		{10, 4, 3},
		{11, 4, 3},
		{10, 5, 3},
		{10, 10, 0},
		{9, 0, 4},
	}
	for _, tt := range tests {
		if got := CenterOffset(tt.width, tt.total); got != tt.want {
			t.Errorf("CenterOffset(%d, %d) = %d, want %d", tt.width, tt.total, got, tt.want)
		}
	}
}

func TestCanvasRefreshOutput(t *testing.T) {
	var buf bytes.Buffer
	dev := device.New(&buf, device.FixedSize{Cols: 20, Rows: 1})

	c := NewCanvas(dev, NewRegion(1, 1, 20, 1))
	c.AddChild(NewText(AlignLeft, 1, style.Strings("AB", "CD")...))
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	want := "\x1b[1;1H" + strings.Repeat(" ", 20) + "\x1b[1;1HAB" + "\x1b[1;3HCD"
	if got := buf.String(); got != want {
		t.Errorf("Refresh() output = %q, want %q", got, want)
	}
}

func newScreenCanvas(w, h int) (*terminal.Screen, *device.Device) {
	screen := terminal.NewScreen(w, h)
	return screen, device.New(screen, screen)
}

func TestTextAlignment(t *testing.T) {
	screen, dev := newScreenCanvas(12, 3)
	c := NewCanvas(dev, NewRegion(2, 1, 10, 3))
	c.AddChildren(
		NewText(AlignLeft, 1, style.Plain("left")),
		NewText(AlignCenter, 2, style.Plain("ab"), style.Plain("cd")),
	)
	c.Refresh()

	if got := screen.Line(1); got != " left       " {
		t.Errorf("Line(1) = %q, want %q", got, " left       ")
	}
	// origin col 2 + offset 3
	if got := screen.Line(2); got != "    abcd    " {
		t.Errorf("Line(2) = %q, want %q", got, "    abcd    ")
	}
}

func TestTextStyledLength(t *testing.T) {
	var buf bytes.Buffer
	dev := device.New(&buf, nil)
	c := NewCanvas(dev, NewRegion(1, 1, 10, 1))
	c.fill = nil

	red, _ := style.ColorByName("red")
	c.AddChild(NewText(AlignLeft, 1, style.New("AB", style.Fg(red)), style.Plain("C")))
	c.Refresh()

	want := "\x1b[1;1H\x1b[31mAB\x1b[39;49;0m\x1b[1;3HC"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTruncateToRegion(t *testing.T) {
	screen, dev := newScreenCanvas(10, 3)
	c := NewCanvas(dev, NewRegion(3, 2, 4, 1))
	c.AddChildren(
		NewText(AlignLeft, 1, style.Plain("overflowing")),
		NewText(AlignLeft, 2, style.Plain("below")),
	)
	c.Refresh()

	want := "\n  over\n"
	if got := screen.String(); got != want {
		t.Errorf("screen = %q, want %q", got, want)
	}
	if screen.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", screen.Dropped())
	}
}

func TestCenterWiderThanRegion(t *testing.T) {
	screen, dev := newScreenCanvas(6, 1)
	c := NewCanvas(dev, NewRegion(2, 1, 4, 1))
	c.AddChild(NewText(AlignCenter, 1, style.Plain("abcdefgh")))
	c.Refresh()

	// offset 2-4 = -2 cuts two cells on the left
	if got := screen.Line(1); got != " cdef " {
		t.Errorf("Line(1) = %q, want %q", got, " cdef ")
	}
}

func TestNestedCanvasClipping(t *testing.T) {
	screen, dev := newScreenCanvas(8, 3)
	parent := NewCanvas(dev, NewRegion(1, 1, 4, 2))
	child := NewCanvas(dev, NewRegion(3, 2, 5, 2))
	child.AddChild(NewText(AlignLeft, 1, style.Plain("xyzzy")))
	parent.AddChild(child)

	fill := strings.Repeat("#", 8)
	for row := 1; row <= 3; row++ {
		dev.MoveCursor(1, row)
		dev.Print(fill)
	}
	parent.Refresh()

	want := []string{"    ####", "  xy####", "########"}
	for i, w := range want {
		if got := screen.Line(i + 1); got != w {
			t.Errorf("Line(%d) = %q, want %q", i+1, got, w)
		}
	}
}

func TestOverlayLastDrawnWins(t *testing.T) {
	screen, dev := newScreenCanvas(6, 1)
	c := NewCanvas(dev, NewRegion(1, 1, 6, 1))
	c.AddChildren(
		NewText(AlignLeft, 1, style.Plain("aaaaaa")),
		NewText(AlignCenter, 1, style.Plain("bb")),
	)
	c.Refresh()

	if got := screen.Line(1); got != "aabbaa" {
		t.Errorf("Line(1) = %q, want %q", got, "aabbaa")
	}
}

func TestCanvasOwnership(t *testing.T) {
	dev := device.New(&bytes.Buffer{}, nil)
	a := NewCanvas(dev, NewRegion(1, 1, 5, 1))
	b := NewCanvas(dev, NewRegion(1, 2, 5, 1))
	t1 := NewText(AlignLeft, 1, style.Plain("one"))
	t2 := NewText(AlignLeft, 1, style.Plain("two"))

	a.AddChildren(t1, t2)
	b.AddChild(t1)
	if len(a.Children()) != 1 || a.Children()[0] != Drawable(t2) {
		t.Errorf("a.Children() = %v, want only t2", a.Children())
	}
	if t1.Parent() != b {
		t.Error("t1.Parent() is not b")
	}

	b.AddChild(t2)
	b.AddChild(t1)
	kids := b.Children()
	if len(kids) != 2 || kids[0] != Drawable(t2) || kids[1] != Drawable(t1) {
		t.Errorf("re-adding did not move t1 to the end: %v", kids)
	}

	if !b.RemoveChild(t1) || t1.Parent() != nil {
		t.Error("RemoveChild(t1) did not detach it")
	}
	if b.RemoveChild(t1) {
		t.Error("RemoveChild() of a non-child = true")
	}
}

func TestCanvasRejectsCycles(t *testing.T) {
	screen, dev := newScreenCanvas(6, 2)
	root := NewCanvas(dev, NewRegion(1, 1, 6, 2))
	mid := NewCanvas(dev, NewRegion(1, 1, 6, 2))
	leaf := NewCanvas(dev, NewRegion(1, 2, 6, 1))
	root.AddChild(mid)
	mid.AddChild(leaf)
	leaf.AddChild(NewText(AlignLeft, 1, style.Plain("leaf")))

	tests := []struct {
		name  string
		into  *Canvas
		child Drawable
	}{
		{"self", root, root},
		{"parent", leaf, mid},
		{"grandparent", leaf, root},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.into.Children())
			tt.into.AddChild(tt.child)
			if got := len(tt.into.Children()); got != before {
				t.Errorf("len(Children()) = %d, want %d", got, before)
			}
		})
	}

	if mid.Parent() != root || leaf.Parent() != mid {
		t.Error("rejected AddChild changed ownership")
	}
	if err := root.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := screen.Line(2); got != "leaf  " {
		t.Errorf("Line(2) = %q, want %q", got, "leaf  ")
	}

	p := NewPrompt(dev, NewRegion(1, 1, 6, 1), ">")
	p.AddChild(p)
	if len(p.Children()) != 0 {
		t.Error("a prompt accepted itself as a child")
	}
}

func TestUpdateValueNoStaleCells(t *testing.T) {
	screen, dev := newScreenCanvas(10, 1)
	c := NewCanvas(dev, NewRegion(1, 1, 10, 1))
	txt := NewText(AlignLeft, 1, style.Plain("longvalue"))
	c.AddChild(txt)
	c.Refresh()

	if err := txt.UpdateValue(style.Plain("ab")); err != nil {
		t.Fatalf("UpdateValue() error = %v", err)
	}
	if got := screen.Line(1); got != "ab        " {
		t.Errorf("Line(1) = %q, want %q", got, "ab        ")
	}

	orphan := NewText(AlignLeft, 1)
	if err := orphan.UpdateValue(style.Plain("x")); err != nil {
		t.Errorf("UpdateValue() on orphan error = %v", err)
	}
}

func TestMultilineText(t *testing.T) {
	screen, dev := newScreenCanvas(6, 4)
	c := NewCanvas(dev, NewRegion(1, 1, 6, 4))
	m := NewMultilineText(AlignCenter, 2, style.Strings("ab"), style.Strings("c", "de"), nil)
	c.AddChild(m)
	c.Refresh()

	want := []string{"      ", "  ab  ", "  cde ", "      "}
	for i, w := range want {
		if got := screen.Line(i + 1); got != w {
			t.Errorf("Line(%d) = %q, want %q", i+1, got, w)
		}
	}

	m.UpdateValue(style.Strings("zz"))
	if got := screen.Line(3); got != "      " {
		t.Errorf("Line(3) after update = %q, want blank", got)
	}
}

func TestMakeCopy(t *testing.T) {
	dev := device.New(&bytes.Buffer{}, nil)
	c := NewCanvas(dev, NewRegion(2, 2, 5, 5))
	c.AddChild(NewText(AlignLeft, 1))

	cp := c.MakeCopy()
	if cp.Region() != c.Region() {
		t.Errorf("MakeCopy().Region() = %v, want %v", cp.Region(), c.Region())
	}
	if len(cp.Children()) != 0 {
		t.Errorf("MakeCopy() has %d children, want 0", len(cp.Children()))
	}
	if cp.Device() != dev {
		t.Error("MakeCopy() uses a different device")
	}
}

func TestPrompt(t *testing.T) {
	screen, dev := newScreenCanvas(12, 2)
	p := NewPrompt(dev, NewRegion(2, 2, 10, 1), ">")

	if p.MinLen() != 2 {
		t.Errorf("MinLen() = %d, want 2", p.MinLen())
	}
	if p.MaxLen() != 7 || p.Buffer().Max() != 7 {
		t.Errorf("MaxLen() = %d, buffer max %d, want 7", p.MaxLen(), p.Buffer().Max())
	}

	p.Clear()
	first := p.Content()
	p.Clear()
	if p.Content() != first {
		t.Errorf("Clear() is not idempotent: %q vs %q", first, p.Content())
	}
	if first != ">          "[:10] {
		t.Errorf("Content() = %q, want leader and blanks", first)
	}

	p.Refresh(true)
	col, row := screen.Cursor()
	if col != 4 || row != 2 {
		t.Errorf("cursor after clear = %d,%d, want 4,2", col, row)
	}

	p.Buffer().Set("hi")
	p.Refresh(true)
	if got := screen.Line(2); got != " > hi       " {
		t.Errorf("Line(2) = %q, want %q", got, " > hi       ")
	}
	col, _ = screen.Cursor()
	if col != 6 {
		t.Errorf("cursor column = %d, want 6", col)
	}

	p.Buffer().Set("a very long line")
	if p.Buffer().Len() != 7 {
		t.Errorf("buffer length = %d, want 7", p.Buffer().Len())
	}

	p.Buffer().Set("日本語日本")
	if p.Buffer().Width() != 6 {
		t.Errorf("wide buffer width = %d, want 6", p.Buffer().Width())
	}
	if last := p.Region().TopRight().Col; p.CursorColumn() > last {
		t.Errorf("CursorColumn() = %d, past region edge %d", p.CursorColumn(), last)
	}

	if NewPrompt(dev, NewRegion(1, 1, 10, 3), "").Leader() != DefaultLeader {
		t.Error("empty leader did not default")
	}
}

func TestPromptRefreshWithoutCapture(t *testing.T) {
	var buf bytes.Buffer
	dev := device.New(&buf, nil)
	p := NewPrompt(dev, NewRegion(1, 5, 6, 1), ">")
	p.Refresh(false)

	want := "\x1b[5;1H>     "
	if got := buf.String(); got != want {
		t.Errorf("Refresh(false) output = %q, want %q", got, want)
	}
}

func TestBorder(t *testing.T) {
	screen, dev := newScreenCanvas(12, 6)
	c := NewCanvas(dev, NewRegion(1, 1, 12, 6))
	c.AddChild(NewBorder("App"))
	c.Refresh()

	want := []string{
		"┌╴App╶─────┐",
		"│          │",
		"│          │",
		"├──────────┤",
		"│          │",
		"└──────────┘",
	}
	for i, w := range want {
		if got := screen.Line(i + 1); got != w {
			t.Errorf("Line(%d) = %q, want %q", i+1, got, w)
		}
	}
}

func TestBorderLongTitle(t *testing.T) {
	b := &Border{Title: "a very long title"}
	if got, want := b.top(6), "┌╴abcd╶┐"; len([]rune(got)) != len([]rune(want)) {
		t.Errorf("top(6) = %q, want width of %q", got, want)
	}
	if got := b.top(2); got != "┌──┐" {
		t.Errorf("top(2) = %q, want %q", got, "┌──┐")
	}
}

func TestAlignmentString(t *testing.T) {
	if AlignLeft.String() != "left" || AlignCenter.String() != "center" || Alignment(5).String() != "unknown" {
		t.Error("Alignment.String() mismatch")
	}
}
