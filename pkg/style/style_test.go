package style

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestPlain(t *testing.T) {
	p := Plain("hello")
	if p.Len() != 5 {
		t.Errorf("Len() = %d, want 5", p.Len())
	}
	if p.Render() != "hello" {
		t.Errorf("Render() = %q, want %q", p.Render(), "hello")
	}
	if got := p.Slice(1, 3).Text(); got != "el" {
		t.Errorf("Slice(1, 3) = %q, want %q", got, "el")
	}
}

func TestWideRunes(t *testing.T) {
	p := Plain("a世b")
	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}

	tests := []struct {
		from, to int
		want     string
	}{
		{0, 4, "a世b"},
		{0, 2, "a"},
		{1, 3, "世"},
		{2, 4, "b"},
		{0, 0, ""},
		{3, 1, ""},
	}
	for _, tt := range tests {
		if got := p.Slice(tt.from, tt.to).Text(); got != tt.want {
			t.Errorf("Slice(%d, %d) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStyledRender(t *testing.T) {
	red, _ := ColorByName("red")
	white, _ := ColorByName("white")
	def, _ := ColorByName("default")

	tests := []struct {
		name string
		seg  *Styled
		want string
	}{
		{"unstyled", New("x"), "x"},
		{"fg", New("x", Fg(red)), "\x1b[31mx\x1b[39;49;0m"},
		{"fg bg", New("x", Fg(red), Bg(white)), "\x1b[31;47mx\x1b[39;49;0m"},
		{"default", New("x", Fg(def)), "\x1b[39mx\x1b[39;49;0m"},
		{"attrs ordered", New("x", Attrs(tcell.AttrStrikeThrough|tcell.AttrBold|tcell.AttrUnderline)), "\x1b[1;4;9mx\x1b[39;49;0m"},
		{"all attrs", New("x", Attrs(tcell.AttrBold|tcell.AttrDim|tcell.AttrItalic|tcell.AttrUnderline|tcell.AttrBlink|tcell.AttrStrikeThrough)), "\x1b[1;2;3;4;5;9mx\x1b[39;49;0m"},
		{"non-basic color ignored", New("x", Fg(tcell.ColorOrange)), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyledSliceKeepsStyle(t *testing.T) {
	red, _ := ColorByName("red")
	s := New("Styledstring", Fg(red))

	sub := s.Slice(3, 6)
	if sub.Text() != "led" {
		t.Errorf("Slice(3, 6).Text() = %q, want %q", sub.Text(), "led")
	}
	if got, want := sub.Render(), "\x1b[31mled\x1b[39;49;0m"; got != want {
		t.Errorf("Slice(3, 6).Render() = %q, want %q", got, want)
	}
	if sub.Len() != 3 {
		t.Errorf("Slice(3, 6).Len() = %d, want 3", sub.Len())
	}
	if s.Text() != "Styledstring" {
		t.Errorf("original text changed to %q", s.Text())
	}
}

func TestStyledStyle(t *testing.T) {
	blue, _ := ColorByName("blue")
	s := New("x", Fg(blue), Attrs(tcell.AttrBold))
	fg, _, attrs := s.Style().Decompose()
	if fg != blue {
		t.Errorf("Style() foreground = %v, want %v", fg, blue)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("Style() missing bold attribute")
	}
}

func TestLookups(t *testing.T) {
	for _, name := range []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white", "default", "RED"} {
		if _, ok := ColorByName(name); !ok {
			t.Errorf("ColorByName(%q) not found", name)
		}
	}
	if _, ok := ColorByName("orange"); ok {
		t.Error("ColorByName(orange) found, want missing")
	}

	for _, name := range []string{"bold", "faint", "italic", "underline", "blink", "strike"} {
		if _, ok := AttrByName(name); !ok {
			t.Errorf("AttrByName(%q) not found", name)
		}
	}
	if _, ok := AttrByName("reverse"); ok {
		t.Error("AttrByName(reverse) found, want missing")
	}
}

func TestWidth(t *testing.T) {
	segs := Strings("AB", "CDE")
	if got := Width(segs...); got != 5 {
		t.Errorf("Width() = %d, want 5", got)
	}
	if got := Width(); got != 0 {
		t.Errorf("Width() = %d, want 0", got)
	}
}
