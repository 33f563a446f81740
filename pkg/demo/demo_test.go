package demo

import (
	"strings"
	"testing"

	"termapp/pkg/app"
	"termapp/pkg/config"
	"termapp/pkg/terminal"
)

const (
	cols = 40
	rows = 12
)

func render(t *testing.T, keys string) *terminal.Screen {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Width = cols
	settings.Height = rows
	screen, _, err := app.RunHeadless(settings, Build, []byte(keys))
	if err != nil {
		t.Fatalf("RunHeadless(%q) error = %v", keys, err)
	}
	return screen
}

func TestBuild_Views(t *testing.T) {
	screen := render(t, "")
	if got := screen.Line(2); !strings.Contains(got, "termapp") {
		t.Errorf("home heading = %q, want termapp", got)
	}
	if got := screen.Line(4); !strings.Contains(got, "Type a command") {
		t.Errorf("home text = %q", got)
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		keys    string
		row     int
		want    string
		notWant string
	}{
		{"help", "help\r", 2, "Commands", ""},
		{"help lists clear", "help\r", 7, "clear", ""},
		{"home after help", "help\rhome\r", 2, "termapp", "Commands"},
		{"unknown goes to log", "foo\r", 4, "1 foo", ""},
		{"second log line", "foo\rbar\r", 5, "2 bar", ""},
		{"clear empties log", "foo\rclear\r", 4, "", "foo"},
		{"log command", "help\rlog\r", 2, "Log", ""},
		{"right arrow cycles", "\x1b[C", 2, "Commands", ""},
		{"left arrow wraps", "\x1b[D", 2, "Log", ""},
		{"history recall", "foo\r\x1b[A", rows - 1, "> foo", ""},
		{"history forward clears", "foo\r\x1b[A\x1b[B", rows - 1, "", "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := render(t, tt.keys)
			line := screen.Line(tt.row)
			if tt.want != "" && !strings.Contains(line, tt.want) {
				t.Errorf("line %d = %q, want it to contain %q", tt.row, line, tt.want)
			}
			if tt.notWant != "" && strings.Contains(line, tt.notWant) {
				t.Errorf("line %d = %q, should not contain %q", tt.row, line, tt.notWant)
			}
		})
	}
}

func TestLogKeepsNewestLines(t *testing.T) {
	// the log view has rows-4 rows, two of them used by the heading
	capacity := rows - 4 - 2
	var keys strings.Builder
	for i := 0; i < capacity+2; i++ {
		keys.WriteString(string(rune('a'+i)) + "\r")
	}
	screen := render(t, keys.String())

	if got := screen.Line(4); !strings.Contains(got, "3 c") {
		t.Errorf("first log line = %q, want the third entry", got)
	}
	last := 4 + capacity - 1
	want := string(rune('a' + capacity + 1))
	if got := screen.Line(last); !strings.Contains(got, want) {
		t.Errorf("last log line = %q, want %q", got, want)
	}
}
