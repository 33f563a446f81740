// Package demo builds the interactive demo: a home view, a help view and a
// log of everything typed that is not a command
package demo

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"termapp/pkg/app"
	"termapp/pkg/input"
	"termapp/pkg/style"
	"termapp/pkg/ui"
)

// View names
const (
	HomeView = app.DefaultView
	HelpView = "help"
	LogView  = "log"
)

var viewOrder = []string{HomeView, HelpView, LogView}

var commandHelp = [][2]string{
	{"help", "show this list"},
	{"home", "show the start view"},
	{"log", "show typed lines"},
	{"clear", "empty the log"},
	{"up/down", "recall history"},
	{"left/right", "switch views"},
	{"Esc", "quit"},
}

// Demo holds the views and state behind the command table
type Demo struct {
	app  *app.Application
	log  *ui.MultilineText
	seen int
}

// Build registers the demo views on a and returns its command table
func Build(a *app.Application) (app.Commands, error) {
	d := &Demo{app: a}
	if err := d.buildViews(); err != nil {
		return app.Commands{}, err
	}
	return d.Commands(), nil
}

func heading(text string) *ui.Text {
	return ui.NewText(ui.AlignCenter, 1,
		style.New(text, style.Attrs(tcell.AttrBold|tcell.AttrUnderline)))
}

func (d *Demo) buildViews() error {
	home, ok := d.app.View(HomeView)
	if !ok {
		return fmt.Errorf("view %q not found", HomeView)
	}
	home.AddChildren(
		heading("termapp"),
		ui.NewMultilineText(ui.AlignCenter, 3,
			style.Strings("Type a command and press Enter."),
			[]style.Segment{
				style.Plain("Try "),
				style.New("help", style.Fg(tcell.ColorTeal), style.Attrs(tcell.AttrBold)),
				style.Plain(" or press "),
				style.New("Esc", style.Fg(tcell.ColorMaroon)),
				style.Plain(" to quit."),
			},
		),
	)

	help, err := d.app.NewView(HelpView, false)
	if err != nil {
		return err
	}
	lines := make([][]style.Segment, 0, len(commandHelp))
	for _, c := range commandHelp {
		lines = append(lines, []style.Segment{
			style.New(fmt.Sprintf("%-11s", c[0]), style.Fg(tcell.ColorTeal)),
			style.Plain(c[1]),
		})
	}
	help.AddChildren(heading("Commands"), ui.NewMultilineText(ui.AlignLeft, 3, lines...))

	logView, err := d.app.NewView(LogView, false)
	if err != nil {
		return err
	}
	d.log = ui.NewMultilineText(ui.AlignLeft, 3)
	logView.AddChildren(heading("Log"), d.log)
	return nil
}

// Commands returns the command table
func (d *Demo) Commands() app.Commands {
	show := func(name string) func() {
		return func() { _ = d.app.ChangeView(name) }
	}
	return app.Commands{
		Handlers: map[string]func(){
			"help":           show(HelpView),
			"home":           show(HomeView),
			"log":            show(LogView),
			"clear":          d.clearLog,
			input.TokenUp:    d.recallPrev,
			input.TokenDown:  d.recallNext,
			input.TokenLeft:  func() { d.cycle(-1) },
			input.TokenRight: func() { d.cycle(1) },
		},
		Default: d.record,
	}
}

// record appends an unknown line to the log and shows it
func (d *Demo) record(line string) {
	d.seen++
	entry := []style.Segment{
		style.New(fmt.Sprintf("%3d ", d.seen), style.Attrs(tcell.AttrDim)),
		style.Plain(line),
	}

	lines := append(d.log.Lines(), entry)
	// keep what fits below the heading
	if capacity := d.logCapacity(); len(lines) > capacity {
		lines = lines[len(lines)-capacity:]
	}
	d.showLog(lines)
}

func (d *Demo) clearLog() {
	d.seen = 0
	d.showLog(nil)
}

func (d *Demo) showLog(lines [][]style.Segment) {
	_ = d.app.ChangeView(LogView)
	_ = d.log.UpdateValue(lines...)
}

func (d *Demo) logCapacity() int {
	view, _ := d.app.View(LogView)
	return max(view.Region().Height()-2, 1)
}

func (d *Demo) recallPrev() {
	h := d.app.History()
	if h == nil {
		return
	}
	if line, ok := h.Prev(); ok {
		d.app.Prompt().Buffer().Set(line)
	}
}

func (d *Demo) recallNext() {
	h := d.app.History()
	if h == nil {
		return
	}
	if line, ok := h.Next(); ok {
		d.app.Prompt().Buffer().Set(line)
	}
}

// cycle moves step views through the view order
func (d *Demo) cycle(step int) {
	current := 0
	for i, name := range viewOrder {
		if view, ok := d.app.View(name); ok && d.app.IsActive(view) {
			current = i
			break
		}
	}
	next := (current + step + len(viewOrder)) % len(viewOrder)
	_ = d.app.ChangeView(viewOrder[next])
}
