package cmd

import (
	"github.com/spf13/cobra"

	"termapp/pkg/config"
)

// settingsFlags are the flags shared by run and profile save. Only flags set
// on the command line override a loaded profile.
type settingsFlags struct {
	source        string
	keymap        string
	leader        string
	view          string
	title         string
	noAltBuffer   bool
	noEcho        bool
	width         int
	height        int
	port          string
	baudRate      int
	dataBits      int
	stopBits      int
	parity        string
	historyFile   string
	historyFormat string
}

func (f *settingsFlags) bind(cmd *cobra.Command) {
	d := config.DefaultSettings()
	fs := cmd.Flags()
	fs.StringVar(&f.source, "source", d.Source, "input source (terminal, stdin, serial)")
	fs.StringVar(&f.keymap, "keymap", d.Keymap, "key encoding (vt, conio)")
	fs.StringVar(&f.leader, "leader", d.Leader, "prompt leader glyph")
	fs.StringVar(&f.view, "view", d.InitialView, "initial view")
	fs.StringVar(&f.title, "title", d.Title, "frame title")
	fs.BoolVar(&f.noAltBuffer, "no-alt-buffer", false, "draw on the main screen buffer")
	fs.BoolVar(&f.noEcho, "no-echo", false, "do not echo typed characters")
	fs.IntVar(&f.width, "width", d.Width, "console width when the source has no terminal")
	fs.IntVar(&f.height, "height", d.Height, "console height when the source has no terminal")
	fs.StringVarP(&f.port, "port", "p", d.Serial.Port, "serial port")
	fs.IntVarP(&f.baudRate, "baud", "b", d.Serial.BaudRate, "baud rate")
	fs.IntVarP(&f.dataBits, "data", "d", d.Serial.DataBits, "data bits (5, 6, 7, or 8)")
	fs.IntVarP(&f.stopBits, "stop", "s", d.Serial.StopBits, "stop bits (1 or 2)")
	fs.StringVar(&f.parity, "parity", d.Serial.Parity, "parity (none, odd, even, mark, space)")
	fs.StringVar(&f.historyFile, "history-file", "", "write command history here on exit")
	fs.StringVar(&f.historyFormat, "history-format", "plain_text", "history format (plain_text, timestamped, json)")
}

// apply copies every flag the user set onto s
func (f *settingsFlags) apply(cmd *cobra.Command, s *config.Settings) {
	changed := cmd.Flags().Changed
	if changed("source") {
		s.Source = f.source
	}
	if changed("keymap") {
		s.Keymap = f.keymap
	}
	if changed("leader") {
		s.Leader = f.leader
	}
	if changed("view") {
		s.InitialView = f.view
	}
	if changed("title") {
		s.Title = f.title
	}
	if changed("no-alt-buffer") {
		s.AltBuffer = !f.noAltBuffer
	}
	if changed("no-echo") {
		s.Echo = !f.noEcho
	}
	if changed("width") {
		s.Width = f.width
	}
	if changed("height") {
		s.Height = f.height
	}
	if changed("port") {
		s.Serial.Port = f.port
		// naming a port implies the serial source
		if !changed("source") {
			s.Source = config.SourceSerial
		}
	}
	if changed("baud") {
		s.Serial.BaudRate = f.baudRate
	}
	if changed("data") {
		s.Serial.DataBits = f.dataBits
	}
	if changed("stop") {
		s.Serial.StopBits = f.stopBits
	}
	if changed("parity") {
		s.Serial.Parity = f.parity
	}
	if changed("history-file") {
		s.HistoryFile = f.historyFile
	}
	if changed("history-format") {
		s.HistoryFormat = f.historyFormat
	}
}

// applyGlobal copies the persistent logging flags onto s
func applyGlobal(s *config.Settings) {
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if logFile != "" {
		s.LogFile = logFile
	}
}
