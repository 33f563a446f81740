package config

import (
	"fmt"

	"termapp/pkg/history"
	"termapp/pkg/input"
	"termapp/pkg/logging"
	"termapp/pkg/serial"
	"termapp/pkg/ui"
)

// Input source kinds
const (
	SourceTerminal = "terminal"
	SourceStdin    = "stdin"
	SourceSerial   = "serial"
)

// Settings holds everything needed to start an application
type Settings struct {
	AltBuffer   bool   `json:"alt_buffer" yaml:"alt_buffer"`
	InitialView string `json:"initial_view" yaml:"initial_view"`
	Title       string `json:"title" yaml:"title"`
	Leader      string `json:"leader" yaml:"leader"`
	Keymap      string `json:"keymap" yaml:"keymap"`
	Echo        bool   `json:"echo" yaml:"echo"`

	Source string              `json:"source" yaml:"source"`
	Serial serial.SerialConfig `json:"serial" yaml:"serial"`
	// Width and Height size the console when it has no terminal to ask,
	// as on a serial line
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	HistoryFile   string `json:"history_file,omitempty" yaml:"history_file,omitempty"`
	HistoryFormat string `json:"history_format,omitempty" yaml:"history_format,omitempty"`
	HistoryMax    int    `json:"history_max" yaml:"history_max"`

	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// DefaultSettings returns the settings used when no profile is given
func DefaultSettings() Settings {
	return Settings{
		AltBuffer:   true,
		InitialView: "default",
		Title:       "termapp",
		Leader:      ui.DefaultLeader,
		Keymap:      input.VT.Name,
		Echo:        true,
		Source:      SourceTerminal,
		Serial:      serial.DefaultConfig(),
		Width:       80,
		Height:      24,
		HistoryMax:  history.DefaultMaxEntries,
	}
}

// Validate checks if the settings are usable
func (s Settings) Validate() error {
	if s.Leader == "" {
		return fmt.Errorf("leader cannot be empty")
	}
	if _, ok := input.KeymapByName(s.Keymap); !ok {
		return fmt.Errorf("unknown keymap: %s", s.Keymap)
	}

	switch s.Source {
	case SourceTerminal, SourceStdin:
	case SourceSerial:
		if err := s.Serial.Validate(); err != nil {
			return fmt.Errorf("invalid serial settings: %w", err)
		}
	default:
		return fmt.Errorf("invalid source: %s", s.Source)
	}

	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("console size cannot be negative, got: %dx%d", s.Width, s.Height)
	}
	if s.Source != SourceTerminal && (s.Width < 1 || s.Height < 1) {
		return fmt.Errorf("source %s needs a console size, got: %dx%d", s.Source, s.Width, s.Height)
	}

	if _, err := history.ParseFormat(s.HistoryFormat); err != nil {
		return err
	}
	if s.HistoryMax < 0 {
		return fmt.Errorf("history max cannot be negative, got: %d", s.HistoryMax)
	}

	if s.LogLevel != "" {
		if _, err := logging.ParseLevel(s.LogLevel); err != nil {
			return err
		}
	}
	return nil
}
