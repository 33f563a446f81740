// Package history provides command line history with recall and export
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultMaxEntries is the history size used when none is configured
const DefaultMaxEntries = 500

// FileFormat represents different file export formats
type FileFormat int

const (
	FormatPlainText FileFormat = iota
	FormatTimestamped
	FormatJSON
)

// String returns the string representation of FileFormat
func (f FileFormat) String() string {
	switch f {
	case FormatPlainText:
		return "plain_text"
	case FormatTimestamped:
		return "timestamped"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name to a FileFormat
func ParseFormat(name string) (FileFormat, error) {
	switch strings.ToLower(name) {
	case "plain_text", "plain", "text", "":
		return FormatPlainText, nil
	case "timestamped":
		return FormatTimestamped, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported history format: %s", name)
	}
}

// Manager interface defines the contract for history operations
type Manager interface {
	Add(line string, handled bool) error
	Entries() []Entry
	Len() int
	Clear()
	SetMaxEntries(n int) error
	MaxEntries() int
	Prev() (string, bool)
	Next() (string, bool)
	SaveToFile(filename string, format FileFormat) error
}

// Entry is one committed command line
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Line      string    `json:"line"`
	// Handled is true when a registered command consumed the line
	Handled bool `json:"handled"`
}

// Validate checks if the history entry is valid
func (e Entry) Validate() error {
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp cannot be zero")
	}
	if strings.TrimSpace(e.Line) == "" {
		return fmt.Errorf("line cannot be empty")
	}
	return nil
}

// MemoryManager keeps history in memory. Blank lines and immediate repeats
// are not recorded; the oldest entries are dropped past MaxEntries.
type MemoryManager struct {
	entries    []Entry
	maxEntries int
	// cursor indexes the recalled entry; len(entries) means the fresh line
	cursor int
	now    func() time.Time
}

// NewMemoryManager creates a history holding at most maxEntries lines
func NewMemoryManager(maxEntries int) *MemoryManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryManager{
		entries:    make([]Entry, 0),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Add records a committed line and resets the recall cursor
func (m *MemoryManager) Add(line string, handled bool) error {
	defer m.resetCursor()

	if strings.TrimSpace(line) == "" {
		return nil
	}
	if n := len(m.entries); n > 0 && m.entries[n-1].Line == line {
		return nil
	}

	entry := Entry{Timestamp: m.now(), Line: line, Handled: handled}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid history entry: %w", err)
	}

	if len(m.entries) >= m.maxEntries {
		removeCount := len(m.entries) - m.maxEntries + 1
		m.entries = m.entries[removeCount:]
	}
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of the entries, oldest first
func (m *MemoryManager) Entries() []Entry {
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Len returns the number of entries
func (m *MemoryManager) Len() int {
	return len(m.entries)
}

// Clear clears all entries
func (m *MemoryManager) Clear() {
	m.entries = m.entries[:0]
	m.resetCursor()
}

// SetMaxEntries changes the limit, dropping the oldest entries if needed
func (m *MemoryManager) SetMaxEntries(n int) error {
	if n <= 0 {
		return fmt.Errorf("max entries must be positive, got: %d", n)
	}
	m.maxEntries = n
	if len(m.entries) > n {
		m.entries = m.entries[len(m.entries)-n:]
	}
	m.resetCursor()
	return nil
}

// MaxEntries returns the entry limit
func (m *MemoryManager) MaxEntries() int {
	return m.maxEntries
}

// Prev moves the recall cursor one entry back and returns that line
func (m *MemoryManager) Prev() (string, bool) {
	if m.cursor == 0 {
		if len(m.entries) == 0 {
			return "", false
		}
		return m.entries[0].Line, true
	}
	m.cursor--
	return m.entries[m.cursor].Line, true
}

// Next moves the recall cursor one entry forward. Stepping past the newest
// entry returns an empty line; stepping further reports false.
func (m *MemoryManager) Next() (string, bool) {
	if m.cursor >= len(m.entries) {
		return "", false
	}
	m.cursor++
	if m.cursor == len(m.entries) {
		return "", true
	}
	return m.entries[m.cursor].Line, true
}

func (m *MemoryManager) resetCursor() {
	m.cursor = len(m.entries)
}

// SaveToFile saves the history to a file
func (m *MemoryManager) SaveToFile(filename string, format FileFormat) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}
	return saveEntriesToFile(m.entries, filename, format)
}

// saveEntriesToFile saves history entries to a file in the specified format
func saveEntriesToFile(entries []Entry, filename string, format FileFormat) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatPlainText:
		return saveAsPlainText(file, entries)
	case FormatTimestamped:
		return saveAsTimestamped(file, entries)
	case FormatJSON:
		return saveAsJSON(file, entries)
	default:
		return fmt.Errorf("unsupported format: %v", format)
	}
}

// saveAsPlainText writes one line per entry
func saveAsPlainText(file *os.File, entries []Entry) error {
	for _, entry := range entries {
		if _, err := file.WriteString(entry.Line + "\n"); err != nil {
			return fmt.Errorf("failed to write data: %w", err)
		}
	}
	return nil
}

// saveAsTimestamped saves entries with timestamps; unhandled lines are
// marked with '?'
func saveAsTimestamped(file *os.File, entries []Entry) error {
	for _, entry := range entries {
		marker := ">>"
		if !entry.Handled {
			marker = "?>"
		}

		line := fmt.Sprintf("[%s] %s %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05.000"),
			marker,
			entry.Line)

		if _, err := file.WriteString(line); err != nil {
			return fmt.Errorf("failed to write timestamped data: %w", err)
		}
	}
	return nil
}

// saveAsJSON saves entries as JSON
func saveAsJSON(file *os.File, entries []Entry) error {
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	data := struct {
		Entries []Entry `json:"entries"`
		Count   int     `json:"count"`
	}{
		Entries: entries,
		Count:   len(entries),
	}

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
