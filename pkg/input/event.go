package input

import "fmt"

// EventKind identifies a logical key event
type EventKind int

const (
	EventChar EventKind = iota
	EventCommit
	EventBackspace
	EventEscape
	EventArrowUp
	EventArrowDown
	EventArrowLeft
	EventArrowRight
	EventUnrecognizedEscape
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventChar:
		return "char"
	case EventCommit:
		return "commit"
	case EventBackspace:
		return "backspace"
	case EventEscape:
		return "escape"
	case EventArrowUp:
		return "arrow_up"
	case EventArrowDown:
		return "arrow_down"
	case EventArrowLeft:
		return "arrow_left"
	case EventArrowRight:
		return "arrow_right"
	case EventUnrecognizedEscape:
		return "unrecognized_escape"
	default:
		return "unknown"
	}
}

// Arrow tokens used for command dispatch
const (
	TokenUp    = "key_UP"
	TokenDown  = "key_DOWN"
	TokenLeft  = "key_LEFT"
	TokenRight = "key_RIGHT"
)

// Event is a decoded key event
type Event struct {
	Kind EventKind
	// Rune is the inserted rune for EventChar and the removed rune for
	// EventBackspace
	Rune rune
	// Text is the committed line for EventCommit
	Text string
	// Removed reports whether an EventBackspace deleted a rune
	Removed bool
	// Bytes holds the raw sequence of an EventUnrecognizedEscape
	Bytes []byte
}

// Token returns the dispatch token: the committed text for a commit, an
// arrow token for arrows and "" otherwise
func (e Event) Token() string {
	switch e.Kind {
	case EventCommit:
		return e.Text
	case EventArrowUp:
		return TokenUp
	case EventArrowDown:
		return TokenDown
	case EventArrowLeft:
		return TokenLeft
	case EventArrowRight:
		return TokenRight
	default:
		return ""
	}
}

// IsArrow reports whether the event is one of the four arrow keys
func (e Event) IsArrow() bool {
	switch e.Kind {
	case EventArrowUp, EventArrowDown, EventArrowLeft, EventArrowRight:
		return true
	}
	return false
}

func (e Event) String() string {
	switch e.Kind {
	case EventChar:
		return fmt.Sprintf("char(%q)", e.Rune)
	case EventCommit:
		return fmt.Sprintf("commit(%q)", e.Text)
	case EventBackspace:
		return fmt.Sprintf("backspace(removed=%t)", e.Removed)
	case EventUnrecognizedEscape:
		return fmt.Sprintf("unrecognized_escape(% x)", e.Bytes)
	default:
		return e.Kind.String()
	}
}
