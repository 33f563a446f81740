package input

import "bytes"

// Keymap describes the byte encoding of keys on one kind of terminal
type Keymap struct {
	Name string
	// Leaders are the byte sequences that introduce an arrow key
	Leaders [][]byte
	// Arrows maps the byte following a leader to an arrow event
	Arrows    map[byte]EventKind
	Escape    byte
	Enter     []byte
	Backspace []byte
	// UTF8 assembles multi-byte runes; otherwise bytes >= 0x80 are ignored
	UTF8 bool
	// Params accepts CSI parameter and intermediate bytes between the leader
	// and the final byte
	Params bool
}

// VT is the keymap of ANSI/VT100 terminals (xterm, Linux console, Windows
// consoles with virtual terminal input)
var VT = Keymap{
	Name:    "vt",
	Leaders: [][]byte{{0x1b, '['}, {0x1b, 'O'}},
	Arrows: map[byte]EventKind{
		'A': EventArrowUp,
		'B': EventArrowDown,
		'C': EventArrowRight,
		'D': EventArrowLeft,
	},
	Escape:    0x1b,
	Enter:     []byte{'\r', '\n'},
	Backspace: []byte{0x7f, 0x08},
	UTF8:      true,
	Params:    true,
}

// Conio is the keymap of the DOS/Windows console getch interface, where
// extended keys arrive as 0xE0 or 0x00 followed by a scan code
var Conio = Keymap{
	Name:    "conio",
	Leaders: [][]byte{{0xe0}, {0x00}},
	Arrows: map[byte]EventKind{
		'H': EventArrowUp,
		'P': EventArrowDown,
		'K': EventArrowLeft,
		'M': EventArrowRight,
	},
	Escape:    27,
	Enter:     []byte{13},
	Backspace: []byte{8},
}

// KeymapByName returns the keymap called name
func KeymapByName(name string) (Keymap, bool) {
	switch name {
	case VT.Name, "":
		return VT, true
	case Conio.Name:
		return Conio, true
	default:
		return Keymap{}, false
	}
}

// matchLeader reports whether seq is a complete leader and whether it is a
// prefix of any leader
func (k Keymap) matchLeader(seq []byte) (complete, prefix bool) {
	for _, l := range k.Leaders {
		if bytes.Equal(l, seq) {
			complete = true
		} else if len(l) > len(seq) && bytes.HasPrefix(l, seq) {
			prefix = true
		}
	}
	return complete, prefix
}

func (k Keymap) isEnter(b byte) bool {
	return bytes.IndexByte(k.Enter, b) >= 0
}

func (k Keymap) isBackspace(b byte) bool {
	return bytes.IndexByte(k.Backspace, b) >= 0
}
