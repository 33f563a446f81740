package terminal

// ParserState represents the current state of the VT parser
type ParserState int

const (
	StateGround ParserState = iota
	StateEscape
	StateCSI
)

// String returns the string representation of ParserState
func (s ParserState) String() string {
	switch s {
	case StateGround:
		return "ground"
	case StateEscape:
		return "escape"
	case StateCSI:
		return "csi"
	default:
		return "unknown"
	}
}

// maxParamBytes caps the parameter bytes collected for one CSI sequence
const maxParamBytes = 64

// VTParser splits a byte stream into printable bytes and control sequences
type VTParser struct {
	State        ParserState
	Buffer       []byte
	Params       []int
	Intermediate []byte
}

// NewVTParser creates a new VT parser
func NewVTParser() *VTParser {
	return &VTParser{
		State:        StateGround,
		Buffer:       make([]byte, 0, maxParamBytes),
		Params:       make([]int, 0, 16),
		Intermediate: make([]byte, 0, 4),
	}
}

// Reset resets the parser to initial state
func (vt *VTParser) Reset() {
	vt.State = StateGround
	vt.Buffer = vt.Buffer[:0]
	vt.Params = vt.Params[:0]
	vt.Intermediate = vt.Intermediate[:0]
}

// Private reports whether the pending sequence carries the '?' private marker
func (vt *VTParser) Private() bool {
	return len(vt.Intermediate) > 0 && vt.Intermediate[0] == '?'
}

// handleEscape processes the byte after ESC. It returns true when a CSI
// sequence starts.
func (vt *VTParser) handleEscape(b byte) bool {
	if b == '[' {
		vt.State = StateCSI
		vt.Buffer = vt.Buffer[:0]
		vt.Params = vt.Params[:0]
		vt.Intermediate = vt.Intermediate[:0]
		return true
	}
	vt.Reset()
	return false
}

// handleCSI collects parameter and intermediate bytes. It returns the final
// byte and true once the sequence is complete.
func (vt *VTParser) handleCSI(b byte) (byte, bool) {
	if b == '?' && len(vt.Buffer) == 0 && len(vt.Intermediate) == 0 {
		vt.Intermediate = append(vt.Intermediate, b)
		return 0, false
	}

	if b >= 0x30 && b <= 0x3F {
		if len(vt.Buffer) < maxParamBytes {
			vt.Buffer = append(vt.Buffer, b)
		}
		return 0, false
	}

	if b >= 0x20 && b <= 0x2F {
		vt.Intermediate = append(vt.Intermediate, b)
		return 0, false
	}

	if b >= 0x40 && b <= 0x7E {
		vt.parseParams()
		return b, true
	}

	// Invalid sequence, reset
	vt.Reset()
	return 0, false
}

// parseParams parses the parameter bytes into integers; empty fields are 0
func (vt *VTParser) parseParams() {
	vt.Params = vt.Params[:0]
	if len(vt.Buffer) == 0 {
		return
	}

	current := 0
	hasDigit := false
	for _, ch := range vt.Buffer {
		if ch >= '0' && ch <= '9' {
			current = current*10 + int(ch-'0')
			hasDigit = true
		} else if ch == ';' {
			vt.Params = append(vt.Params, current)
			current = 0
			hasDigit = false
		}
	}

	if hasDigit || vt.Buffer[len(vt.Buffer)-1] == ';' {
		vt.Params = append(vt.Params, current)
	}
}

// getParam gets parameter at index, substituting defaultValue for a missing
// or zero parameter
func (vt *VTParser) getParam(index, defaultValue int) int {
	if index < len(vt.Params) && vt.Params[index] != 0 {
		return vt.Params[index]
	}
	return defaultValue
}
