// Package input decodes raw terminal bytes into logical key events and
// maintains the line being edited
package input

import (
	"context"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// State is the decoder state
type State int

const (
	// StateIdle waits for the start of a key
	StateIdle State = iota
	// StatePrefix has consumed part of a multi-byte leader
	StatePrefix
	// StateEscPending has consumed a full leader and waits for the key code
	StateEscPending
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrefix:
		return "prefix"
	case StateEscPending:
		return "esc_pending"
	default:
		return "unknown"
	}
}

const (
	// DefaultEscapeTimeout separates a lone ESC from the start of a sequence
	DefaultEscapeTimeout = 50 * time.Millisecond
	// DefaultPollInterval bounds how long Next waits before checking its context
	DefaultPollInterval = 100 * time.Millisecond

	maxSequenceLen = 16
)

// Decoder turns bytes from a Source into Events. It appends printable input
// to a Buffer and empties it on commit. A Decoder is not safe for
// concurrent use.
type Decoder struct {
	src    Source
	keymap Keymap
	buf    *Buffer
	logger *zap.Logger

	escapeTimeout time.Duration
	pollInterval  time.Duration

	state   State
	pending []byte
	partial []byte
	afterCR bool

	queue []Event
	err   error
}

// DecoderOption configures a Decoder
type DecoderOption func(*Decoder)

// WithEscapeTimeout sets how long to wait for the rest of an escape sequence
func WithEscapeTimeout(d time.Duration) DecoderOption {
	return func(dec *Decoder) {
		if d > 0 {
			dec.escapeTimeout = d
		}
	}
}

// WithPollInterval sets how often Next checks its context while idle
func WithPollInterval(d time.Duration) DecoderOption {
	return func(dec *Decoder) {
		if d > 0 {
			dec.pollInterval = d
		}
	}
}

// WithLogger sets the logger for unrecognized and dropped input
func WithLogger(logger *zap.Logger) DecoderOption {
	return func(dec *Decoder) {
		if logger != nil {
			dec.logger = logger
		}
	}
}

// NewDecoder creates a decoder reading from src with keymap km and editing buf
func NewDecoder(src Source, km Keymap, buf *Buffer, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		src:           src,
		keymap:        km,
		buf:           buf,
		logger:        zap.NewNop(),
		escapeTimeout: DefaultEscapeTimeout,
		pollInterval:  DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current decoder state
func (d *Decoder) State() State {
	return d.state
}

// Buffer returns the edit buffer
func (d *Decoder) Buffer() *Buffer {
	return d.buf
}

// Keymap returns the active keymap
func (d *Decoder) Keymap() Keymap {
	return d.keymap
}

// Next blocks until an event is decoded, the source fails or ctx is done.
// Input that ends inside a sequence is flushed before the error is returned.
func (d *Decoder) Next(ctx context.Context) (Event, error) {
	for {
		if ev, ok := d.dequeue(); ok {
			return ev, nil
		}
		if d.err != nil {
			return Event{}, d.err
		}
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}

		wait := d.pollInterval
		if d.midSequence() {
			wait = d.escapeTimeout
		}
		ready, err := d.src.Ready(wait)
		if err != nil {
			d.fail(err)
			continue
		}
		if !ready {
			if d.midSequence() {
				d.queue = append(d.queue, d.Flush()...)
			}
			continue
		}
		d.readOne()
	}
}

// Poll decodes whatever input is available without waiting. It returns
// false when no event is ready.
func (d *Decoder) Poll() (Event, bool, error) {
	for {
		if ev, ok := d.dequeue(); ok {
			return ev, true, nil
		}
		if d.err != nil {
			return Event{}, false, d.err
		}
		ready, err := d.src.Ready(0)
		if err != nil {
			d.fail(err)
			continue
		}
		if !ready {
			if !d.midSequence() {
				return Event{}, false, nil
			}
			// give the rest of the sequence one escape timeout to arrive
			ready, err = d.src.Ready(d.escapeTimeout)
			if err != nil {
				d.fail(err)
				continue
			}
			if !ready {
				d.queue = append(d.queue, d.Flush()...)
				continue
			}
		}
		d.readOne()
	}
}

func (d *Decoder) readOne() {
	b, err := d.src.ReadByte()
	if err != nil {
		d.fail(err)
		return
	}
	d.queue = append(d.queue, d.Feed(b)...)
}

func (d *Decoder) fail(err error) {
	d.queue = append(d.queue, d.Flush()...)
	if !errors.Is(err, io.EOF) {
		d.logger.Debug("input source failed", zap.Error(err))
	}
	d.err = err
}

func (d *Decoder) dequeue() (Event, bool) {
	if len(d.queue) == 0 {
		return Event{}, false
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev, true
}

func (d *Decoder) midSequence() bool {
	return d.state != StateIdle || len(d.partial) > 0
}

// Feed advances the state machine by one byte and returns the events it
// completes
func (d *Decoder) Feed(b byte) []Event {
	afterCR := d.afterCR
	d.afterCR = false
	switch d.state {
	case StatePrefix:
		return d.feedPrefix(b)
	case StateEscPending:
		return d.feedPending(b)
	default:
		return d.feedIdle(b, afterCR)
	}
}

// Flush resolves a sequence cut short by silence or end of input. A lone
// escape byte becomes EventEscape; any other partial sequence is reported
// as unrecognized. Incomplete UTF-8 is dropped.
func (d *Decoder) Flush() []Event {
	if len(d.partial) > 0 {
		d.logger.Debug("dropping incomplete utf-8", zap.Binary("bytes", d.partial))
		d.partial = d.partial[:0]
	}
	if d.state == StateIdle {
		return nil
	}
	seq := d.reset()
	if len(seq) == 1 && seq[0] == d.keymap.Escape {
		return []Event{{Kind: EventEscape}}
	}
	return []Event{d.unrecognized(seq)}
}

func (d *Decoder) feedIdle(b byte, afterCR bool) []Event {
	if len(d.partial) > 0 {
		if b&0xc0 == 0x80 {
			return d.feedUTF8(b)
		}
		d.logger.Debug("dropping incomplete utf-8", zap.Binary("bytes", d.partial))
		d.partial = d.partial[:0]
	}

	complete, prefix := d.keymap.matchLeader([]byte{b})
	switch {
	case complete:
		d.pending = append(d.pending[:0], b)
		d.state = StateEscPending
		return nil
	case prefix:
		d.pending = append(d.pending[:0], b)
		d.state = StatePrefix
		return nil
	case d.keymap.isEnter(b):
		// CR LF from line-oriented sources is one commit
		if b == '\n' && afterCR {
			return nil
		}
		d.afterCR = b == '\r'
		line := d.buf.String()
		d.buf.Clear()
		return []Event{{Kind: EventCommit, Text: line}}
	case d.keymap.isBackspace(b):
		r, removed := d.buf.pop()
		return []Event{{Kind: EventBackspace, Rune: r, Removed: removed}}
	case b == d.keymap.Escape:
		return []Event{{Kind: EventEscape}}
	case b < 0x20 || b == 0x7f:
		return nil
	case b >= 0x80:
		if !d.keymap.UTF8 || !utf8.RuneStart(b) {
			return nil
		}
		return d.feedUTF8(b)
	default:
		return d.insert(rune(b))
	}
}

func (d *Decoder) feedUTF8(b byte) []Event {
	d.partial = append(d.partial, b)
	if !utf8.FullRune(d.partial) {
		return nil
	}
	r, _ := utf8.DecodeRune(d.partial)
	d.partial = d.partial[:0]
	if r == utf8.RuneError {
		return nil
	}
	return d.insert(r)
}

func (d *Decoder) insert(r rune) []Event {
	if !d.buf.Insert(r) {
		return nil
	}
	return []Event{{Kind: EventChar, Rune: r}}
}

func (d *Decoder) feedPrefix(b byte) []Event {
	// a second ESC proves the first was a lone escape
	if b == d.keymap.Escape && len(d.pending) == 1 && d.pending[0] == d.keymap.Escape {
		return []Event{{Kind: EventEscape}}
	}
	seq := append(d.pending, b)
	complete, prefix := d.keymap.matchLeader(seq)
	switch {
	case complete:
		d.pending = seq
		d.state = StateEscPending
		return nil
	case prefix:
		d.pending = seq
		return nil
	default:
		d.pending = seq
		return []Event{d.unrecognized(d.reset())}
	}
}

func (d *Decoder) feedPending(b byte) []Event {
	d.pending = append(d.pending, b)
	if d.keymap.Params && b >= 0x20 && b <= 0x3f {
		if len(d.pending) < maxSequenceLen {
			return nil
		}
		return []Event{d.unrecognized(d.reset())}
	}

	seq := d.reset()
	if kind, ok := d.keymap.Arrows[b]; ok && d.leaderOnly(seq) {
		return []Event{{Kind: kind}}
	}
	return []Event{d.unrecognized(seq)}
}

// leaderOnly reports whether seq is a leader plus exactly one final byte
func (d *Decoder) leaderOnly(seq []byte) bool {
	complete, _ := d.keymap.matchLeader(seq[:len(seq)-1])
	return complete
}

func (d *Decoder) reset() []byte {
	seq := make([]byte, len(d.pending))
	copy(seq, d.pending)
	d.pending = d.pending[:0]
	d.state = StateIdle
	return seq
}

func (d *Decoder) unrecognized(seq []byte) Event {
	d.logger.Debug("unrecognized escape sequence", zap.Binary("bytes", seq))
	return Event{Kind: EventUnrecognizedEscape, Bytes: seq}
}
