//go:build windows

package input

import (
	"encoding/binary"
	"errors"
	"testing"
)

func keyRecord(down bool, ch uint16) inputRecord {
	rec := inputRecord{typ: keyEvent}
	if down {
		binary.LittleEndian.PutUint32(rec.data[0:], 1)
	}
	binary.LittleEndian.PutUint16(rec.data[10:], ch)
	return rec
}

func TestInputRecordYieldsBytes(t *testing.T) {
	tests := []struct {
		name string
		rec  inputRecord
		want bool
	}{
		{"escape press", keyRecord(true, 0x1b), true},
		{"escape release", keyRecord(false, 0x1b), false},
		{"shift press", keyRecord(true, 0), false},
		{"focus", inputRecord{typ: 16}, false},
		{"mouse", inputRecord{typ: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.yieldsBytes(); got != tt.want {
				t.Errorf("yieldsBytes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrainIdle(t *testing.T) {
	tests := []struct {
		name      string
		records   []inputRecord
		want      bool
		remaining int
	}{
		{"empty", nil, false, 0},
		{"release after escape", []inputRecord{keyRecord(false, 0x1b)}, false, 0},
		{"release before key", []inputRecord{keyRecord(false, 0x1b), {typ: 16}, keyRecord(true, 'a')}, true, 1},
		{"key first", []inputRecord{keyRecord(true, 'a'), keyRecord(false, 'a')}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := tt.records
			peek := func() (inputRecord, bool, error) {
				if len(queue) == 0 {
					return inputRecord{}, false, nil
				}
				return queue[0], true, nil
			}
			discard := func() error {
				queue = queue[1:]
				return nil
			}

			got, err := drainIdle(peek, discard)
			if err != nil {
				t.Fatalf("drainIdle() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("drainIdle() = %v, want %v", got, tt.want)
			}
			if len(queue) != tt.remaining {
				t.Errorf("records left = %d, want %d", len(queue), tt.remaining)
			}
		})
	}
}

func TestDrainIdle_Error(t *testing.T) {
	failed := errors.New("peek failed")
	peek := func() (inputRecord, bool, error) { return inputRecord{}, false, failed }
	if _, err := drainIdle(peek, func() error { return nil }); !errors.Is(err, failed) {
		t.Errorf("drainIdle() error = %v, want %v", err, failed)
	}
}
