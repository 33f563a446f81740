package serial

import (
	"errors"
	"io"
	"testing"
	"time"

	"go.bug.st/serial"
)

func validConfig() SerialConfig {
	return SerialConfig{
		Port:     "COM1",
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
	}
}

func TestSerialConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*SerialConfig)
		wantErr bool
	}{
		{"valid config", func(*SerialConfig) {}, false},
		{"empty port", func(c *SerialConfig) { c.Port = "" }, true},
		{"invalid baud rate", func(c *SerialConfig) { c.BaudRate = 12345 }, true},
		{"data bits too small", func(c *SerialConfig) { c.DataBits = 4 }, true},
		{"data bits too large", func(c *SerialConfig) { c.DataBits = 9 }, true},
		{"stop bits zero", func(c *SerialConfig) { c.StopBits = 0 }, true},
		{"two stop bits", func(c *SerialConfig) { c.StopBits = 2 }, false},
		{"invalid parity", func(c *SerialConfig) { c.Parity = "weird" }, true},
		{"even parity", func(c *SerialConfig) { c.Parity = "even" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modify(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("SerialConfig.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid, got error: %v", err)
	}
	if config.BaudRate != 115200 {
		t.Errorf("DefaultConfig().BaudRate = %d, want 115200", config.BaudRate)
	}
}

func TestDefaultPortName(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"windows", "COM1"},
		{"darwin", "/dev/cu.usbserial"},
		{"linux", "/dev/ttyUSB0"},
	}
	for _, tt := range tests {
		if got := defaultPortName(tt.goos); got != tt.want {
			t.Errorf("defaultPortName(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
}

func TestConvertStopBits(t *testing.T) {
	if got := convertStopBits(1); got != serial.OneStopBit {
		t.Errorf("convertStopBits(1) = %v, want OneStopBit", got)
	}
	if got := convertStopBits(2); got != serial.TwoStopBits {
		t.Errorf("convertStopBits(2) = %v, want TwoStopBits", got)
	}
}

func TestConvertParity(t *testing.T) {
	tests := []struct {
		input string
		want  serial.Parity
	}{
		{"none", serial.NoParity},
		{"odd", serial.OddParity},
		{"even", serial.EvenParity},
		{"mark", serial.MarkParity},
		{"space", serial.SpaceParity},
		{"bogus", serial.NoParity},
	}
	for _, tt := range tests {
		if got := convertParity(tt.input); got != tt.want {
			t.Errorf("convertParity(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// fakePort replays chunks; a nil chunk is a read that times out
type fakePort struct {
	chunks   [][]byte
	written  []byte
	timeouts []time.Duration
	closed   bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	if len(f.chunks) == 0 {
		return 0, io.EOF
	}
	chunk := f.chunks[0]
	if len(chunk) == 0 {
		f.chunks = f.chunks[1:]
		return 0, nil
	}
	n := copy(p, chunk)
	if n == len(chunk) {
		f.chunks = f.chunks[1:]
	} else {
		f.chunks[0] = chunk[n:]
	}
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.timeouts = append(f.timeouts, t)
	return nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func TestOpen(t *testing.T) {
	fake := &fakePort{}
	var gotName string
	var gotMode *serial.Mode
	saved := openPort
	openPort = func(name string, mode *serial.Mode) (rawPort, error) {
		gotName, gotMode = name, mode
		return fake, nil
	}
	defer func() { openPort = saved }()

	config := validConfig()
	config.Parity = "odd"
	config.StopBits = 2
	port, err := Open(config)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if gotName != "COM1" {
		t.Errorf("Open() port name = %q, want COM1", gotName)
	}
	if gotMode.BaudRate != 115200 || gotMode.Parity != serial.OddParity || gotMode.StopBits != serial.TwoStopBits {
		t.Errorf("Open() mode = %+v", gotMode)
	}
	if port.Config() != config {
		t.Errorf("Config() = %+v, want %+v", port.Config(), config)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(SerialConfig{}); err == nil {
		t.Error("Open() with empty config should fail")
	}

	saved := openPort
	openPort = func(string, *serial.Mode) (rawPort, error) {
		return nil, errors.New("busy")
	}
	defer func() { openPort = saved }()

	_, err := Open(validConfig())
	var serr *SerialError
	if !errors.As(err, &serr) || serr.Operation != "open" {
		t.Errorf("Open() error = %v, want SerialError for open", err)
	}
}

func TestPort_ReadyAndReadByte(t *testing.T) {
	fake := &fakePort{chunks: [][]byte{nil, []byte("ab")}}
	port := newPort(fake, validConfig())

	ready, err := port.Ready(10 * time.Millisecond)
	if err != nil || ready {
		t.Fatalf("Ready() = %v, %v, want false, nil", ready, err)
	}
	ready, err = port.Ready(10 * time.Millisecond)
	if err != nil || !ready {
		t.Fatalf("Ready() = %v, %v, want true, nil", ready, err)
	}
	// a second Ready keeps the peeked byte
	if ready, _ := port.Ready(0); !ready {
		t.Error("Ready() after peek should report true")
	}

	for _, want := range []byte("ab") {
		b, err := port.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte() error = %v", err)
		}
		if b != want {
			t.Errorf("ReadByte() = %q, want %q", b, want)
		}
	}

	wantTimeouts := []time.Duration{10 * time.Millisecond, serial.NoTimeout}
	if len(fake.timeouts) != len(wantTimeouts) {
		t.Fatalf("timeouts = %v, want %v", fake.timeouts, wantTimeouts)
	}
	for i, want := range wantTimeouts {
		if fake.timeouts[i] != want {
			t.Errorf("timeouts[%d] = %v, want %v", i, fake.timeouts[i], want)
		}
	}

	if _, err := port.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadByte() at end = %v, want io.EOF", err)
	}
}

func TestPort_WriteAndClose(t *testing.T) {
	fake := &fakePort{}
	port := newPort(fake, validConfig())

	if _, err := port.Write([]byte("\x1b[1;1H")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if string(fake.written) != "\x1b[1;1H" {
		t.Errorf("written = %q", fake.written)
	}

	if err := port.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("Close() should close the underlying port")
	}
	if err := port.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := port.Write([]byte("x")); !errors.Is(err, errPortClosed) {
		t.Errorf("Write() after Close = %v, want errPortClosed", err)
	}
	if _, err := port.Ready(0); !errors.Is(err, errPortClosed) {
		t.Errorf("Ready() after Close = %v, want errPortClosed", err)
	}
}

func TestSerialError(t *testing.T) {
	cause := errors.New("test cause")
	err := NewSerialError("test", "COM1", cause)

	expected := "serial test operation failed on port COM1: test cause"
	if err.Error() != expected {
		t.Errorf("SerialError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, cause) {
		t.Error("SerialError should unwrap to its cause")
	}

	errNoCause := NewSerialError("test", "COM1", nil)
	expectedNoCause := "serial test operation failed on port COM1"
	if errNoCause.Error() != expectedNoCause {
		t.Errorf("SerialError.Error() = %q, want %q", errNoCause.Error(), expectedNoCause)
	}
}
