// Package serial provides a serial line that can carry the whole terminal
// UI: output is written to the port and key input is read from it
package serial

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var (
	baudRates = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}
	parities  = []string{"none", "odd", "even", "mark", "space"}
)

// SerialConfig defines the configuration for serial port communication
type SerialConfig struct {
	Port     string `json:"port" yaml:"port"`
	BaudRate int    `json:"baud_rate" yaml:"baud_rate"`
	DataBits int    `json:"data_bits" yaml:"data_bits"`
	StopBits int    `json:"stop_bits" yaml:"stop_bits"`
	Parity   string `json:"parity" yaml:"parity"`
}

// Validate checks if the serial configuration is valid
func (c SerialConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}

	if !slices.Contains(baudRates, c.BaudRate) {
		return fmt.Errorf("invalid baud rate: %d", c.BaudRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("data bits must be between 5 and 8, got: %d", c.DataBits)
	}
	if c.StopBits < 1 || c.StopBits > 2 {
		return fmt.Errorf("stop bits must be 1 or 2, got: %d", c.StopBits)
	}
	if !slices.Contains(parities, c.Parity) {
		return fmt.Errorf("invalid parity: %s", c.Parity)
	}
	return nil
}

// DefaultConfig returns a default serial configuration
func DefaultConfig() SerialConfig {
	return SerialConfig{
		Port:     defaultPortName(runtime.GOOS),
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
	}
}

func defaultPortName(goos string) string {
	switch goos {
	case "windows":
		return "COM1"
	case "darwin":
		return "/dev/cu.usbserial"
	default:
		return "/dev/ttyUSB0"
	}
}

// rawPort is the part of serial.Port a Port uses
type rawPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

var openPort = func(name string, mode *serial.Mode) (rawPort, error) {
	return serial.Open(name, mode)
}

// Port is an open serial line. It is an io.Writer for terminal output and a
// byte source for key input.
type Port struct {
	port   rawPort
	config SerialConfig

	// timeout currently applied to the port; -1 is serial.NoTimeout
	timeout time.Duration
	peek    [1]byte
	peeked  bool
	closed  bool
}

// Open opens the serial port with the given configuration
func Open(config SerialConfig) (*Port, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
		StopBits: convertStopBits(config.StopBits),
		Parity:   convertParity(config.Parity),
	}

	port, err := openPort(config.Port, mode)
	if err != nil {
		return nil, NewSerialError("open", config.Port, err)
	}
	return newPort(port, config), nil
}

func newPort(port rawPort, config SerialConfig) *Port {
	return &Port{port: port, config: config, timeout: -2}
}

// Config returns the configuration the port was opened with
func (p *Port) Config() SerialConfig {
	return p.config
}

// Write writes data to the serial port
func (p *Port) Write(data []byte) (int, error) {
	if p.closed {
		return 0, NewSerialError("write", p.config.Port, errPortClosed)
	}
	n, err := p.port.Write(data)
	if err != nil {
		return n, NewSerialError("write", p.config.Port, err)
	}
	return n, nil
}

// ReadByte blocks until a byte arrives
func (p *Port) ReadByte() (byte, error) {
	if p.peeked {
		p.peeked = false
		return p.peek[0], nil
	}
	if err := p.setTimeout(serial.NoTimeout); err != nil {
		return 0, err
	}
	for {
		b, ok, err := p.readOne()
		if err != nil || ok {
			return b, err
		}
	}
}

// Ready waits up to wait for a byte. A byte read while waiting is kept for
// the next ReadByte.
func (p *Port) Ready(wait time.Duration) (bool, error) {
	if p.peeked {
		return true, nil
	}
	if wait < 0 {
		wait = 0
	}
	if err := p.setTimeout(wait); err != nil {
		return false, err
	}
	b, ok, err := p.readOne()
	if err != nil || !ok {
		return false, err
	}
	p.peek[0], p.peeked = b, true
	return true, nil
}

func (p *Port) readOne() (byte, bool, error) {
	if p.closed {
		return 0, false, NewSerialError("read", p.config.Port, errPortClosed)
	}
	var buf [1]byte
	n, err := p.port.Read(buf[:])
	if err != nil {
		return 0, false, NewSerialError("read", p.config.Port, err)
	}
	return buf[0], n == 1, nil
}

func (p *Port) setTimeout(t time.Duration) error {
	if t == p.timeout {
		return nil
	}
	if err := p.port.SetReadTimeout(t); err != nil {
		return NewSerialError("set timeout", p.config.Port, err)
	}
	p.timeout = t
	return nil
}

// Close closes the serial port
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.port.Close(); err != nil {
		return NewSerialError("close", p.config.Port, err)
	}
	return nil
}

// convertStopBits converts our stop bits format to go.bug.st/serial format
func convertStopBits(stopBits int) serial.StopBits {
	switch stopBits {
	case 2:
		return serial.TwoStopBits
	default:
		return serial.OneStopBit
	}
}

// convertParity converts our parity format to go.bug.st/serial format
func convertParity(parity string) serial.Parity {
	switch parity {
	case "odd":
		return serial.OddParity
	case "even":
		return serial.EvenParity
	case "mark":
		return serial.MarkParity
	case "space":
		return serial.SpaceParity
	default:
		return serial.NoParity
	}
}

// ListPorts returns the names of the serial ports on the system
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to get ports list: %w", err)
	}
	return ports, nil
}

// PortInfo contains information about a serial port
type PortInfo struct {
	Name         string `json:"name"`
	IsUSB        bool   `json:"is_usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
}

// GetDetailedPortsList returns detailed information about available serial ports
func GetDetailedPortsList() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to get detailed ports list: %w", err)
	}

	portInfos := make([]PortInfo, 0, len(details))
	for _, d := range details {
		portInfos = append(portInfos, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return portInfos, nil
}

var errPortClosed = errors.New("port is closed")

// SerialError represents a serial port specific error
type SerialError struct {
	Operation string
	Port      string
	Cause     error
}

// Error implements the error interface
func (e *SerialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serial %s operation failed on port %s: %v", e.Operation, e.Port, e.Cause)
	}
	return fmt.Sprintf("serial %s operation failed on port %s", e.Operation, e.Port)
}

// Unwrap returns the underlying cause
func (e *SerialError) Unwrap() error {
	return e.Cause
}

// NewSerialError creates a new serial error
func NewSerialError(operation, port string, cause error) *SerialError {
	return &SerialError{
		Operation: operation,
		Port:      port,
		Cause:     cause,
	}
}
