// Package platform reports which operating systems have a terminal backend
package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedPlatform is returned when no terminal backend exists for the host OS
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Error describes a component that cannot run on the current OS
type Error struct {
	OS        string
	Component string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s is not available on %s", ErrUnsupportedPlatform, e.Component, e.OS)
}

// Unwrap returns ErrUnsupportedPlatform so callers can use errors.Is
func (e *Error) Unwrap() error {
	return ErrUnsupportedPlatform
}

// Supported reports whether the current OS has a terminal backend
func Supported() bool {
	return supported
}

// Check returns an *Error for component when the current OS has no backend
func Check(component string) error {
	return check(runtime.GOOS, supported, component)
}

func check(goos string, ok bool, component string) error {
	if ok {
		return nil
	}
	return &Error{OS: goos, Component: component}
}
