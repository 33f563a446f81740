//go:build windows

package platform

const supported = true
