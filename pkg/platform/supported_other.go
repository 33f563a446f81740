//go:build !unix && !windows

package platform

const supported = false
