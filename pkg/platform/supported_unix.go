//go:build unix

package platform

const supported = true
