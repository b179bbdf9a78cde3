//go:build linux

package services

import "fmt"

const clipboardAvailable = false

func initClipboard() error {
	return fmt.Errorf("clipboard not available on this platform (Linux without X11)")
}

func writeToClipboard(_ string) error {
	return fmt.Errorf("clipboard not available on this platform (Linux without X11)")
}
