//go:build !linux

package services

import "golang.design/x/clipboard"

const clipboardAvailable = true

func initClipboard() error {
	return clipboard.Init()
}

func writeToClipboard(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
