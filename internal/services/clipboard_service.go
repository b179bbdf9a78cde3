package services

import (
	"fmt"
	"sync"

	"chatllm/internal/logger"
)

// ClipboardService copies assistant answers to the system clipboard where
// the platform supports it.
type ClipboardService struct {
	initialized bool
	available   bool
	once        sync.Once
	initErr     error
}

// NewClipboardService creates a new ClipboardService instance.
func NewClipboardService() *ClipboardService {
	return &ClipboardService{}
}

// Name returns the service name "clipboard" for registration.
func (c *ClipboardService) Name() string {
	return "clipboard"
}

// Initialize marks the service ready. The platform clipboard itself is
// opened on first use so headless runs never touch it.
func (c *ClipboardService) Initialize() error {
	c.initialized = true
	return nil
}

// Available reports whether copying can succeed on this platform.
func (c *ClipboardService) Available() bool {
	if !clipboardAvailable {
		return false
	}
	c.open()
	return c.available
}

func (c *ClipboardService) open() {
	c.once.Do(func() {
		c.initErr = initClipboard()
		c.available = c.initErr == nil
		if c.initErr != nil {
			logger.Debug("Clipboard unavailable", "error", c.initErr)
		}
	})
}

// Copy writes text to the clipboard.
func (c *ClipboardService) Copy(text string) error {
	if !c.initialized {
		return fmt.Errorf("clipboard service: %w", ErrNotInitialized)
	}
	if !clipboardAvailable {
		return writeToClipboard(text)
	}
	c.open()
	if c.initErr != nil {
		return fmt.Errorf("clipboard: %w", c.initErr)
	}
	return writeToClipboard(text)
}
