package platform

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Indirections over the clipboard library so tests never touch the real
// system clipboard.
var (
	clipboardReadAll     = clipboard.ReadAll
	clipboardWriteAll    = clipboard.WriteAll
	clipboardUnsupported = func() bool { return clipboard.Unsupported }
)

// SystemClipboard implements Clipboard using the OS clipboard.
type SystemClipboard struct{}

// NewSystemClipboard returns a new SystemClipboard instance.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// GetText reads the current text content from the system clipboard.
func (c *SystemClipboard) GetText() (string, error) {
	text, err := clipboardReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// SetText writes text to the system clipboard.
func (c *SystemClipboard) SetText(text string) error {
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// MemoryClipboard is an in-process clipboard.
type MemoryClipboard struct {
	text string
}

// GetText returns the last text written.
func (c *MemoryClipboard) GetText() (string, error) { return c.text, nil }

// SetText stores text.
func (c *MemoryClipboard) SetText(text string) error {
	c.text = text
	return nil
}
