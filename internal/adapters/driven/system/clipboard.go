package system

import (
	"errors"

	"github.com/atotto/clipboard"

	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
)

// Ensure Clipboard implements the interface.
var _ driven.Clipboard = (*Clipboard)(nil)

// ErrNoClipboard is returned when no clipboard utility is installed.
var ErrNoClipboard = errors.New("no clipboard utility available")

// Clipboard writes to the system clipboard through atotto/clipboard,
// which shells out to pbcopy, xclip, xsel, wl-copy or the Windows API.
type Clipboard struct {
	write       func(string) error
	unsupported bool
}

// NewClipboard creates a clipboard adapter.
func NewClipboard() *Clipboard {
	return &Clipboard{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// WriteText replaces the clipboard content with text.
func (c *Clipboard) WriteText(text string) error {
	if c.unsupported {
		return ErrNoClipboard
	}
	return c.write(text)
}
