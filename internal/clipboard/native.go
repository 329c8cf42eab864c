package clipboard

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
)

// NativeClipboard is the system clipboard. On Linux it shells out to
// xclip, xsel or wl-clipboard; on macOS and Windows it uses the native
// APIs.
type NativeClipboard struct{}

// NewNativeClipboard fails with ErrUnsupported when no backend is
// available, for example on X11 without xclip or xsel installed.
func NewNativeClipboard() (*NativeClipboard, error) {
	if clipboard.Unsupported {
		return nil, fmt.Errorf("%w (%s): install xclip, xsel or wl-clipboard", ErrUnsupported, runtime.GOOS)
	}
	return &NativeClipboard{}, nil
}

func (nc *NativeClipboard) Read() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard content: %w", err)
	}
	return text, nil
}

func (nc *NativeClipboard) Write(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to set clipboard content: %w", err)
	}
	return nil
}
