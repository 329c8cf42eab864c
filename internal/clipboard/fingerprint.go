package clipboard

import (
	"encoding/hex"
	"log/slog"

	"github.com/zeebo/blake3"
)

const previewLength = 50

// Fingerprint returns a short, stable identifier for text so that log
// lines can correlate values without printing them.
func Fingerprint(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:6])
}

// LogValue describes text for structured logging. The preview is only
// included when withPreview is set.
func LogValue(text string, withPreview bool) slog.Attr {
	attrs := []any{
		slog.String("fingerprint", Fingerprint(text)),
		slog.Int("length", len(text)),
	}
	if withPreview {
		attrs = append(attrs, slog.String("preview", truncateString(text, previewLength)))
	}
	return slog.Group("value", attrs...)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
