package sync

import (
	"errors"
	"fmt"
	"strings"
)

// The envelope is the single-field object {"content":"..."} exchanged
// with the server. It is scanned by hand on purpose: the server expects
// exactly this shape, and responses carrying more fields or nesting are
// read as "first content field wins".

const contentMarker = `content":"`

var (
	ErrMissingContent     = errors.New("missing content field")
	ErrUnterminatedString = errors.New("unterminated content string")
)

type ProtocolError struct {
	Err  error
	Body string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid server response: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

const hexDigits = "0123456789abcdef"

// EncodeEnvelope wraps text as {"content":"<escaped>"}.
func EncodeEnvelope(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(`{"content":""}`) + 8)
	b.WriteString(`{"content":"`)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '/':
			b.WriteString(`\/`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0x0f])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteString(`"}`)
	return b.String()
}

// IsEmptyEnvelope reports whether body means "no update".
func IsEmptyEnvelope(body string) bool {
	trimmed := strings.TrimSpace(body)
	return trimmed == "" || trimmed == "{}"
}

// DecodeEnvelope extracts the content field from body.
func DecodeEnvelope(body string) (string, error) {
	idx := strings.Index(body, contentMarker)
	if idx < 0 {
		return "", &ProtocolError{Err: ErrMissingContent, Body: body}
	}
	start := idx + len(contentMarker)

	end := -1
	for i := start; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			continue
		}
		if body[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", &ProtocolError{Err: ErrUnterminatedString, Body: body}
	}
	return unescape(body[start:end]), nil
}

// unescape reverses \n \r \t \" and \\. Any other escaped character is
// kept with its backslash dropped, so \/ becomes /.
func unescape(raw string) string {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}
