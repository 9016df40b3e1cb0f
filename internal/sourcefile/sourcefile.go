// Package sourcefile reads and writes source text in a configured encoding.
package sourcefile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// ErrInvalidUTF8 is returned when a UTF-8 file contains malformed bytes.
var ErrInvalidUTF8 = errors.New("invalid utf-8 byte sequence")

// Codec decodes files into text and encodes text back into files.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for strict UTF-8
}

// NewCodec resolves an encoding label such as "utf-8", "shift_jis" or
// "euc-jp".
func NewCodec(label string) (*Codec, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "utf-8" || label == "utf8" {
		return &Codec{name: DefaultEncoding}, nil
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	if name == DefaultEncoding {
		return &Codec{name: DefaultEncoding}, nil
	}
	return &Codec{name: name, enc: enc}, nil
}

// Name returns the canonical encoding name.
func (c *Codec) Name() string { return c.name }

// Decode converts raw file bytes into text. A byte-order mark is kept as the
// U+FEFF code point.
func (c *Codec) Decode(raw []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(raw) {
			return "", ErrInvalidUTF8
		}
		return string(raw), nil
	}
	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	return string(out), nil
}

// Encode converts text back into file bytes.
func (c *Codec) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}

// ReadFile reads and decodes the file at path.
func (c *Codec) ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	text, err := c.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// WriteFile encodes text and overwrites the file at path, keeping its mode.
func (c *Codec) WriteFile(path, text string) error {
	data, err := c.Encode(text)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
