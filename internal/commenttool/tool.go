// Package commenttool scans C/C++ sources for Japanese text and byte-order
// marks and records Japanese comments in the translation dictionary.
package commenttool

import (
	"context"
	"fmt"

	"comment-tool/internal/comments"
	"comment-tool/internal/dictionary"
	"comment-tool/internal/pattern"
	"comment-tool/internal/sourcefile"
	"comment-tool/internal/textutil"

	"github.com/rs/zerolog"
)

// Tool holds the translation dictionary and performs the per-file operations.
type Tool struct {
	dict  *dictionary.Dictionary
	codec *sourcefile.Codec
	log   zerolog.Logger
}

// New creates a Tool. The dictionary is expected to be loaded already.
func New(dict *dictionary.Dictionary, codec *sourcefile.Codec, logger zerolog.Logger) *Tool {
	return &Tool{
		dict:  dict,
		codec: codec,
		log:   logger,
	}
}

// Dictionary returns the dictionary the tool records into.
func (t *Tool) Dictionary() *dictionary.Dictionary { return t.dict }

func (t *Tool) readText(path string) (string, error) {
	text, err := t.codec.ReadFile(path)
	if err != nil {
		return "", err
	}
	return textutil.NormalizeNewlines(text), nil
}

// Scan returns the line positions of every p match in the file.
func (t *Tool) Scan(path string, p *pattern.Pattern) ([]pattern.Position, error) {
	text, err := t.readText(path)
	if err != nil {
		return nil, err
	}
	return p.Scan(text), nil
}

// ScanJapanese returns the positions of Hiragana, Katakana and Han characters.
func (t *Tool) ScanJapanese(path string) ([]pattern.Position, error) {
	return t.Scan(path, pattern.Japanese)
}

// ScanNonASCII returns the positions of characters outside 7-bit ASCII.
func (t *Tool) ScanNonASCII(path string) ([]pattern.Position, error) {
	return t.Scan(path, pattern.NonASCII)
}

// ScanBOM returns the positions of byte-order-mark characters.
func (t *Tool) ScanBOM(path string) ([]pattern.Position, error) {
	return t.Scan(path, pattern.BOM)
}

// RemoveBOM strips every byte-order-mark character from the file in place.
// It reports false without touching the file when there is nothing to remove.
// Line endings are kept as they are.
func (t *Tool) RemoveBOM(path string) (bool, error) {
	text, err := t.codec.ReadFile(path)
	if err != nil {
		return false, err
	}
	if !pattern.BOM.Contains(text) {
		return false, nil
	}
	if err := t.codec.WriteFile(path, pattern.BOM.ReplaceAll(text, "")); err != nil {
		return false, err
	}
	return true, nil
}

// ProcessFile records every Japanese comment of the file in the dictionary and
// saves it. A failed save is logged and does not fail the file.
func (t *Tool) ProcessFile(ctx context.Context, path string) error {
	text, err := t.readText(path)
	if err != nil {
		return err
	}

	for _, c := range comments.Extract(text) {
		if !pattern.Japanese.Contains(c.Text) {
			continue
		}
		if t.dict.Add(c.Text) {
			t.log.Info().
				Str("file", path).
				Int("line", c.StartLine+1).
				Str("comment", c.Text).
				Msg("Found Japanese comment")
		}
	}

	if err := t.dict.Save(ctx); err != nil {
		t.log.Error().Err(err).Msg("Error saving dictionary")
	}
	return nil
}

// StripComments rewrites the file with every comment removed and blank lines
// dropped. It reports false when the content is unchanged.
func (t *Tool) StripComments(path string) (bool, error) {
	text, err := t.readText(path)
	if err != nil {
		return false, err
	}

	stripped := comments.Strip(text, comments.Extract(text))
	if stripped == text {
		return false, nil
	}
	if err := t.codec.WriteFile(path, stripped); err != nil {
		return false, fmt.Errorf("rewrite %s: %w", path, err)
	}
	return true, nil
}
