// Package pattern finds Japanese, non-ASCII and byte-order-mark code points in
// text and maps their offsets to line positions.
package pattern

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Match is a single regex hit. Start and End are code point offsets into the
// scanned text.
type Match struct {
	Start int
	End   int
	Text  string
}

// Position locates a match for reporting. Line is 1-based, Column is the
// 0-based code point offset within the line.
type Position struct {
	Line   int
	Column int
	Char   string
}

// Pattern is a compiled character-class detector.
type Pattern struct {
	name string
	re   *regexp.Regexp
}

var (
	// Japanese matches any Hiragana, Katakana or Han code point.
	Japanese = mustCompile("japanese", `[\p{Hiragana}\p{Katakana}\p{Han}]`)
	// NonASCII matches any code point outside 7-bit ASCII.
	NonASCII = mustCompile("non-ascii", `[^\x00-\x7F]`)
	// BOM matches the byte-order-mark code point U+FEFF.
	BOM = mustCompile("bom", `\x{FEFF}`)
)

func mustCompile(name, expr string) *Pattern {
	return &Pattern{name: name, re: regexp.MustCompile(expr)}
}

// Name returns a short label used in log lines.
func (p *Pattern) Name() string { return p.name }

// Contains reports whether text has at least one match.
func (p *Pattern) Contains(text string) bool {
	return p.re.MatchString(text)
}

// FindAll returns every match in text with code point offsets.
func (p *Pattern) FindAll(text string) []Match {
	locs := p.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(locs))
	bytePos, runePos := 0, 0
	for _, loc := range locs {
		runePos += utf8.RuneCountInString(text[bytePos:loc[0]])
		width := utf8.RuneCountInString(text[loc[0]:loc[1]])
		matches = append(matches, Match{
			Start: runePos,
			End:   runePos + width,
			Text:  text[loc[0]:loc[1]],
		})
		runePos += width
		bytePos = loc[1]
	}
	return matches
}

// ReplaceAll removes or substitutes every match.
func (p *Pattern) ReplaceAll(text, repl string) string {
	return p.re.ReplaceAllLiteralString(text, repl)
}

// Scan finds all matches in text and converts them to line positions.
func (p *Pattern) Scan(text string) []Position {
	matches := p.FindAll(text)
	if len(matches) == 0 {
		return nil
	}
	return Locate(text, matches)
}

// Locate converts code point offsets to line positions. A match belongs to the
// line whose range satisfies lineStart <= match.Start < lineStart+lineLength,
// where the line length counts the trailing newline.
func Locate(text string, matches []Match) []Position {
	var positions []Position
	lineStart := 0
	for lineNum, line := range strings.Split(text, "\n") {
		lineLength := utf8.RuneCountInString(line) + 1
		for _, m := range matches {
			if lineStart <= m.Start && m.Start < lineStart+lineLength {
				positions = append(positions, Position{
					Line:   lineNum + 1,
					Column: m.Start - lineStart,
					Char:   m.Text,
				})
			}
		}
		lineStart += lineLength
	}
	return positions
}
