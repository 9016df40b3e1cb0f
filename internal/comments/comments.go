// Package comments extracts C/C++ style comments from source text and strips
// them back out.
//
// Matching is marker based: string literals and nesting are not tracked, so a
// "//" inside a string literal starts a comment.
package comments

import (
	"strings"
	"unicode"
)

const (
	lineMarker  = "//"
	blockOpen   = "/*"
	blockClose  = "*/"
	lineBreak   = "\n"
	closeLength = len(blockClose)
)

// Span is a single comment found in source text.
type Span struct {
	// Text is the comment including its delimiters, trimmed.
	Text string
	// StartLine is the 0-based line the comment starts on.
	StartLine int
	// EndLine is the 0-based line the comment ends on.
	EndLine int
}

// IsLine reports whether the span is a "//" comment.
func (s Span) IsLine() bool {
	return strings.HasPrefix(s.Text, lineMarker)
}

// Extract returns every comment in content: first the "//" comments in line
// order, then the block comments in file order. An unterminated "/*" ends the
// block comment search for the rest of the text.
func Extract(content string) []Span {
	var spans []Span

	for i, line := range strings.Split(content, lineBreak) {
		idx := strings.Index(line, lineMarker)
		if idx < 0 {
			continue
		}
		if text := strings.TrimSpace(line[idx:]); text != "" {
			spans = append(spans, Span{Text: text, StartLine: i, EndLine: i})
		}
	}

	start := 0
	for {
		open := strings.Index(content[start:], blockOpen)
		if open < 0 {
			break
		}
		open += start

		// The close search begins at the opening marker, so "/*/" closes itself.
		end := strings.Index(content[open:], blockClose)
		if end < 0 {
			break
		}
		end += open

		if text := strings.TrimSpace(content[open : end+closeLength]); text != "" {
			spans = append(spans, Span{
				Text:      text,
				StartLine: strings.Count(content[:open], lineBreak),
				EndLine:   strings.Count(content[:end], lineBreak),
			})
		}
		start = end + closeLength
	}

	return spans
}

// Strip removes the given comments from content while keeping the code around
// them. Every line left blank afterwards is dropped, including blank lines that
// were already present.
func Strip(content string, spans []Span) string {
	lines := strings.Split(content, lineBreak)

	for _, s := range spans {
		if s.StartLine < 0 || s.EndLine >= len(lines) || s.StartLine > s.EndLine {
			continue
		}

		if s.IsLine() {
			line := lines[s.StartLine]
			if idx := strings.Index(line, lineMarker); idx >= 0 {
				lines[s.StartLine] = strings.TrimRightFunc(line[:idx], unicode.IsSpace)
			}
			continue
		}

		first := lines[s.StartLine]
		before := first
		if idx := strings.Index(first, blockOpen); idx >= 0 {
			before = first[:idx]
		}
		before = strings.TrimRightFunc(before, unicode.IsSpace)

		last := lines[s.EndLine]
		after := ""
		if idx := strings.Index(last, blockClose); idx >= 0 {
			after = strings.TrimSpace(last[idx+closeLength:])
		}

		switch {
		case before != "" && after != "":
			lines[s.StartLine] = before + " " + after
		case before != "":
			lines[s.StartLine] = before
		default:
			lines[s.StartLine] = after
		}

		for i := s.StartLine + 1; i <= s.EndLine; i++ {
			lines[i] = ""
		}
	}

	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, lineBreak)
}
