// Copyright © 2024 The pystyle authors

package lint

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/pystyle/parser"
)

// SourceLine is one physical line of a source file.
type SourceLine struct {
	// Num is the 1-based line number.
	Num int
	// Text is the raw line including its trailing newline, if any.
	Text string
}

// Len returns the length of the raw line in code points, newline included.
func (l SourceLine) Len() int {
	return utf8.RuneCountInString(l.Text)
}

// Content returns the line without its trailing newline.
func (l SourceLine) Content() string {
	return strings.TrimSuffix(l.Text, "\n")
}

// Blank reports whether the line holds nothing but whitespace.
func (l SourceLine) Blank() bool {
	return strings.TrimFunc(l.Text, isSpace) == ""
}

// isSpace matches the whitespace set of python's str methods, which adds the
// ASCII separator characters to unicode.IsSpace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r >= 0x1c && r <= 0x1f
}

// SplitLines splits src into physical lines with universal newline
// semantics.  Every line but the last ends with "\n".  Empty input has no
// lines.
func SplitLines(src []byte) []SourceLine {
	text := string(parser.Normalize(src))
	var lines []SourceLine
	for num := 1; text != ""; num++ {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, SourceLine{Num: num, Text: text})
			break
		}
		lines = append(lines, SourceLine{Num: num, Text: text[:i+1]})
		text = text[i+1:]
	}
	return lines
}
