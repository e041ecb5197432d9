// Copyright © 2024 The pystyle authors

package lsp

import (
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// utf16Offset converts a 0-based rune column in text to the UTF-16 code
// unit offset LSP positions use.  Columns past the end are clamped.
func utf16Offset(text string, col int) protocol.UInteger {
	n := 0
	for i, r := range []rune(text) {
		if i >= col {
			break
		}
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return safeUint(n)
}

// runeColumn converts a UTF-16 offset in text back to a 0-based rune column.
func runeColumn(text string, offset protocol.UInteger) int {
	n := protocol.UInteger(0)
	for i, r := range []rune(text) {
		if n >= offset {
			return i
		}
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return utf8.RuneCountInString(text)
}

// columnRange returns the LSP range covering the 1-based rune columns
// col..endCol of a line.  A zero col selects the whole line.
func columnRange(line int, text string, col, endCol int) protocol.Range {
	l := safeUint(line - 1)
	start, end := 0, utf8.RuneCountInString(text)
	if col > 0 {
		start = col - 1
		end = max(endCol, col)
	}
	return protocol.Range{
		Start: protocol.Position{Line: l, Character: utf16Offset(text, start)},
		End:   protocol.Position{Line: l, Character: utf16Offset(text, end)},
	}
}

// lineEnd returns the position after the last character of a 0-based line.
func lineEnd(line int, text string) protocol.Position {
	return protocol.Position{Line: safeUint(line), Character: utf16Offset(text, utf8.RuneCountInString(text))}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
