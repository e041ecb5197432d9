// Copyright © 2024 The pystyle authors

package rdparser

import (
	"strings"

	"github.com/luthersystems/pystyle/parser/lexer"
	"github.com/luthersystems/pystyle/parser/token"
)

// Incomplete reports whether src, typed interactively, needs more input before
// it can be checked.  That is the case inside an open bracket or triple-quoted
// string, after a line continuation, after a block header, and inside an
// indented block that has not been ended by a blank line.
func Incomplete(src []byte) bool {
	lex := lexer.New(token.NewScanner("<stdin>", src))
	var last *token.Token
	depth := 0
	for {
		toks := lex.ReadToken()
		atEOF := toks[len(toks)-1].Type == token.EOF
		for _, tok := range toks {
			switch tok.Type {
			case token.ERROR:
				return strings.HasSuffix(tok.Text, "was never closed") ||
					strings.HasPrefix(tok.Text, "unterminated triple-quoted") ||
					strings.HasPrefix(tok.Text, "unexpected EOF")
			case token.EOF:
				if last != nil && last.Is(":") {
					return true
				}
				return depth > 0 && !endsWithBlankLine(src)
			case token.INDENT:
				depth++
			case token.DEDENT:
				if !atEOF {
					depth--
				}
			case token.NEWLINE, token.NL, token.COMMENT:
			default:
				last = tok
			}
		}
	}
}

func endsWithBlankLine(src []byte) bool {
	text := strings.TrimSuffix(string(src), "\n")
	i := strings.LastIndexByte(text, '\n')
	return i >= 0 && strings.TrimSpace(text[i+1:]) == ""
}
