// Copyright © 2024 The pystyle authors

// Package lexer turns python source text into a token stream.  Besides the
// usual names, numbers, strings and operators the lexer tracks indentation and
// bracket nesting so it can emit the NEWLINE, INDENT and DEDENT tokens the
// python grammar is defined in terms of.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/luthersystems/pystyle/parser/token"
)

const (
	tabSize        = 8
	maxIndentDepth = 100
	maxNesting     = 200
)

// operators ordered so that longer operators are tried first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", ">>", "<<", "<=", ">=", "==", "!=", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".", "=",
}

var closing = map[string]string{")": "(", "]": "[", "}": "{"}

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "f": true, "b": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

type Lexer struct {
	scanner     *token.Scanner
	indents     []int
	brackets    []*token.Token
	atLineStart bool
	// continued is true while a logical line has produced tokens but has not
	// been terminated by NEWLINE.
	continued bool
	err       *token.Token
	eof       bool
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner:     s,
		indents:     []int{0},
		atLineStart: true,
	}
}

// ReadToken returns the next tokens in the stream.  ReadToken never returns an
// empty slice.  After the end of input every call returns an EOF token and
// after an error every call returns the same ERROR token.
func (lex *Lexer) ReadToken() []*token.Token {
	if lex.err != nil {
		return []*token.Token{lex.err}
	}
	if lex.eof {
		return []*token.Token{lex.emit(token.EOF)}
	}
	if lex.atLineStart && len(lex.brackets) == 0 {
		lex.atLineStart = false
		if toks := lex.readIndent(); len(toks) > 0 {
			return toks
		}
	}
	return lex.readToken()
}

// readIndent measures the indentation of a new physical line and produces
// INDENT or DEDENT tokens for lines that carry code.
func (lex *Lexer) readIndent() []*token.Token {
	col := 0
measure:
	for {
		switch {
		case lex.scanner.AcceptRune(' '):
			col++
		case lex.scanner.AcceptRune('\t'):
			col = (col/tabSize + 1) * tabSize
		case lex.scanner.AcceptRune('\f'):
			col = 0
		default:
			break measure
		}
	}
	lex.scanner.Ignore()
	c, ok := lex.scanner.Peek()
	if !ok || c == '#' || c == '\n' || c == '\\' {
		// Blank lines, comment lines, and EOF do not affect indentation.
		return nil
	}
	top := lex.indents[len(lex.indents)-1]
	if col == top {
		return nil
	}
	if col > top {
		if len(lex.indents) > maxIndentDepth {
			return lex.errorf("too many levels of indentation")
		}
		lex.indents = append(lex.indents, col)
		return []*token.Token{lex.emit(token.INDENT)}
	}
	var toks []*token.Token
	for col < lex.indents[len(lex.indents)-1] {
		lex.indents = lex.indents[:len(lex.indents)-1]
		toks = append(toks, lex.emit(token.DEDENT))
	}
	if col != lex.indents[len(lex.indents)-1] {
		return lex.errorf("unindent does not match any outer indentation level")
	}
	return toks
}

func (lex *Lexer) readToken() []*token.Token {
	lex.scanner.AcceptSeqAny(" \t\f")
	lex.scanner.Ignore()

	c, ok := lex.scanner.Peek()
	if !ok {
		if !lex.scanner.EOF() {
			return lex.errorf("invalid utf-8 sequence")
		}
		return lex.readEOF()
	}

	switch {
	case c == '#':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case c == '\n':
		_ = lex.scanner.ScanRune()
		if len(lex.brackets) > 0 || !lex.continued {
			if len(lex.brackets) == 0 {
				lex.atLineStart = true
			}
			return lex.emitText(token.NL)
		}
		lex.continued = false
		lex.atLineStart = true
		return lex.emitText(token.NEWLINE)
	case c == '\\':
		_ = lex.scanner.ScanRune()
		if !lex.scanner.AcceptRune('\n') {
			return lex.errorf("unexpected character after line continuation character")
		}
		lex.scanner.Ignore()
		if lex.scanner.EOF() {
			return lex.errorf("unexpected EOF while scanning")
		}
		return lex.readToken()
	case c == '"' || c == '\'':
		return lex.readString()
	case isDigit(c):
		return lex.readNumber()
	case c == '.' && lex.peekDigitAfterDot():
		return lex.readNumber()
	case isIdentStart(c):
		return lex.readName()
	}
	return lex.readOperator()
}

func (lex *Lexer) readEOF() []*token.Token {
	if len(lex.brackets) > 0 {
		open := lex.brackets[len(lex.brackets)-1]
		return lex.errorAt(open.Source, "'%s' was never closed", open.Text)
	}
	var toks []*token.Token
	if lex.continued {
		lex.continued = false
		toks = append(toks, lex.emit(token.NEWLINE))
	}
	for len(lex.indents) > 1 {
		lex.indents = lex.indents[:len(lex.indents)-1]
		toks = append(toks, lex.emit(token.DEDENT))
	}
	lex.eof = true
	return append(toks, lex.emit(token.EOF))
}

func (lex *Lexer) readName() []*token.Token {
	lex.scanner.AcceptSeq(isIdentContinue)
	text := lex.scanner.Text()
	if stringPrefixes[strings.ToLower(text)] {
		if c, ok := lex.scanner.Peek(); ok && (c == '"' || c == '\'') {
			return lex.readString()
		}
	}
	lex.continued = true
	tok := lex.scanner.EmitToken(token.NAME)
	if !isASCII(tok.Text) {
		tok.Text = norm.NFKC.String(tok.Text)
	}
	return []*token.Token{tok}
}

// readString scans a string literal.  Any prefix has already been scanned.
func (lex *Lexer) readString() []*token.Token {
	quote, _ := lex.scanner.Peek()
	_ = lex.scanner.ScanRune()
	triple := strings.Repeat(string(quote), 2)
	isTriple := lex.scanner.AcceptString(triple)
	start := lex.scanner.LocStart()
	for {
		if lex.scanner.EOF() {
			if isTriple {
				return lex.errorAt(start, "unterminated triple-quoted string literal")
			}
			return lex.errorAt(start, "unterminated string literal")
		}
		c, ok := lex.scanner.Peek()
		if !ok {
			return lex.errorf("invalid utf-8 sequence")
		}
		if c == '\n' && !isTriple {
			return lex.errorAt(start, "unterminated string literal")
		}
		_ = lex.scanner.ScanRune()
		switch {
		case c == '\\':
			if lex.scanner.EOF() {
				continue
			}
			_ = lex.scanner.ScanRune()
		case c == quote && !isTriple:
			lex.continued = true
			return lex.emitText(token.STRING)
		case c == quote && lex.scanner.AcceptString(triple):
			lex.continued = true
			return lex.emitText(token.STRING)
		}
	}
}

func (lex *Lexer) readNumber() []*token.Token {
	digits := func(valid func(rune) bool) int {
		return lex.scanner.AcceptSeq(func(c rune) bool { return c == '_' || valid(c) })
	}
	if lex.scanner.AcceptRune('0') && lex.scanner.AcceptAny("xXoObB") {
		switch unicode.ToLower(lex.scanner.Rune()) {
		case 'x':
			digits(isHexDigit)
		case 'o':
			digits(func(c rune) bool { return '0' <= c && c <= '7' })
		case 'b':
			digits(func(c rune) bool { return c == '0' || c == '1' })
		}
		if strings.HasSuffix(lex.scanner.Text(), "_") || len(lex.scanner.Text()) == 2 {
			return lex.errorf("invalid %s literal", lex.scanner.Text())
		}
		lex.continued = true
		return lex.emitText(token.NUMBER)
	}
	digits(isDigit)
	if lex.scanner.AcceptRune('.') {
		digits(isDigit)
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		if digits(isDigit) == 0 {
			return lex.errorf("invalid decimal literal")
		}
	}
	lex.scanner.AcceptAny("jJ")
	if strings.HasSuffix(lex.scanner.Text(), "_") {
		return lex.errorf("invalid decimal literal")
	}
	lex.continued = true
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) readOperator() []*token.Token {
	for _, op := range operators {
		if !lex.scanner.AcceptString(op) {
			continue
		}
		switch op {
		case "(", "[", "{":
			if len(lex.brackets) >= maxNesting {
				return lex.errorf("too many nested parentheses")
			}
			tok := lex.scanner.EmitToken(token.OP)
			lex.brackets = append(lex.brackets, tok)
			lex.continued = true
			return []*token.Token{tok}
		case ")", "]", "}":
			if len(lex.brackets) == 0 {
				return lex.errorf("unmatched '%s'", op)
			}
			open := lex.brackets[len(lex.brackets)-1]
			if open.Text != closing[op] {
				return lex.errorf("closing parenthesis '%s' does not match opening parenthesis '%s'", op, open.Text)
			}
			lex.brackets = lex.brackets[:len(lex.brackets)-1]
		}
		lex.continued = true
		return lex.emitText(token.OP)
	}
	c, _ := lex.scanner.Peek()
	return lex.errorf("invalid character %q", c)
}

func (lex *Lexer) peekDigitAfterDot() bool {
	for _, d := range "0123456789" {
		if lex.scanner.HasPrefix("." + string(d)) {
			return true
		}
	}
	return false
}

func (lex *Lexer) emit(typ token.Type) *token.Token {
	lex.scanner.Ignore()
	return &token.Token{
		Type:   typ,
		Source: lex.scanner.LocStart(),
	}
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.errorAt(lex.scanner.LocStart(), format, v...)
}

func (lex *Lexer) errorAt(loc *token.Location, format string, v ...interface{}) []*token.Token {
	lex.err = &token.Token{
		Type:   token.ERROR,
		Text:   fmt.Sprintf(format, v...),
		Source: loc,
	}
	return []*token.Token{lex.err}
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.Is(unicode.Nl, c) || unicode.Is(unicode.Other_ID_Start, c)
}

func isIdentContinue(c rune) bool {
	return isIdentStart(c) || unicode.IsDigit(c) || unicode.Is(unicode.Mn, c) ||
		unicode.Is(unicode.Mc, c) || unicode.Is(unicode.Pc, c) || unicode.Is(unicode.Other_ID_Continue, c)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
