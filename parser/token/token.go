// Copyright © 2024 The pystyle authors

// Package token defines the lexical tokens of Python source text and a rune
// scanner used by the lexer to build them.
package token

import "fmt"

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not been
	// called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek should return a value to indicate the lack of a token (EOF).
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	switch tok.Type {
	case NEWLINE, NL, INDENT, DEDENT, EOF:
		return tok.Type.String()
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

// Is reports whether tok is an OP or NAME token with the given text.
func (tok *Token) Is(text string) bool {
	return (tok.Type == OP || tok.Type == NAME) && tok.Text == text
}

type Type uint

// Type constants produced by the python lexer.
const (
	INVALID Type = iota
	ERROR
	EOF

	NAME
	NUMBER
	STRING

	// OP covers all operators and delimiters.  The token text distinguishes
	// them.
	OP

	COMMENT

	// NEWLINE terminates a logical line.  NL is a line break that does not
	// terminate a logical line (blank lines, comment lines, lines inside
	// brackets).
	NEWLINE
	NL
	INDENT
	DEDENT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID: "invalid",
		ERROR:   "error",
		EOF:     "EOF",
		NAME:    "name",
		NUMBER:  "number",
		STRING:  "string",
		OP:      "op",
		COMMENT: "comment",
		NEWLINE: "newline",
		NL:      "nl",
		INDENT:  "indent",
		DEDENT:  "dedent",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset of the first byte
	Line int    // line number (starting at 1)
	Col  int    // line column number in runes (starting at 1)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}

// Errorf returns a *LocationError at loc.
func Errorf(loc *Location, format string, v ...interface{}) *LocationError {
	return &LocationError{
		Err:    fmt.Errorf(format, v...),
		Source: loc,
	}
}
