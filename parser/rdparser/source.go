// Copyright © 2024 The pystyle authors

package rdparser

import (
	"github.com/luthersystems/pystyle/parser/lexer"
	"github.com/luthersystems/pystyle/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *lexer.Lexer.
type TokenStream interface {
	// ReadToken returns a set of token from an input source.  When no more
	// tokens can be generated ReadToken returns a token with type token.EOF.
	// ReadToken never returns an empty slice.  In the presence of errors a
	// TokenStream must return a token with type token.ERROR whenever called.
	ReadToken() []*token.Token
}

// TokenGenerator implements TokenStream.  The function will be called any time
// a TokenSource wants a token.
type TokenGenerator func() []*token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() []*token.Token {
	return fn()
}

// TokenSource buffers the significant tokens of a TokenStream and provides
// methods to process and branch off them.  Comments and non-logical line
// breaks are dropped.  The buffer ends with the first EOF or ERROR token.
type TokenSource struct {
	Token *token.Token
	toks  []*token.Token
	pos   int
}

func NewTokenStreamSource(stream TokenStream) *TokenSource {
	s := &TokenSource{}
	for {
		for _, tok := range stream.ReadToken() {
			switch tok.Type {
			case token.COMMENT, token.NL:
				continue
			}
			s.toks = append(s.toks, tok)
			if tok.Type == token.EOF || tok.Type == token.ERROR {
				return s
			}
		}
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

func (s *TokenSource) Peek() *token.Token {
	return s.PeekN(0)
}

// PeekN returns the token n positions beyond the next token.  Past the end of
// the buffer PeekN returns the final EOF or ERROR token.
func (s *TokenSource) PeekN(n int) *token.Token {
	i := s.pos + n
	if i >= len(s.toks) {
		i = len(s.toks) - 1
	}
	return s.toks[i]
}

func (s *TokenSource) Accept(fn func(*token.Token) bool) bool {
	if fn(s.Peek()) {
		s.scan()
		return true
	}
	return false
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	typ := s.Peek().Type
	return typ == token.EOF || typ == token.ERROR
}

// Mark returns the current position in the stream for a later call to Reset.
func (s *TokenSource) Mark() int {
	return s.pos
}

// Reset rewinds the stream to a position returned by Mark.
func (s *TokenSource) Reset(mark int) {
	s.pos = mark
	s.Token = nil
	if mark > 0 {
		s.Token = s.toks[mark-1]
	}
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
}
