// Copyright © 2024 The pystyle authors

package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", numTokenTypes.String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "a.py", (&Location{File: "a.py", Pos: -1}).String())
	assert.Equal(t, "a.py[12]", (&Location{File: "a.py", Pos: 12}).String())
	assert.Equal(t, "a.py:3", (&Location{File: "a.py", Line: 3}).String())
	assert.Equal(t, "a.py:3:7", (&Location{File: "a.py", Line: 3, Col: 7}).String())
}

func TestLocationErrorUnwrap(t *testing.T) {
	err := Errorf(&Location{File: "a.py", Line: 2, Col: 1}, "invalid syntax")
	assert.Equal(t, "a.py:2:1: invalid syntax", err.Error())

	var locErr *LocationError
	assert.True(t, errors.As(error(err), &locErr))
	assert.Equal(t, 2, locErr.Source.Line)
}

func TestTokenIs(t *testing.T) {
	assert.True(t, (&Token{Type: OP, Text: "("}).Is("("))
	assert.True(t, (&Token{Type: NAME, Text: "def"}).Is("def"))
	assert.False(t, (&Token{Type: STRING, Text: "def"}).Is("def"))
}
