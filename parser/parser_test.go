// Copyright © 2024 The pystyle authors

package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/token"
)

func TestParse(t *testing.T) {
	res := Parse("ok.py", []byte("def f(a):\n    return a\n"))
	require.True(t, res.Parsed())
	assert.NoError(t, res.Skip)
	require.Len(t, res.Module.Body, 1)
	assert.IsType(t, &ast.FunctionDef{}, res.Module.Body[0])
}

func TestParse_skip(t *testing.T) {
	res := Parse("bad.py", []byte("def f(:\n    pass\n"))
	assert.False(t, res.Parsed())
	assert.Nil(t, res.Module)
	require.Error(t, res.Skip)
	var locErr *token.LocationError
	require.True(t, errors.As(res.Skip, &locErr))
	assert.Equal(t, "bad.py", locErr.Source.File)
	assert.Equal(t, 1, locErr.Source.Line)
}

func TestParse_lineEndings(t *testing.T) {
	for _, src := range []string{
		"if x:\r\n    y = 1\r\n",
		"if x:\r    y = 1\r",
		"\ufeffif x:\n    y = 1\n",
	} {
		res := Parse("crlf.py", []byte(src))
		require.True(t, res.Parsed(), "source %q: %v", src, res.Skip)
		stmt, ok := res.Module.Body[0].(*ast.If)
		require.True(t, ok)
		assert.Equal(t, 2, ast.Line(stmt.Body[0]))
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", string(Normalize([]byte("a\r\nb\rc\n"))))
	assert.Equal(t, "x\n", string(Normalize([]byte("\ufeffx\n"))))
	src := []byte("unchanged\n")
	assert.Equal(t, src, Normalize(src))
}
