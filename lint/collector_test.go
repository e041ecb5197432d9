// Copyright © 2024 The pystyle authors

package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diag(c *Check, args ...any) Diagnostic {
	return Diagnostic{Pos: Position{File: "t.py"}, Code: c.Code, Check: c.Name, Message: c.Message(args...)}
}

func TestCollector_Finalize(t *testing.T) {
	c := NewCollector()
	c.Record(7, diag(CheckTodo))
	c.Record(2, diag(CheckVariableName, "B"))
	c.Record(2, diag(CheckLineTooLong))
	c.Record(2, diag(CheckVariableName, "A"))
	c.Record(7, diag(CheckSemicolon))
	assert.Equal(t, 5, c.Len())

	lines := c.Finalize()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Line)
	assert.Equal(t, 7, lines[1].Line)

	var got []string
	for _, d := range lines[0].Diagnostics {
		assert.Equal(t, 2, d.Pos.Line)
		got = append(got, d.Code+" "+d.Message)
	}
	assert.Equal(t, []string{
		"S001 Too long",
		"S011 Variable name 'A' should be written in snake_case",
		"S011 Variable name 'B' should be written in snake_case",
	}, got)
	assert.Equal(t, "S003", lines[1].Diagnostics[0].Code)
	assert.Equal(t, "S005", lines[1].Diagnostics[1].Code)
}

func TestCollector_Duplicates(t *testing.T) {
	c := NewCollector()
	first := diag(CheckMutableDefault)
	first.Pos.Col = 9
	second := diag(CheckMutableDefault)
	second.Pos.Col = 20
	c.Record(1, first)
	c.Record(1, second)

	lines := c.Finalize()
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Diagnostics, 1)
	assert.Equal(t, 9, lines[0].Diagnostics[0].Pos.Col, "first occurrence kept")
}

func TestCollector_Empty(t *testing.T) {
	c := NewCollector()
	assert.Empty(t, c.Finalize())
	assert.Equal(t, 0, c.Len())
}

func TestCollector_Filter(t *testing.T) {
	c := NewCollector()
	c.Record(1, diag(CheckSemicolon))
	c.Record(2, diag(CheckSemicolon))
	c.Record(2, diag(CheckTodo))
	c.Filter(func(d Diagnostic) bool {
		return d.Code != CheckSemicolon.Code
	})
	lines := c.Finalize()
	require.Len(t, lines, 1, "lines left empty are dropped")
	assert.Equal(t, 2, lines[0].Line)
	assert.Equal(t, "S005", lines[0].Diagnostics[0].Code)
}
