// Copyright © 2024 The pystyle authors

package lint

import (
	"strings"

	parsec "github.com/prataprc/goparsec"
)

/*
noqa directives are comments of the form

	directive := "noqa" [ ':' codes ]
	codes     := code ( ',' code )*
	code      := /[A-Za-z][0-9]{3}/

The keyword is matched case-insensitively.  A directive without codes
suppresses every diagnostic on its line.
*/

// noqa is the set of codes suppressed on one line.  A nil codes map
// suppresses everything.
type noqa struct {
	codes map[string]bool
}

func (n *noqa) suppresses(d Diagnostic) bool {
	return n.codes == nil || n.codes[d.Code]
}

var noqaParser = newNoqaParser()

func newNoqaParser() parsec.Parser {
	keyword := parsec.Token(`(?i)noqa\b`, "NOQA")
	colon := parsec.Atom(":", "COLON")
	comma := parsec.Atom(",", "COMMA")
	code := parsec.Token(`[A-Za-z][0-9]{3}\b`, "CODE")
	codes := parsec.Kleene(nil, code, comma)
	return parsec.And(nil,
		keyword,
		parsec.Maybe(nil, parsec.And(nil, colon, codes)),
	)
}

// parseNoqa looks for a directive at the start of each comment segment of
// line.  It returns nil when the line has no directive.
func parseNoqa(line string) *noqa {
	_, comment, found := strings.Cut(line, "#")
	for found {
		var segment string
		segment, comment, found = strings.Cut(comment, "#")
		root, _ := noqaParser(parsec.NewScanner([]byte(segment)))
		if root == nil {
			continue
		}
		n := &noqa{}
		for _, c := range terminals(root, "CODE") {
			if n.codes == nil {
				n.codes = make(map[string]bool)
			}
			n.codes[strings.ToUpper(c)] = true
		}
		return n
	}
	return nil
}

// terminals collects the values of named terminals under node.
func terminals(node parsec.ParsecNode, name string) []string {
	switch node := node.(type) {
	case *parsec.Terminal:
		if node.Name == name {
			return []string{node.Value}
		}
	case []parsec.ParsecNode:
		var values []string
		for _, child := range node {
			values = append(values, terminals(child, name)...)
		}
		return values
	}
	return nil
}

// applyNoqa drops the diagnostics suppressed by directives on their lines.
func applyNoqa(c *Collector, lines []SourceLine) {
	directives := make(map[int]*noqa)
	for _, line := range lines {
		if n := parseNoqa(line.Content()); n != nil {
			directives[line.Num] = n
		}
	}
	if len(directives) == 0 {
		return
	}
	c.Filter(func(d Diagnostic) bool {
		n, ok := directives[d.Pos.Line]
		return !ok || !n.suppresses(d)
	})
}
