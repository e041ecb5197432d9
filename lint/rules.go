// Copyright © 2024 The pystyle authors

package lint

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLineLength is the longest line, newline included, that S001 accepts.
const MaxLineLength = 79

// LineRule checks one physical line.  lines holds the whole file for rules
// that need to look at neighbouring lines.
type LineRule func(line SourceLine, lines []SourceLine, p *Pass)

// lexicalRules run, in order, on every line of a file.
var lexicalRules = []LineRule{
	checkLineLength,
	checkIndentation,
	checkSemicolon,
	checkInlineComment,
	checkTodo,
	checkDefinition,
}

var (
	snakeCase  = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	camelCase  = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	definition = regexp.MustCompile(`^\s*(class|def)(\s+)([\p{L}\p{N}_]+)[(:]`)
)

// IsSnakeCase reports whether name is lowercase words joined by underscores.
func IsSnakeCase(name string) bool {
	return snakeCase.MatchString(name)
}

// IsCamelCase reports whether name is capitalized words run together.
func IsCamelCase(name string) bool {
	return camelCase.MatchString(name)
}

func checkLineLength(line SourceLine, _ []SourceLine, p *Pass) {
	if line.Len() <= MaxLineLength {
		return
	}
	end := utf8.RuneCountInString(line.Content())
	p.Report(CheckLineTooLong, line.Num, min(MaxLineLength+1, end), end)
}

func checkIndentation(line SourceLine, _ []SourceLine, p *Pass) {
	if !strings.HasPrefix(line.Text, " ") {
		return
	}
	n := len(line.Text) - len(strings.TrimLeft(line.Text, " "))
	if n%4 != 0 {
		p.Report(CheckIndentation, line.Num, 1, n)
	}
}

func checkSemicolon(line SourceLine, _ []SourceLine, p *Pass) {
	code, _, _ := strings.Cut(line.Text, "#")
	code = strings.TrimRightFunc(code, isSpace)
	if utf8.RuneCountInString(code) > 1 && strings.HasSuffix(code, ";") {
		col := utf8.RuneCountInString(code)
		p.Report(CheckSemicolon, line.Num, col, col)
	}
}

func checkInlineComment(line SourceLine, _ []SourceLine, p *Pass) {
	code, _, found := strings.Cut(line.Text, "#")
	if !found || code == "" {
		return
	}
	if len(code)-len(strings.TrimRight(code, " ")) < 2 {
		col := utf8.RuneCountInString(code) + 1
		p.Report(CheckInlineComment, line.Num, col, col)
	}
}

func checkTodo(line SourceLine, _ []SourceLine, p *Pass) {
	code, comment, found := strings.Cut(line.Content(), "#")
	if !found || !strings.Contains(strings.ToLower(comment), "todo") {
		return
	}
	col := utf8.RuneCountInString(code) + 1
	p.Report(CheckTodo, line.Num, col, col+utf8.RuneCountInString(comment))
}

// checkDefinition inspects def and class headers for keyword spacing and
// naming.
func checkDefinition(line SourceLine, _ []SourceLine, p *Pass) {
	m := definition.FindStringSubmatchIndex(line.Text)
	if m == nil {
		return
	}
	keyword := line.Text[m[2]:m[3]]
	spaces := line.Text[m[4]:m[5]]
	name := line.Text[m[6]:m[7]]
	column := func(off int) int {
		return utf8.RuneCountInString(line.Text[:off]) + 1
	}

	if spaces != " " {
		p.Report(CheckDefinitionSpacing, line.Num, column(m[4]), column(m[5])-1, keyword)
	}
	nameCol, nameEnd := column(m[6]), column(m[7])-1
	switch keyword {
	case "class":
		if !IsCamelCase(name) {
			p.Report(CheckClassName, line.Num, nameCol, nameEnd, name)
		}
	case "def":
		if !IsSnakeCase(name) {
			p.Report(CheckFunctionName, line.Num, nameCol, nameEnd, name)
		}
	}
}

// blankRun counts consecutive blank lines.
type blankRun struct {
	count int
}

// observe feeds the next line to the run and reports whether it is a code
// line preceded by more than two blank lines.
func (b *blankRun) observe(line SourceLine) bool {
	if line.Blank() {
		b.count++
		return false
	}
	fire := b.count > 2
	b.count = 0
	return fire
}

// checkBlankLines runs once over the whole file.  A run of blank lines at
// the end of the file is never reported.
func checkBlankLines(lines []SourceLine, p *Pass) {
	var run blankRun
	for _, line := range lines {
		if run.observe(line) {
			p.Report(CheckBlankLines, line.Num, 0, 0)
		}
	}
}
