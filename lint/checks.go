// Copyright © 2024 The pystyle authors

package lint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Check describes one style rule and the diagnostics it produces.
type Check struct {
	// Code is the stable identifier printed in reports (e.g. "S001").
	Code string

	// Name is a short readable identifier (e.g. "line-too-long").
	Name string

	// Format is the message template.  Parameterized messages take the
	// offending keyword or name.
	Format string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the severity of diagnostics reported by this check.
	Severity Severity
}

// Message renders the check's message.
func (c *Check) Message(args ...any) string {
	if len(args) == 0 {
		return c.Format
	}
	return fmt.Sprintf(c.Format, args...)
}

// Summary returns the first line of Doc.
func (c *Check) Summary() string {
	summary, _, _ := strings.Cut(c.Doc, "\n")
	return summary
}

var (
	CheckLineTooLong = &Check{
		Code:     "S001",
		Name:     "line-too-long",
		Format:   "Too long",
		Severity: SeverityWarning,
		Doc:      "Report lines longer than 79 characters.\n\nThe length is measured in characters of the raw line, including its line break, so a line of 79 visible characters followed by a newline is already too long.",
	}
	CheckIndentation = &Check{
		Code:     "S002",
		Name:     "indentation",
		Format:   "Indentation is not a multiple of four",
		Severity: SeverityWarning,
		Doc:      "Report space indentation that is not a multiple of four.\n\nOnly lines whose first character is a space are checked. Lines indented with tabs, and lines with no indentation, are never reported.",
	}
	CheckSemicolon = &Check{
		Code:     "S003",
		Name:     "semicolon",
		Format:   "Unnecessary semicolon",
		Severity: SeverityWarning,
		Doc:      "Report statements terminated by a semicolon.\n\nAny comment and trailing whitespace are removed before the check. A line consisting of a lone semicolon is not reported.",
	}
	CheckInlineComment = &Check{
		Code:     "S004",
		Name:     "inline-comment-spacing",
		Format:   "At least two spaces required before inline comments",
		Severity: SeverityWarning,
		Doc:      "Require two spaces between code and an inline comment.\n\nA comment that starts in the first column is not inline. A comment marker inside a string literal is treated like any other marker.",
	}
	CheckTodo = &Check{
		Code:     "S005",
		Name:     "todo",
		Format:   "TODO found",
		Severity: SeverityInfo,
		Doc:      "Report comments mentioning TODO, in any letter case.\n\nThe whole text after the first comment marker is searched.",
	}
	CheckBlankLines = &Check{
		Code:     "S006",
		Name:     "blank-lines",
		Format:   "More than two blank lines preceding a code line",
		Severity: SeverityWarning,
		Doc:      "Report code lines preceded by more than two blank lines.\n\nA line holding only whitespace counts as blank. Blank lines at the end of a file are not reported.",
	}
	CheckDefinitionSpacing = &Check{
		Code:     "S007",
		Name:     "definition-spacing",
		Format:   "Too many spaces after '%s'",
		Severity: SeverityWarning,
		Doc:      "Require exactly one space after the def and class keywords.",
	}
	CheckClassName = &Check{
		Code:     "S008",
		Name:     "class-name",
		Format:   "Class name '%s' should use CamelCase",
		Severity: SeverityWarning,
		Doc:      "Require CamelCase class names.\n\nA class name must start with an uppercase ASCII letter followed by ASCII letters and digits.",
	}
	CheckFunctionName = &Check{
		Code:     "S009",
		Name:     "function-name",
		Format:   "Function name '%s' should use snake_case",
		Severity: SeverityWarning,
		Doc:      "Require snake_case function names.\n\nA function name must consist of lowercase ASCII letters, digits and underscores, and must not start with a digit.",
	}
	CheckArgumentName = &Check{
		Code:     "S010",
		Name:     "argument-name",
		Format:   "Argument name '%s' should be written in snake_case",
		Severity: SeverityWarning,
		Doc:      "Require snake_case names for positional parameters.\n\nPositional-only, variadic and keyword-only parameters are not checked, nor are the parameters of async functions and lambdas. The diagnostic is attached to the line of the def keyword.",
	}
	CheckVariableName = &Check{
		Code:     "S011",
		Name:     "variable-name",
		Format:   "Variable name '%s' should be written in snake_case",
		Severity: SeverityWarning,
		Doc:      "Require snake_case names for assigned variables.\n\nEvery name bound by an assignment statement, augmented or annotated assignment, for loop, with statement, comprehension, assignment expression or type alias is checked. Names bound by imports, definitions, except clauses and match patterns are not.",
	}
	CheckMutableDefault = &Check{
		Code:     "S012",
		Name:     "mutable-default",
		Format:   "The default argument value is mutable",
		Severity: SeverityWarning,
		Doc:      "Report list, dict and set displays used as positional parameter defaults.\n\nThe default value is created once, when the def statement runs, and is shared by every call. Calls such as list() and comprehensions are not reported.",
	}
)

var checks = []*Check{
	CheckLineTooLong,
	CheckIndentation,
	CheckSemicolon,
	CheckInlineComment,
	CheckTodo,
	CheckBlankLines,
	CheckDefinitionSpacing,
	CheckClassName,
	CheckFunctionName,
	CheckArgumentName,
	CheckVariableName,
	CheckMutableDefault,
}

// Checks returns the built-in checks ordered by code.
func Checks() []*Check {
	return append([]*Check(nil), checks...)
}

// LookupCheck finds a check by code (case-insensitive) or name.
func LookupCheck(key string) (*Check, bool) {
	for _, c := range checks {
		if strings.EqualFold(c.Code, key) || c.Name == key {
			return c, true
		}
	}
	return nil, false
}
