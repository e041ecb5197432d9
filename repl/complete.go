// Copyright © 2024 The pystyle authors

package repl

import (
	"sort"
	"strings"
)

// commands maps each REPL command to its help text.
var commands = map[string]string{
	":check": "check the buffer and print its diagnostics",
	":help":  "show this help",
	":list":  "print the buffer with line numbers",
	":quit":  "check the buffer and exit",
	":reset": "clear the buffer",
}

// commandCompleter implements readline.AutoCompleter for the ":" commands.
// Python source is not completed.
type commandCompleter struct{}

func (commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	if strings.TrimSpace(prefix) != prefix || !strings.HasPrefix(prefix, ":") {
		return nil, 0
	}
	var result [][]rune
	for _, name := range commandNames() {
		if strings.HasPrefix(name, prefix) {
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len(prefix)
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
