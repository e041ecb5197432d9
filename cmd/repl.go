// Copyright © 2024 The pystyle authors

package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/luthersystems/pystyle/config"
	"github.com/luthersystems/pystyle/diagnostic"
	"github.com/luthersystems/pystyle/repl"
)

// ReplCommand creates the "repl" cobra command.
func ReplCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive style checker",
		Long: `Start an interactive style checker for python source.

Lines typed at the prompt are collected in a buffer.  An entry that is not
yet complete, such as a block or an open bracket, continues on a "..."
prompt; a blank line ends a block.  The buffer is checked with the same
settings as the check command, including pyproject.toml.  Line editing and
command history (~/.pystyle_history) are supported via readline.

Commands:
  :check   check the buffer and print its diagnostics
  :list    print the buffer with line numbers
  :reset   clear the buffer
  :help    list the commands
  :quit    check the buffer and exit

Ctrl-C discards the entry being typed.  Ctrl-D checks the buffer and exits.

Example session:
  pystyle> def Area(w, h):
  ...          return w*h;
  ...
  pystyle> :check
  warning[S003]: Unnecessary semicolon
  ...`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := cfg.loadConfig(cmd)
			if err != nil {
				return err
			}
			linter, err := conf.Linter()
			if err != nil {
				return err
			}
			color, err := diagnostic.ParseColorMode(conf.Color)
			if err != nil {
				return err
			}
			stdin, ok := cfg.stdin.(io.ReadCloser)
			if !ok {
				stdin = io.NopCloser(cfg.stdin)
			}
			return repl.Run(cmd.Context(),
				repl.WithStdin(stdin),
				repl.WithStderr(cfg.stderr),
				repl.WithLinter(linter),
				repl.WithColor(color),
			)
		},
	}

	f := cmd.Flags()
	f.StringSlice(config.KeySelect, nil,
		"Comma-separated checks to run, by code or name (default: all).")
	f.StringSlice(config.KeyIgnore, nil,
		"Comma-separated checks to skip, by code or name.")
	f.Bool(config.KeyNoqa, false,
		`Honour "# noqa" comments.`)
	f.String(config.KeyColor, "auto",
		`Color for diagnostics: "auto", "always", or "never".`)
	return cmd
}
