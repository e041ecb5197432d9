// Copyright © 2024 The pystyle authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/pystyle/docs"
	"github.com/luthersystems/pystyle/lint"
)

// DocCommand creates the "doc" cobra command.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		guide bool
		width uint
	)

	cmd := &cobra.Command{
		Use:   "doc [flags] [CHECK...]",
		Short: "Show documentation for pystyle checks",
		Long: `Show the documentation of checks, looked up by code or name.

With no arguments every check is described.  Use --guide to print the style
guide, which also covers suppression and configuration.

Examples:
  pystyle doc                  Describe every check
  pystyle doc S012             Describe the mutable default check
  pystyle doc todo semicolon   Describe checks by name
  pystyle doc --guide          Print the style guide`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if guide {
				_, err := io.WriteString(cfg.stdout, docs.StyleGuide)
				return err
			}
			checks := lint.Checks()
			if len(args) > 0 {
				checks = checks[:0]
				for _, arg := range args {
					c, ok := lint.LookupCheck(arg)
					if !ok {
						return fmt.Errorf("unknown check: %s", arg)
					}
					checks = append(checks, c)
				}
			}
			for i, c := range checks {
				if i > 0 {
					fmt.Fprintln(cfg.stdout) //nolint:errcheck // best-effort output
				}
				if err := writeCheckDoc(cfg.stdout, c, int(width)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the style guide.")
	cmd.Flags().UintVar(&width, "width", 72,
		"Wrap documentation at this many columns.")
	return cmd
}

// writeCheckDoc writes a heading for c followed by its documentation,
// wrapped at width and indented by two spaces.
func writeCheckDoc(w io.Writer, c *lint.Check, width int) error {
	_, err := fmt.Fprintf(w, "%s %s (%s)\n  message: %s\n\n%s\n",
		c.Code, c.Name, c.Severity, c.Message(messageArgs(c)...), docBody(c.Doc, width))
	return err
}

// messageArgs returns a placeholder for parameterized messages.
func messageArgs(c *lint.Check) []any {
	if strings.Contains(c.Format, "%") {
		return []any{"<name>"}
	}
	return nil
}

func docBody(doc string, width int) string {
	if width > 2 {
		doc = wordwrap.String(doc, width-2)
	}
	return strings.TrimSuffix(indent.String(doc, 2), "\n")
}
