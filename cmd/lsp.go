// Copyright © 2024 The pystyle authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luthersystems/pystyle/lsp"
)

// LSPCommand creates the "lsp" cobra command.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the pystyle Language Server Protocol server",
		Long: `Start an LSP server for python source files.

The language server publishes style diagnostics as documents are opened,
edited and saved, and provides hover documentation for checks, document
symbols, folding ranges, and quick fixes.

Checks are configured from the [tool.pystyle] table of the pyproject.toml
found at or above the workspace root.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  pystyle lsp                        Start with stdio transport
  pystyle lsp --stdio                Same as above (explicit)
  pystyle lsp --port 7998            Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "pystyle lsp --stdio" for .py files.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			srv := lsp.New(lsp.WithLogger(cfg.logger))

			var err error
			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				fmt.Fprintf(cfg.stderr, "pystyle LSP server listening on %s\n", addr) //nolint:errcheck // best-effort status
				err = srv.RunTCP(addr)
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				return fmt.Errorf("lsp server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}
