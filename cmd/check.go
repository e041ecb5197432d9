// Copyright © 2024 The pystyle authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/pystyle/config"
	"github.com/luthersystems/pystyle/diagnostic"
	"github.com/luthersystems/pystyle/lint"
)

// errReported is returned when the problem has already been written to
// stderr and only the exit status remains to be set.
var errReported = errors.New("errors reported")

// configFlags are bound to viper under their own names.
var configFlags = []string{
	config.KeyFormat,
	config.KeySelect,
	config.KeyIgnore,
	config.KeyExclude,
	config.KeyJobs,
	config.KeyNoqa,
	config.KeyColor,
	config.KeyExtension,
}

const checkLong = `Check python source files for style problems.

Each path may be a file, a directory, or a directory followed by "/..." .
A directory is checked one level deep: only the files directly inside it
with the configured extension (.py by default) are read.  A "/..." pattern
checks every such file below the directory, skipping hidden directories.
A file argument without the extension is ignored.  With no paths, source is
read from stdin and reported as <stdin>.

Exit codes:
  0  Files were checked (whether or not problems were found)
  2  Bad invocation, or a file could not be read

With --noqa, a comment suppresses diagnostics on its own line:
  x = [1,2] ;  # noqa: S003
  x = [1,2] ;  # noqa

Available checks (use --select and --ignore to choose):
`

const checkExamples = `
Examples:
  pystyle check file.py                      # Check a single file
  pystyle check src                          # Check src/*.py
  pystyle check ./...                        # Check the whole tree
  pystyle check --select=S001,S003 src       # Run only some checks
  pystyle check --ignore=todo ./...          # Skip a check by name
  pystyle check --exclude=build ./...        # Exclude a directory
  pystyle check --format=pretty file.py      # Annotated source snippets
  pystyle check --list                       # List available checks
  cat file.py | pystyle check                # Check stdin`

// CheckCommand creates the "check" cobra command.
func CheckCommand(opts ...Option) *cobra.Command {
	return newCheckCommand("check [flags] [paths...]", opts...)
}

type checkFlags struct {
	list    bool
	summary bool
	trace   bool
}

func newCheckCommand(use string, opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var flags checkFlags

	cmd := &cobra.Command{
		Use:           use,
		Short:         "Check python source files for style problems",
		Long:          checkLong + checkDoc() + checkExamples,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.runCheck(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.String(config.KeyFormat, config.FormatText,
		`Output format: "text", "json", or "pretty".`)
	f.StringSlice(config.KeySelect, nil,
		"Comma-separated checks to run, by code or name (default: all). Alias --checks.")
	f.StringSlice(config.KeyIgnore, nil,
		"Comma-separated checks to skip, by code or name.")
	f.StringArray(config.KeyExclude, nil,
		"Glob pattern for paths to exclude (may be repeated).")
	f.Int(config.KeyJobs, runtime.GOMAXPROCS(0),
		"Number of files checked concurrently.")
	f.Bool(config.KeyNoqa, false,
		`Honour "# noqa" comments.`)
	f.String(config.KeyColor, "auto",
		`Color for --format=pretty: "auto", "always", or "never".`)
	f.String(config.KeyExtension, ".py",
		"Extension of the files checked in directories.")
	f.BoolVar(&flags.list, "list", false,
		"List available checks and exit.")
	f.BoolVar(&flags.summary, "summary", false,
		"Write the number of diagnostics per check to stderr.")
	f.BoolVar(&flags.trace, "trace", false,
		"Log the time spent in each analysis pass (implies --verbose).")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "checks" {
			name = config.KeySelect
		}
		return pflag.NormalizedName(name)
	})
	return cmd
}

// checkDoc lists the checks, one per line.
func checkDoc() string {
	var b strings.Builder
	for _, c := range lint.Checks() {
		fmt.Fprintf(&b, "  %s  %-24s %s\n", c.Code, c.Name, c.Summary())
	}
	return b.String()
}

// loadConfig layers pyproject.toml and the viper settings, including the
// flags of cmd, over the defaults.
func (c *cmdConfig) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	conf := config.Default()
	if path := config.FindPyproject(c.dir); path != "" {
		if err := conf.LoadPyproject(path); err != nil {
			return nil, err
		}
	}
	for _, key := range configFlags {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := c.viper.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	conf.Apply(c.viper)
	for _, src := range conf.Sources {
		c.logger.Debugf("settings from %s", src)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *cmdConfig) runCheck(cmd *cobra.Command, flags checkFlags, args []string) error {
	if flags.list {
		for _, check := range lint.Checks() {
			fmt.Fprintf(c.stdout, "%s %s\n", check.Code, check.Name) //nolint:errcheck // best-effort listing
		}
		return nil
	}
	if flags.trace && !c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.SetLevel(logrus.DebugLevel)
	}
	conf, err := c.loadConfig(cmd)
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if flags.trace {
		tp := newTraceProvider(c.logger)
		defer tp.Shutdown(ctx) //nolint:errcheck // exporter only logs
		linter.Tracer = tp.Tracer(lint.TracerName)
	}

	var (
		results []*lint.Result
		stdin   []byte
		failed  bool
	)
	if len(args) == 0 {
		stdin, err = io.ReadAll(c.stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		res, err := linter.LintFile(ctx, stdinName, stdin)
		if err != nil {
			return fmt.Errorf("%s: %w", stdinName, err)
		}
		results = append(results, res)
	} else {
		paths, err := expandArgs(args, conf.Extension, conf.Exclude)
		if err != nil {
			return err
		}
		var errs []error
		results, errs = analyze(ctx, linter, paths, conf.Jobs)
		for _, err := range errs {
			fmt.Fprintf(c.stderr, "pystyle: %v\n", err) //nolint:errcheck // best-effort error display
			failed = true
		}
	}
	for _, res := range results {
		entry := c.logger.WithField("file", res.File)
		entry.Debugf("%d diagnostics", len(res.Diagnostics()))
		if res.Skip != nil {
			entry.Debugf("syntactic checks skipped: %v", res.Skip)
		}
	}

	switch conf.Format {
	case config.FormatJSON:
		err = lint.FormatJSON(c.stdout, results)
	case config.FormatPretty:
		err = renderPretty(c.stdout, newRenderer(color, stdin), results, conf.Noqa)
	default:
		err = lint.FormatText(c.stdout, results)
	}
	if err != nil {
		return err
	}
	if flags.summary {
		if err := lint.FormatSummary(c.stderr, results); err != nil {
			return err
		}
	}
	if failed {
		return errReported
	}
	return nil
}

// analyze checks paths concurrently, at most jobs at a time.  Results keep
// the order of paths; files that could not be read are left out and their
// errors returned in the same order.
func analyze(ctx context.Context, linter *lint.Linter, paths []string, jobs int) ([]*lint.Result, []error) {
	if jobs < 1 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*lint.Result, len(paths))
	errs := make([]error, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			results[i], errs[i] = linter.AnalyzeFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	var (
		ok     []*lint.Result
		failed []error
	)
	for i := range paths {
		if errs[i] != nil {
			failed = append(failed, errs[i])
			continue
		}
		ok = append(ok, results[i])
	}
	return ok, failed
}
