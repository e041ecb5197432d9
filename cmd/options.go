// Copyright © 2024 The pystyle authors

package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (CheckCommand, DocCommand,
// LSPCommand, ReplCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	viper  *viper.Viper
	logger *logrus.Logger
	dir    string
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{}
	for _, o := range opts {
		o(c)
	}
	if c.stdin == nil {
		c.stdin = os.Stdin
	}
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	if c.viper == nil {
		c.viper = viper.GetViper()
	}
	if c.logger == nil {
		c.logger = logger
	}
	if c.dir == "" {
		c.dir = "."
	}
	return c
}

// WithStdin sets the input read when no paths are given.
func WithStdin(r io.Reader) Option {
	return func(c *cmdConfig) { c.stdin = r }
}

// WithStdout sets the writer reports are written to.
func WithStdout(w io.Writer) Option {
	return func(c *cmdConfig) { c.stdout = w }
}

// WithStderr sets the writer errors and summaries are written to.
func WithStderr(w io.Writer) Option {
	return func(c *cmdConfig) { c.stderr = w }
}

// WithViper injects the viper instance holding the config file and
// environment layer.  The global instance is used by default.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) { c.viper = v }
}

// WithLogger replaces the package logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *cmdConfig) { c.logger = l }
}

// WithDir sets the directory pyproject.toml discovery starts from.  The
// working directory is used by default.
func WithDir(dir string) Option {
	return func(c *cmdConfig) { c.dir = dir }
}
