// Copyright © 2024 The pystyle authors

// Package config resolves the settings of a pystyle run.
//
// Settings are layered.  Built-in defaults come first, then the
// [tool.pystyle] table of the nearest pyproject.toml, then values held by a
// viper instance (a config file, PYSTYLE_* environment variables and
// command line flags).  Each layer only overrides the keys it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/luthersystems/pystyle/lint"
)

// ErrUnknownCheck is returned when a selected or ignored check does not
// exist.
var ErrUnknownCheck = errors.New("unknown check")

// Keys shared by the pyproject table, the viper layer and command flags.
const (
	KeySelect    = "select"
	KeyIgnore    = "ignore"
	KeyExclude   = "exclude"
	KeyNoqa      = "noqa"
	KeyJobs      = "jobs"
	KeyFormat    = "format"
	KeyExtension = "extension"
	KeyColor     = "color"
)

// Output formats.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Config holds the settings of a pystyle run.
type Config struct {
	Select    []string `toml:"select"`
	Ignore    []string `toml:"ignore"`
	Exclude   []string `toml:"exclude"`
	Noqa      bool     `toml:"noqa"`
	Jobs      int      `toml:"jobs"`
	Format    string   `toml:"format"`
	Extension string   `toml:"extension"`
	Color     string   `toml:"color"`

	// Sources lists the files that contributed settings, in the order they
	// were applied.
	Sources []string `toml:"-"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Jobs:      runtime.GOMAXPROCS(0),
		Format:    FormatText,
		Extension: ".py",
		Color:     "auto",
	}
}

// FindPyproject returns the path of the pyproject.toml in dir or its
// nearest ancestor, or "" if there is none.
func FindPyproject(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, "pyproject.toml")
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadPyproject applies the [tool.pystyle] table of the pyproject.toml at
// path.  Keys absent from the table keep their current values.
func (c *Config) LoadPyproject(path string) error {
	var doc struct {
		Tool struct {
			Pystyle Config `toml:"pystyle"`
		} `toml:"tool"`
	}
	md, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !md.IsDefined("tool", "pystyle") {
		return nil
	}
	table := doc.Tool.Pystyle
	defined := func(key string) bool {
		return md.IsDefined("tool", "pystyle", key)
	}
	if defined(KeySelect) {
		c.Select = table.Select
	}
	if defined(KeyIgnore) {
		c.Ignore = table.Ignore
	}
	if defined(KeyExclude) {
		c.Exclude = table.Exclude
	}
	if defined(KeyNoqa) {
		c.Noqa = table.Noqa
	}
	if defined(KeyJobs) {
		c.Jobs = table.Jobs
	}
	if defined(KeyFormat) {
		c.Format = table.Format
	}
	if defined(KeyExtension) {
		c.Extension = table.Extension
	}
	if defined(KeyColor) {
		c.Color = table.Color
	}
	for _, key := range md.Undecoded() {
		if len(key) > 2 && key[0] == "tool" && key[1] == "pystyle" {
			return fmt.Errorf("%s: unknown setting %q in [tool.pystyle]", path, key[2])
		}
	}
	c.Sources = append(c.Sources, path)
	return nil
}

// Apply overrides settings with the keys set in v.
func (c *Config) Apply(v *viper.Viper) {
	if v.IsSet(KeySelect) {
		c.Select = splitList(v.GetStringSlice(KeySelect))
	}
	if v.IsSet(KeyIgnore) {
		c.Ignore = splitList(v.GetStringSlice(KeyIgnore))
	}
	if v.IsSet(KeyExclude) {
		c.Exclude = v.GetStringSlice(KeyExclude)
	}
	if v.IsSet(KeyNoqa) {
		c.Noqa = v.GetBool(KeyNoqa)
	}
	if v.IsSet(KeyJobs) {
		c.Jobs = v.GetInt(KeyJobs)
	}
	if v.IsSet(KeyFormat) {
		c.Format = v.GetString(KeyFormat)
	}
	if v.IsSet(KeyExtension) {
		c.Extension = v.GetString(KeyExtension)
	}
	if v.IsSet(KeyColor) {
		c.Color = v.GetString(KeyColor)
	}
	if used := v.ConfigFileUsed(); used != "" {
		c.Sources = append(c.Sources, used)
	}
}

// splitList splits comma separated entries, so that "S001,S002" from an
// environment variable or flag becomes two entries.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Validate checks the settings for values no command can use.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatPretty:
	default:
		return fmt.Errorf("invalid format %q (want %s, %s or %s)", c.Format, FormatText, FormatJSON, FormatPretty)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d", c.Jobs)
	}
	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("invalid extension %q (must start with '.')", c.Extension)
	}
	_, err := c.Checks()
	return err
}

// Checks resolves Select and Ignore against the built-in checks.  An empty
// Select selects every check.  Entries may be codes or check names.
func (c *Config) Checks() ([]*lint.Check, error) {
	resolve := func(keys []string) (map[string]bool, error) {
		codes := make(map[string]bool)
		for _, key := range splitList(keys) {
			check, ok := lint.LookupCheck(key)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, key)
			}
			codes[check.Code] = true
		}
		return codes, nil
	}
	selected, err := resolve(c.Select)
	if err != nil {
		return nil, err
	}
	ignored, err := resolve(c.Ignore)
	if err != nil {
		return nil, err
	}
	checks := []*lint.Check{}
	for _, check := range lint.Checks() {
		if len(selected) > 0 && !selected[check.Code] {
			continue
		}
		if ignored[check.Code] {
			continue
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// Linter returns a linter configured with the selected checks.
func (c *Config) Linter() (*lint.Linter, error) {
	checks, err := c.Checks()
	if err != nil {
		return nil, err
	}
	return &lint.Linter{Checks: checks, Noqa: c.Noqa}, nil
}
