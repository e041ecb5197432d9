// Copyright © 2024 The pystyle authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	logger = newLogger()
)

// rootCmd checks the paths it is given, like the check subcommand.
var rootCmd = newCheckCommand("pystyle [flags] [paths...]")

func init() {
	rootCmd.Short = "pystyle - a style checker for python source"
	rootCmd.Long = `pystyle reports style problems in python source files.

Each problem is printed on its own line:

  <file>: Line <n>: <code> <message>

Lines are checked for length, indentation, semicolons, inline comment spacing,
TODO comments and blank line runs.  Files that parse are also checked for
naming and mutable default arguments.  Violations do not change the exit
status.

Getting started:
  pystyle file.py              Check a file
  pystyle src                  Check the .py files directly inside src
  pystyle ./...                Check every .py file below the current directory
  pystyle doc S010             Describe a check
  pystyle repl                 Check python code interactively
  pystyle lsp                  Serve diagnostics to an editor

Settings are read, in increasing priority, from [tool.pystyle] in the nearest
pyproject.toml, the config file ($HOME/.pystyle.yaml by default), PYSTYLE_*
environment variables and command line flags.`

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pystyle.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr.")

	rootCmd.AddCommand(CheckCommand(), DocCommand(), LSPCommand(), ReplCommand())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "pystyle: %v\n", err)
		}
		os.Exit(2)
	}
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.WithError(err).Debug("no home directory; skipping config file")
		} else {
			// Search config in home directory with name ".pystyle" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".pystyle")
		}
	}

	viper.SetEnvPrefix("pystyle")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			logger.WithError(err).Warn("could not read config file")
		}
		return
	}
	logger.Debugf("using config file %s", viper.ConfigFileUsed())
}
