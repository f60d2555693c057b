// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command rsplit splits large Rust source files into module directories.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/rsplit/internal/config"
	"github.com/petar-djukic/rsplit/internal/logging"
)

const version = "0.1.0"

// app carries the state shared by every command once configuration is loaded.
type app struct {
	v          *viper.Viper
	cfg        config.Config
	configPath string // file in use, empty when running on defaults
	logger     *slog.Logger
	cleanup    func()
	stdout     io.Writer
	stderr     io.Writer
	stdin      io.Reader
}

func main() {
	a := &app{v: viper.New(), stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rsplit: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rsplit",
		Short:         "Split large Rust source files into modules",
		Long:          "rsplit parses a Rust source file, groups its items by type and call relationships, and writes a directory of smaller modules with the imports each one needs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetIn(a.stdin)

	// Global flags.
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default: .rsplit.toml found from the working directory up)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Append JSON logs to this file")

	a.v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	a.v.BindPFlag("logging.file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(newSplitCmd(a))
	rootCmd.AddCommand(newGraphCmd(a))
	rootCmd.AddCommand(newRollbackCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newUndoCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

// load reads the configuration and sets up logging.
func (a *app) load(cmd *cobra.Command) error {
	explicit, _ := cmd.Flags().GetString("config")
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, path, err := config.Load(a.v, explicit, wd)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = path

	logger, cleanup, err := logging.Setup(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Out: a.stderr})
	if err != nil {
		return err
	}
	a.logger = logger
	a.cleanup = cleanup
	if path != "" {
		logger.Debug("configuration loaded", "file", path)
	}
	return nil
}

// baseDir is the directory relative paths in the configuration resolve
// against: the directory of the configuration file, or the working directory.
func (a *app) baseDir() string {
	if a.configPath != "" {
		return filepath.Dir(a.configPath)
	}
	return "."
}

// journalPath returns the configured journal database path.
func (a *app) journalPath() string {
	p := a.cfg.Journal.Path
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.baseDir(), p)
}

// newVersionCmd creates the "version" command.
func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rsplit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "rsplit %s\n", version)
		},
	}
}
