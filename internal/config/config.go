// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads rsplit settings from .rsplit.toml, RSPLIT_*
// environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the configuration file searched for from the working
// directory upwards.
const FileName = ".rsplit.toml"

// EnvPrefix prefixes environment overrides, e.g. RSPLIT_SPLIT_MAX_UNIT_LINES.
const EnvPrefix = "RSPLIT"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full set of rsplit settings.
type Config struct {
	Split   SplitConfig   `mapstructure:"split"`
	Naming  NamingConfig  `mapstructure:"naming"`
	Output  OutputConfig  `mapstructure:"output"`
	Verify  VerifyConfig  `mapstructure:"verify"`
	Git     GitConfig     `mapstructure:"git"`
	Journal JournalConfig `mapstructure:"journal"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SplitConfig controls unit sizes and block splitting.
type SplitConfig struct {
	MaxUnitLines         int    `mapstructure:"max_unit_lines"`
	MaxBlockLines        int    `mapstructure:"max_block_lines"`
	EnableBlockSplitting bool   `mapstructure:"enable_block_splitting"`
	Clustering           string `mapstructure:"clustering"`    // seed or components
	SizeEstimate         string `mapstructure:"size_estimate"` // compact or source
	SizeMultiplier       int    `mapstructure:"size_multiplier"`
	MinFileLines         int    `mapstructure:"min_file_lines"`
	Concurrency          int    `mapstructure:"concurrency"`
}

// NamingConfig controls generated unit names.
type NamingConfig struct {
	TypeModuleSuffix    string `mapstructure:"type_module_suffix"`
	ImplModuleSuffix    string `mapstructure:"impl_module_suffix"`
	TraitsModuleSuffix  string `mapstructure:"traits_module_suffix"`
	WrapperModuleSuffix string `mapstructure:"wrapper_module_suffix"`
	UseSnakeCase        bool   `mapstructure:"use_snake_case"`
}

// OutputConfig controls emitted text and directory expansion.
type OutputConfig struct {
	ModuleDocTemplate string   `mapstructure:"module_doc_template"`
	PreserveComments  bool     `mapstructure:"preserve_comments"`
	FormatOutput      bool     `mapstructure:"format_output"`
	Include           []string `mapstructure:"include"`
	Exclude           []string `mapstructure:"exclude"`
}

// VerifyConfig controls the post-write check command.
type VerifyConfig struct {
	Command           string        `mapstructure:"command"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RollbackOnFailure bool          `mapstructure:"rollback_on_failure"`
}

// GitConfig controls committing generated files.
type GitConfig struct {
	Commit      bool `mapstructure:"commit"`
	DirtyCommit bool `mapstructure:"dirty_commit"`
}

// JournalConfig controls the run journal used for rollback.
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig controls the JSON logger.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// defaults lists every key with its default value.
var defaults = map[string]any{
	"split.max_unit_lines":         1000,
	"split.max_block_lines":        500,
	"split.enable_block_splitting": false,
	"split.clustering":             "seed",
	"split.size_estimate":          "compact",
	"split.size_multiplier":        15,
	"split.min_file_lines":         0,
	"split.concurrency":            4,

	"naming.type_module_suffix":    "_type",
	"naming.impl_module_suffix":    "_impl",
	"naming.traits_module_suffix":  "_traits",
	"naming.wrapper_module_suffix": "_module",
	"naming.use_snake_case":        true,

	"output.module_doc_template": "",
	"output.preserve_comments":   false,
	"output.format_output":       false,
	"output.include":             []string{"**/*.rs"},
	"output.exclude":             []string{"**/target/**", "**/mod.rs", "**/lib.rs", "**/main.rs"},

	"verify.command":             "",
	"verify.timeout":             "5m",
	"verify.rollback_on_failure": false,

	"git.commit":       false,
	"git.dirty_commit": false,

	"journal.enabled": true,
	"journal.path":    ".rsplit/journal.db",

	"logging.level": "warn",
	"logging.file":  "",
}

// SetDefaults registers the default value of every key on v, and wires the
// RSPLIT_ environment prefix.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Defaults returns the configuration with every default applied.
func Defaults() Config {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return c
}

// Discover walks from dir towards the filesystem root and returns the first
// .rsplit.toml found.
func Discover(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads the configuration into v and decodes it. An explicit path must
// exist; otherwise the file is discovered from startDir and is optional. The
// returned path is the file used, empty when none was found.
func Load(v *viper.Viper, explicit, startDir string) (Config, string, error) {
	SetDefaults(v)

	path := explicit
	if path == "" {
		if found, ok := Discover(startDir); ok {
			path = found
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, path, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, path, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, path, err
	}
	return c, path, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var problems []string
	if c.Split.MaxUnitLines <= 0 {
		problems = append(problems, "split.max_unit_lines must be positive")
	}
	if c.Split.MaxBlockLines <= 0 {
		problems = append(problems, "split.max_block_lines must be positive")
	}
	switch c.Split.Clustering {
	case "seed", "components":
	default:
		problems = append(problems, fmt.Sprintf("split.clustering %q is not seed or components", c.Split.Clustering))
	}
	switch c.Split.SizeEstimate {
	case "compact", "source":
	default:
		problems = append(problems, fmt.Sprintf("split.size_estimate %q is not compact or source", c.Split.SizeEstimate))
	}
	if c.Split.SizeMultiplier <= 0 {
		problems = append(problems, "split.size_multiplier must be positive")
	}
	if c.Split.Concurrency < 1 {
		problems = append(problems, "split.concurrency must be at least 1")
	}
	if c.Verify.Timeout < 0 {
		problems = append(problems, "verify.timeout must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// WriteDefaults writes a configuration file holding every default to path.
// An existing file is left alone unless force is set.
func WriteDefaults(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	v := viper.New()
	for k, val := range defaults {
		v.Set(k, val)
	}
	v.SetConfigType("toml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Settings returns every effective key and value of v, for display.
func Settings(v *viper.Viper) map[string]any {
	return v.AllSettings()
}
