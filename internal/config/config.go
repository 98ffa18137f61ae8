// Package config loads the configuration of the lighthouse helper.
//
// Configuration comes from a single YAML file named by the --config flag or
// the LIGHTHOUSE_CONFIG environment variable. Without either, Default is
// used as is. Values present in the file override the defaults; absent
// values keep them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/melih/lighthouse-helper/internal/adapters/shell"
	"github.com/melih/lighthouse-helper/internal/core/commands"
	"github.com/melih/lighthouse-helper/internal/core/executor"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "LIGHTHOUSE_CONFIG"

// Listing sources.
const (
	ListingShell  = "shell"
	ListingDocker = "docker"
)

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Shell    ShellConfig    `yaml:"shell"`
	Executor ExecutorConfig `yaml:"executor"`
	Listing  ListingConfig  `yaml:"listing"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Listen is the address the API binds to.
	// Default: :3000
	Listen string `yaml:"listen"`
}

// ShellConfig selects the shell both execution lanes run commands through.
type ShellConfig struct {
	// Program is the shell executable.
	// Default: pwsh
	Program string `yaml:"program"`

	// Args precede the command text on the shell's command line. When
	// unset they follow Program: [-NoProfile, -NonInteractive, -Command] for
	// pwsh, [-c] for sh-like shells, [/C] for cmd.
	Args []string `yaml:"args"`

	// ProgressPrefix marks stdout lines reported as progress.
	// Default: "PROGRESS:"
	ProgressPrefix string `yaml:"progress_prefix"`
}

// ExecutorConfig configures the single-flight lane.
type ExecutorConfig struct {
	// ImportDirective is prepended to every submitted command.
	ImportDirective string `yaml:"import_directive"`

	// ImportHelperModule toggles the import directive.
	// Default: true
	ImportHelperModule bool `yaml:"import_helper_module"`

	// BufferSize is the per-stream buffer of a running command.
	BufferSize int `yaml:"buffer_size"`

	BusyMessage                string `yaml:"busy_message"`
	CompletedWithErrorsMessage string `yaml:"completed_with_errors_message"`
}

// ListingConfig configures how containers are listed.
type ListingConfig struct {
	// Source is "shell" (query lane) or "docker" (Docker SDK).
	// Default: shell
	Source string `yaml:"source"`

	// Command is the listing query for the shell source. Its output must be
	// one "id;name;status" line per container.
	Command string `yaml:"command"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Development switches to human-readable console output.
	Development bool `yaml:"development"`

	// File redirects log output from stderr to the named file.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Listen: ":3000"},
		Shell: ShellConfig{
			Program:        shell.DefaultProgram,
			ProgressPrefix: shell.DefaultProgressPrefix,
		},
		Executor: ExecutorConfig{
			ImportDirective:            executor.DefaultImportDirective,
			ImportHelperModule:         true,
			BufferSize:                 executor.DefaultBufferSize,
			BusyMessage:                executor.DefaultBusyMessage,
			CompletedWithErrorsMessage: executor.DefaultCompletedWithErrorsMessage,
		},
		Listing: ListingConfig{
			Source:  ListingShell,
			Command: commands.ListContainers,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the file named by path, or by LIGHTHOUSE_CONFIG when path is
// empty. With neither set it returns the validated defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the components cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	if c.Shell.Program == "" {
		errs = append(errs, errors.New("shell.program is required"))
	}
	if c.Executor.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("executor.buffer_size must not be negative, got %d", c.Executor.BufferSize))
	}
	switch c.Listing.Source {
	case ListingShell:
		if c.Listing.Command == "" {
			errs = append(errs, errors.New("listing.command is required for the shell source"))
		}
	case ListingDocker:
	default:
		errs = append(errs, fmt.Errorf("listing.source must be %q or %q, got %q", ListingShell, ListingDocker, c.Listing.Source))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// ShellOptions converts the shell section for the shell adapters.
func (c *Config) ShellOptions() shell.Options {
	return shell.Options{
		Program:        c.Shell.Program,
		Args:           c.Shell.Args,
		ProgressPrefix: c.Shell.ProgressPrefix,
	}
}

// ExecutorOptions converts the executor section for the coordinator.
func (c *Config) ExecutorOptions() executor.Options {
	return executor.Options{
		ImportDirective:            c.Executor.ImportDirective,
		DisableImport:              !c.Executor.ImportHelperModule,
		BufferSize:                 c.Executor.BufferSize,
		BusyMessage:                c.Executor.BusyMessage,
		CompletedWithErrorsMessage: c.Executor.CompletedWithErrorsMessage,
	}
}
