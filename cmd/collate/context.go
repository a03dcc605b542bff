package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"collator/internal/config"
	"collator/internal/jobid"
	"collator/internal/logging"
)

type globalFlags struct {
	config     string
	modelDir   string
	outputDir  string
	mode       string
	overwrite  bool
	extinction bool
	logLevel   string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		// A .env file in the working directory feeds the COLLATOR_* fallbacks.
		_ = godotenv.Load()

		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cfg *config.Config) error {
	f := c.flags
	changed := false
	if v := strings.TrimSpace(f.modelDir); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("resolve --model-dir: %w", err)
		}
		cfg.Paths.ModelDir = expanded
		changed = true
	}
	if v := strings.TrimSpace(f.outputDir); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("resolve --output-dir: %w", err)
		}
		cfg.Paths.OutputDir = expanded
		changed = true
	}
	if v := strings.TrimSpace(f.mode); v != "" {
		cfg.Collate.Mode = strings.ToLower(v)
		changed = true
	}
	if f.overwrite {
		cfg.Collate.Overwrite = true
	}
	if f.extinction {
		cfg.Collate.Extinction = true
		changed = true
	}
	if v := strings.TrimSpace(f.logLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
		changed = true
	}
	if !changed {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flag combination: %w", err)
	}
	return nil
}

// logger builds a logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return newLogger(cfg, cmd.ErrOrStderr())
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	opts := logging.OptionsFromConfig(cfg)
	opts.Writer = w
	return logging.New(opts)
}

// jobLabel normalizes a job argument: numbers are padded to the configured
// label width, anything else is used verbatim.
func jobLabel(cfg *config.Config, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("job id is required")
	}
	n, err := jobid.Parse(arg)
	if errors.Is(err, jobid.ErrOutOfRange) {
		return "", err
	}
	if err != nil {
		return arg, nil
	}
	return jobid.Format(n, cfg.Collate.HighLabels)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
