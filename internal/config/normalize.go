package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvFallbacks()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCollate()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

// applyEnvFallbacks fills fields the file left empty, or overrides the
// defaults, from COLLATOR_* environment variables.
func (c *Config) applyEnvFallbacks() {
	if value, ok := os.LookupEnv("COLLATOR_MODEL_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ModelDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("COLLATOR_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("COLLATOR_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.TrimSpace(value)
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ModelDir, err = expandPath(c.Paths.ModelDir); err != nil {
		return fmt.Errorf("paths.model_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = c.Paths.ModelDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) != "" {
		if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
			return fmt.Errorf("paths.ledger_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCollate() {
	c.Collate.Mode = strings.ToLower(strings.TrimSpace(c.Collate.Mode))
	if c.Collate.Mode == "" {
		c.Collate.Mode = ModeDisk
	}
	c.Collate.Disabled = normalizeNames(c.Collate.Disabled, strings.ToLower)
	c.Collate.Parameters = normalizeNames(c.Collate.Parameters, strings.ToUpper)
}

func (c *Config) normalizeBatch() {
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeNames(values []string, fold func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = fold(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
