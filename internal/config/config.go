package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ModelDir   string `toml:"model_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	LedgerPath string `toml:"ledger_path"`
}

// Collate contains the per-job collation switches.
type Collate struct {
	// Mode selects the model family: "disk" or "optthin".
	Mode       string `toml:"mode"`
	Overwrite  bool   `toml:"overwrite"`
	Extinction bool   `toml:"extinction"`
	// Disabled lists components that are never collated, even when present.
	// Scattered light is disabled by default.
	Disabled []string `toml:"disabled"`
	// Parameters overrides the canonical parameter list for the mode.
	Parameters []string `toml:"parameters"`
	HighLabels bool     `toml:"high_labels"`
}

// Layout describes how one component file is named and which columns carry data.
// Column numbers are 1-based; HeaderLines are skipped before data starts.
type Layout struct {
	Pattern          string `toml:"pattern"`
	HeaderLines      int    `toml:"header_lines"`
	WavelengthColumn int    `toml:"wavelength_column"`
	FluxColumn       int    `toml:"flux_column"`
	ExtinctionColumn int    `toml:"extinction_column"`
}

// Components contains the file layouts for every component kind.
type Components struct {
	Photosphere Layout `toml:"photosphere"`
	Wall        Layout `toml:"wall"`
	Disk        Layout `toml:"disk"`
	Scattered   Layout `toml:"scattered"`
	Dust        Layout `toml:"dust"`
	InnerRadius Layout `toml:"inner_radius"`
}

// Batch contains the batch driver settings.
type Batch struct {
	Workers int  `toml:"workers"`
	Lock    bool `toml:"lock"`
	Ledger  bool `toml:"ledger"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   bool   `toml:"file"`
}

// Config encapsulates all configuration values for the collator.
//
// Configuration sections by subsystem:
//   - Paths: model output directory, record destination, logs, ledger
//   - Collate: mode, overwrite permission, extinction, disabled components
//   - Components: file pattern and column layout per component kind
//   - Batch: worker pool size, output directory lock, ledger recording
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Collate    Collate    `toml:"collate"`
	Components Components `toml:"components"`
	Batch      Batch      `toml:"batch"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/collator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/collator/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("collator.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the collator writes into.
// The model directory is only read and is never created.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.LedgerPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LedgerPath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogFilePath returns the path of the collator log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "collator.log")
}

// OptThin reports whether the optically thin dust mode is selected.
func (c *Config) OptThin() bool {
	return c.Collate.Mode == ModeOptThin
}

// IsDisabled reports whether the named component is switched off.
func (c *Config) IsDisabled(component string) bool {
	for _, name := range c.Collate.Disabled {
		if name == component {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
