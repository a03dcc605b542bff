package config

import (
	"errors"
	"fmt"
	"strings"

	"collator/internal/jobfile"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCollate(); err != nil {
		return err
	}
	if err := c.validateComponents(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ModelDir) == "" {
		return errors.New("paths.model_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateCollate() error {
	switch c.Collate.Mode {
	case ModeDisk, ModeOptThin:
	default:
		return fmt.Errorf("collate.mode must be %q or %q, got %q", ModeDisk, ModeOptThin, c.Collate.Mode)
	}
	for _, name := range c.Collate.Disabled {
		if !knownComponent(name) {
			return fmt.Errorf("collate.disabled: unknown component %q", name)
		}
	}
	for _, name := range c.Collate.Parameters {
		key := jobfile.TagKey(name)
		if len(key) > jobfile.MaxTagKeyLength {
			return fmt.Errorf("collate.parameters: %q maps to tag %q longer than %d characters", name, key, jobfile.MaxTagKeyLength)
		}
	}
	if c.Collate.Extinction && c.Collate.Mode == ModeOptThin {
		return errors.New("collate.extinction is not available in optthin mode")
	}
	return nil
}

func (c *Config) validateComponents() error {
	layouts := map[string]Layout{
		ComponentPhotosphere: c.Components.Photosphere,
		ComponentWall:        c.Components.Wall,
		ComponentDisk:        c.Components.Disk,
		ComponentScattered:   c.Components.Scattered,
		ComponentDust:        c.Components.Dust,
	}
	for name, layout := range layouts {
		if err := validateLayout("components."+name, layout); err != nil {
			return err
		}
	}
	if c.Collate.Extinction && c.Components.Disk.ExtinctionColumn <= 0 {
		return errors.New("components.disk.extinction_column must be positive when collate.extinction is enabled")
	}
	if strings.TrimSpace(c.Components.InnerRadius.Pattern) == "" {
		return errors.New("components.inner_radius.pattern must be set")
	}
	return nil
}

func validateLayout(section string, layout Layout) error {
	if strings.TrimSpace(layout.Pattern) == "" {
		return fmt.Errorf("%s.pattern must be set", section)
	}
	if !strings.Contains(layout.Pattern, "{job}") {
		return fmt.Errorf("%s.pattern must contain {job}", section)
	}
	if layout.HeaderLines < 0 {
		return fmt.Errorf("%s.header_lines must be zero or positive", section)
	}
	if layout.WavelengthColumn <= 0 {
		return fmt.Errorf("%s.wavelength_column must be positive", section)
	}
	if layout.FluxColumn <= 0 {
		return fmt.Errorf("%s.flux_column must be positive", section)
	}
	if layout.ExtinctionColumn < 0 {
		return fmt.Errorf("%s.extinction_column must be zero or positive", section)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers > maxWorkers {
		return fmt.Errorf("batch.workers must be at most %d", maxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}

func knownComponent(name string) bool {
	switch name {
	case ComponentPhotosphere, ComponentWall, ComponentDisk, ComponentScattered, ComponentDust:
		return true
	default:
		return false
	}
}
