package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRunfolder(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRunfolder() error {
	if c.Runfolder.CompletedMarkerGraceMinutes < 0 {
		return fmt.Errorf("runfolder.completed_marker_grace_minutes must be >= 0, got %d", c.Runfolder.CompletedMarkerGraceMinutes)
	}
	if c.Runfolder.Instrument == "" {
		return errors.New("runfolder.instrument must be set (use \"auto\" to detect from run parameters)")
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
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
