package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateEditor(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case StorageFS, StorageMemory:
		return nil
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required when storage.driver is s3. Set REELCUT_S3_BUCKET or edit the config")
		}
		if (c.Storage.S3.AccessKeyID == "") != (c.Storage.S3.SecretAccessKey == "") {
			return errors.New("storage.s3.access_key_id and storage.s3.secret_access_key must be set together")
		}
		return nil
	default:
		return fmt.Errorf("storage.driver %q is not supported (use fs, memory, or s3)", c.Storage.Driver)
	}
}

func (c *Config) validateJournal() error {
	if !c.Journal.Enabled {
		return nil
	}
	switch c.Journal.Driver {
	case JournalSQLite:
		if c.Journal.Path == "" {
			return errors.New("journal.path must be set for the sqlite journal")
		}
	case JournalPostgres:
		if c.Journal.DSN == "" {
			return errors.New("journal.dsn is required for the postgres journal. Set REELCUT_JOURNAL_DSN or edit the config")
		}
	default:
		return fmt.Errorf("journal.driver %q is not supported (use sqlite or postgres)", c.Journal.Driver)
	}
	return nil
}

func (c *Config) validateEditor() error {
	if err := ensurePositiveMap(map[string]int{
		"editor.max_history":     c.Editor.MaxHistory,
		"editor.frame_rate":      c.Editor.FrameRate,
		"editor.typing.min_keys": c.Editor.Typing.MinKeys,
	}); err != nil {
		return err
	}
	if c.Editor.Typing.MinKeys < 2 {
		return errors.New("editor.typing.min_keys must be at least 2")
	}
	if c.Editor.Typing.MaxGapMs <= 0 {
		return errors.New("editor.typing.max_gap_ms must be positive")
	}
	if c.Editor.Typing.SpeedMultiplier <= 1 {
		return errors.New("editor.typing.speed_multiplier must be greater than 1")
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return errors.New("metrics.textfile_path must be set when metrics.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not supported", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", strings.TrimSpace(key))
		}
	}
	return nil
}
