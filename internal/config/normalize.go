package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeEditor()
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		c.Paths.ProjectsDir = defaultProjectsDir
	}
	if c.Paths.ProjectsDir, err = expandPath(c.Paths.ProjectsDir); err != nil {
		return fmt.Errorf("paths.projects_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageFS
	}
	s3 := &c.Storage.S3
	s3.Bucket = strings.TrimSpace(s3.Bucket)
	if s3.Bucket == "" {
		if value, ok := os.LookupEnv("REELCUT_S3_BUCKET"); ok {
			s3.Bucket = strings.TrimSpace(value)
		}
	}
	s3.Region = strings.TrimSpace(s3.Region)
	if s3.Region == "" {
		s3.Region = defaultS3Region
	}
	s3.Endpoint = strings.TrimSpace(s3.Endpoint)
	s3.Prefix = strings.Trim(strings.TrimSpace(s3.Prefix), "/")
	s3.AccessKeyID = strings.TrimSpace(s3.AccessKeyID)
	s3.SecretAccessKey = strings.TrimSpace(s3.SecretAccessKey)
}

func (c *Config) normalizeJournal() error {
	c.Journal.Driver = strings.ToLower(strings.TrimSpace(c.Journal.Driver))
	switch c.Journal.Driver {
	case "", "sqlite3":
		c.Journal.Driver = JournalSQLite
	case "pg", "postgresql", "pgx":
		c.Journal.Driver = JournalPostgres
	}
	c.Journal.DSN = strings.TrimSpace(c.Journal.DSN)
	if c.Journal.DSN == "" {
		if value, ok := os.LookupEnv("REELCUT_JOURNAL_DSN"); ok {
			c.Journal.DSN = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEditor() {
	if c.Editor.MaxHistory == 0 {
		c.Editor.MaxHistory = defaultMaxHistory
	}
	if c.Editor.FrameRate == 0 {
		c.Editor.FrameRate = defaultFrameRate
	}
	if c.Editor.Typing.MinKeys == 0 {
		c.Editor.Typing.MinKeys = defaultTypingMinKeys
	}
	if c.Editor.Typing.MaxGapMs == 0 {
		c.Editor.Typing.MaxGapMs = defaultTypingMaxGapMs
	}
	if c.Editor.Typing.SpeedMultiplier == 0 {
		c.Editor.Typing.SpeedMultiplier = defaultTypingMultiplier
	}
}

func (c *Config) normalizeMetrics() error {
	c.Metrics.Namespace = strings.TrimSpace(c.Metrics.Namespace)
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = defaultMetricsNamespace
	}
	var err error
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
