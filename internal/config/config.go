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
	DataDir     string `toml:"data_dir"`
	ProjectsDir string `toml:"projects_dir"`
	LogDir      string `toml:"log_dir"`
}

// S3 contains settings for the s3 blob driver.
type S3 struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	Prefix          string `toml:"prefix"`
	UsePathStyle    bool   `toml:"use_path_style"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// Storage selects where project documents are kept.
type Storage struct {
	// Driver is one of "fs", "memory", or "s3".
	Driver string `toml:"driver"`
	S3     S3     `toml:"s3"`
}

// Journal contains configuration for the command audit journal.
type Journal struct {
	Enabled bool `toml:"enabled"`
	// Driver is "sqlite" or "postgres".
	Driver string `toml:"driver"`
	// Path is the sqlite database file. Ignored for postgres.
	Path string `toml:"path"`
	// DSN is the postgres connection string.
	DSN string `toml:"dsn"`
}

// Typing tunes typing-period detection for the typing speed commands.
type Typing struct {
	MinKeys         int     `toml:"min_keys"`
	MaxGapMs        float64 `toml:"max_gap_ms"`
	SpeedMultiplier float64 `toml:"speed_multiplier"`
}

// Editor contains command engine settings.
type Editor struct {
	MaxHistory int    `toml:"max_history"`
	FrameRate  int    `toml:"frame_rate"`
	Typing     Typing `toml:"typing"`
}

// Metrics controls the Prometheus textfile written after each session.
type Metrics struct {
	Enabled      bool   `toml:"enabled"`
	Namespace    string `toml:"namespace"`
	TextfilePath string `toml:"textfile_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelcut.
//
// Configuration sections by subsystem:
//   - Paths: data, project, and log directories
//   - Storage: blob driver for project documents (fs, memory, s3)
//   - Journal: command audit journal (sqlite or postgres)
//   - Editor: history bound, frame rate, typing speed detection
//   - Metrics: Prometheus textfile output
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Storage Storage `toml:"storage"`
	Journal Journal `toml:"journal"`
	Editor  Editor  `toml:"editor"`
	Metrics Metrics `toml:"metrics"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelcut.toml")
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

// EnsureDirectories creates the directories the configured drivers write to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir}
	if c.Storage.Driver == StorageFS {
		dirs = append(dirs, c.Paths.ProjectsDir)
	}
	if c.Journal.Enabled && c.Journal.Driver == JournalSQLite {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}
	if c.Metrics.Enabled && c.Metrics.TextfilePath != "" {
		dirs = append(dirs, filepath.Dir(c.Metrics.TextfilePath))
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
