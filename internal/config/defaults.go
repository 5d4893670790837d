package config

const (
	StorageFS     = "fs"
	StorageMemory = "memory"
	StorageS3     = "s3"

	JournalSQLite   = "sqlite"
	JournalPostgres = "postgres"
)

const (
	defaultConfigPath       = "~/.config/reelcut/config.toml"
	defaultDataDir          = "~/.local/share/reelcut"
	defaultProjectsDir      = "~/.local/share/reelcut/projects"
	defaultLogDir           = "~/.local/share/reelcut/logs"
	defaultJournalPath      = "~/.local/share/reelcut/journal.db"
	defaultS3Region         = "us-east-1"
	defaultMaxHistory       = 100
	defaultFrameRate        = 60
	defaultTypingMinKeys    = 4
	defaultTypingMaxGapMs   = 800
	defaultTypingMultiplier = 3
	defaultMetricsNamespace = "reelcut"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			ProjectsDir: defaultProjectsDir,
			LogDir:      defaultLogDir,
		},
		Storage: Storage{
			Driver: StorageFS,
			S3:     S3{Region: defaultS3Region},
		},
		Journal: Journal{
			Enabled: true,
			Driver:  JournalSQLite,
			Path:    defaultJournalPath,
		},
		Editor: Editor{
			MaxHistory: defaultMaxHistory,
			FrameRate:  defaultFrameRate,
			Typing: Typing{
				MinKeys:         defaultTypingMinKeys,
				MaxGapMs:        defaultTypingMaxGapMs,
				SpeedMultiplier: defaultTypingMultiplier,
			},
		},
		Metrics: Metrics{
			Namespace: defaultMetricsNamespace,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
