package config

const (
	defaultStateDir       = "~/.local/share/dirsort"
	defaultLogDir         = "~/.local/share/dirsort/logs"
	defaultReaperWorkers  = 2
	defaultExtractWorkers = 4
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogRetention   = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Sorter: Sorter{
			ReaperWorkers:   defaultReaperWorkers,
			ExtractWorkers:  defaultExtractWorkers,
			ExtractArchives: true,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
