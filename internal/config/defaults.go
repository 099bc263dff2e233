package config

const (
	defaultConfigPath   = "~/.config/arteria/config.toml"
	defaultStateDir     = "~/.local/share/arteria"
	defaultLogDir       = "~/.local/share/arteria/logs"
	defaultGraceMinutes = 0
	defaultInstrument   = "auto"
	defaultHistoryOn    = true
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	envGraceMinutes     = "ARTERIA_GRACE_MINUTES"
	envLogLevel         = "ARTERIA_LOG_LEVEL"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Runfolder: Runfolder{
			CompletedMarkerGraceMinutes: defaultGraceMinutes,
			Instrument:                  defaultInstrument,
		},
		History: History{
			Enabled: defaultHistoryOn,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
