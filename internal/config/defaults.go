package config

const (
	defaultConfigPath     = "~/.config/brentmlu/config.toml"
	projectConfigName     = "brentmlu.toml"
	defaultOutputDir      = "."
	defaultExtension      = ".cha"
	defaultMetric         = "morpheme"
	defaultEarlyAgeMonths = 12
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
		},
		Extract: Extract{
			Extensions: []string{defaultExtension},
		},
		MLU: MLU{
			Metric:         defaultMetric,
			EarlyAgeMonths: defaultEarlyAgeMonths,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
