package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:      ".",
			Datasets: DefaultDatasets(),
		},
		Session: SessionConfig{
			PageSize:   5,
			ShowTiming: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "bikeshare.log",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			JSON:       false,
		},
	}
}

// DefaultDatasets returns the three bikeshare exports the explorer ships
// with, each read from a CSV file in the data directory.
func DefaultDatasets() []DatasetConfig {
	return []DatasetConfig{
		{Name: "chicago", Path: "chicago.csv"},
		{Name: "new york city", Path: "new_york_city.csv"},
		{Name: "washington", Path: "washington.csv"},
	}
}
