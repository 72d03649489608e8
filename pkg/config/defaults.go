package config

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Search:  getDefaultSearchConfig(),
		Logging: getDefaultLoggingConfig(),
	}
}

func getDefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PoolCapacity:     20,
		Workers:          4,
		Generations:      10,
		MutantsPerParent: 3,
		MergeBudget:      5,
	}
}

func getDefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: "INFO",
	}
}
