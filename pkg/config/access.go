package config

// Global configuration instance
var globalConfig *Config

// Initialize sets up the global configuration
func Initialize(cfg *Config) {
	if cfg == nil {
		cfg = Default()
	}
	globalConfig = cfg
}

// Get returns the current configuration
func Get() *Config {
	if globalConfig == nil {
		Initialize(nil)
	}
	return globalConfig
}

// GetDefaults returns traversal default configuration
func GetDefaults() Defaults {
	return Get().Defaults
}

// GetProfile returns the named connection profile from the current
// configuration
func GetProfile(name string) (Profile, error) {
	return Get().Profile(name)
}
