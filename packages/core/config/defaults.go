package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Target:          "go",
		Package:         "apitest",
		ClassName:       "GeneratedTests",
		FallbackBaseURL: "http://localhost:8080",
		ConnectTimeout:  5000,  // 5 seconds
		RequestTimeout:  10000, // 10 seconds
		Format:          "console",
		NoColor:         BoolPtr(false),
		Verbose:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Target == defaults.Target &&
		c.Output == defaults.Output &&
		c.Package == defaults.Package &&
		c.ClassName == defaults.ClassName &&
		c.FallbackBaseURL == defaults.FallbackBaseURL &&
		c.ConnectTimeout == defaults.ConnectTimeout &&
		c.RequestTimeout == defaults.RequestTimeout &&
		c.Format == defaults.Format &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.GetVerbose() == defaults.GetVerbose()
}
