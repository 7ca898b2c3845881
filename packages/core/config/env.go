package config

import "os"

const (
	EnvTarget  = "APITESTC_TARGET"
	EnvOutput  = "APITESTC_OUTPUT"
	EnvFormat  = "APITESTC_FORMAT"
	EnvNoColor = "APITESTC_NO_COLOR"
	EnvVerbose = "APITESTC_VERBOSE"
)

// FromEnv returns the settings present in the environment, falling back
// to dotenv for keys the environment leaves unset. Unset keys leave the
// matching fields empty so Merge keeps the file value.
func FromEnv(dotenv map[string]string) *Config {
	lookup := func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return dotenv[key]
	}
	return &Config{
		Target:  getEnvString(lookup, EnvTarget, ""),
		Output:  getEnvString(lookup, EnvOutput, ""),
		Format:  getEnvString(lookup, EnvFormat, ""),
		NoColor: getEnvBool(lookup, EnvNoColor),
		Verbose: getEnvBool(lookup, EnvVerbose),
	}
}

func getEnvString(lookup func(string) string, key, defaultVal string) string {
	if val := lookup(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(lookup func(string) string, key string) *bool {
	if val := lookup(key); val != "" {
		return BoolPtr(val == "true" || val == "1" || val == "yes")
	}
	return nil
}
