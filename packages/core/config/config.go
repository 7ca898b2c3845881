package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names a config file to use instead of searching.
const EnvConfigPath = "APITESTC_CONFIG"

// Config represents the apitestc configuration
type Config struct {
	Target          string `json:"target,omitempty" yaml:"target,omitempty"`
	Output          string `json:"output,omitempty" yaml:"output,omitempty"` // relative to the input file
	Package         string `json:"package,omitempty" yaml:"package,omitempty"`
	ClassName       string `json:"className,omitempty" yaml:"className,omitempty"`
	FallbackBaseURL string `json:"fallbackBaseUrl,omitempty" yaml:"fallbackBaseUrl,omitempty"`
	ConnectTimeout  int    `json:"connectTimeout,omitempty" yaml:"connectTimeout,omitempty"` // milliseconds
	RequestTimeout  int    `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"` // milliseconds
	Format          string `json:"format,omitempty" yaml:"format,omitempty"`
	NoColor         *bool  `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Verbose         *bool  `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// Timeouts returns the connect and per-request timeouts.
func (c *Config) Timeouts() (connect, request time.Duration) {
	return time.Duration(c.ConnectTimeout) * time.Millisecond, time.Duration(c.RequestTimeout) * time.Millisecond
}

// OutputPath resolves where the generated file for inputFile is written.
// defaultName is used when no output is configured.
func (c *Config) OutputPath(inputFile, defaultName string) string {
	out := c.Output
	if out == "" {
		out = defaultName
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(filepath.Dir(inputFile), out)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".apitestc.yaml",
	"apitestc.yaml",
	".apitestc.json",
	"apitestc.json",
}

//go:embed schema.json
var schemaJSON []byte

var schema = gojsonschema.NewBytesLoader(schemaJSON)

// ValidationError lists every schema violation in a config file.
type ValidationError struct {
	File     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.File, strings.Join(e.Problems, "; "))
}

// Load returns the defaults, overlaid with the config file and then with
// the environment. The file is $APITESTC_CONFIG when set; otherwise the
// first ConfigFilenames entry found in dirs, in order. The returned path
// is empty when no file was used. A .env file in dirs fills in APITESTC_*
// variables the environment does not set.
func Load(dirs ...string) (*Config, string, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = Find(dirs...)
	}

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, path, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	var dotenv map[string]string
	if envPath := findDotEnv(dirs...); envPath != "" {
		vars, err := LoadDotEnv(envPath)
		if err != nil {
			return nil, path, err
		}
		dotenv = vars
	}
	env := FromEnv(dotenv)
	if err := validateEnv(env); err != nil {
		return nil, path, err
	}
	return cfg.Merge(env), path, nil
}

// validateEnv runs the environment overrides through the same schema as a
// config file.
func validateEnv(env *Config) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return Validate("environment", doc)
}

// Find returns the first config file present in dirs, or "".
func Find(dirs ...string) string {
	for _, dir := range dirs {
		for _, filename := range ConfigFilenames {
			configPath := filepath.Join(dir, filename)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}
	}
	return ""
}

// LoadFile reads and validates one config file. Only the keys present in
// the file are set on the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

// Decode parses data as YAML, or as JSON when name ends in .json, and
// checks it against the config schema.
func Decode(name string, data []byte) (*Config, error) {
	isJSON := strings.EqualFold(filepath.Ext(name), ".json")

	var doc any
	if isJSON {
		err := json.Unmarshal(data, &doc)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", name, err)
		}
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", name, err)
	}

	config := &Config{}
	if doc == nil {
		return config, nil
	}
	if err := Validate(name, doc); err != nil {
		return nil, err
	}

	if isJSON {
		err := json.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", name, err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", name, err)
	}
	return config, nil
}

// Validate checks a decoded config document against the embedded schema.
func Validate(name string, doc any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validating config %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{File: name}
	for _, desc := range result.Errors() {
		verr.Problems = append(verr.Problems, desc.String())
	}
	return verr
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Target != "" {
		result.Target = other.Target
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.Package != "" {
		result.Package = other.Package
	}
	if other.ClassName != "" {
		result.ClassName = other.ClassName
	}
	if other.FallbackBaseURL != "" {
		result.FallbackBaseURL = other.FallbackBaseURL
	}
	if other.ConnectTimeout > 0 {
		result.ConnectTimeout = other.ConnectTimeout
	}
	if other.RequestTimeout > 0 {
		result.RequestTimeout = other.RequestTimeout
	}
	if other.Format != "" {
		result.Format = other.Format
	}

	// Boolean flags - only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}

	return &result
}
