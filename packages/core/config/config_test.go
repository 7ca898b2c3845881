package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv keeps the developer's environment out of Load.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvTarget, EnvOutput, EnvFormat, EnvNoColor, EnvVerbose} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "go", cfg.Target)
	assert.Equal(t, "apitest", cfg.Package)
	assert.Equal(t, "GeneratedTests", cfg.ClassName)
	assert.Equal(t, "http://localhost:8080", cfg.FallbackBaseURL)
	assert.Equal(t, "console", cfg.Format)
	assert.False(t, cfg.GetNoColor())
	assert.False(t, cfg.GetVerbose())
	assert.True(t, cfg.IsDefault())

	connect, request := cfg.Timeouts()
	assert.Equal(t, 5*time.Second, connect)
	assert.Equal(t, 10*time.Second, request)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, path, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, cfg.IsDefault())
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".apitestc.yaml", `
target: junit
className: UserTests
requestTimeout: 2500
noColor: true
`)
	cfg, path, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".apitestc.yaml"), path)
	assert.Equal(t, "junit", cfg.Target)
	assert.Equal(t, "UserTests", cfg.ClassName)
	assert.Equal(t, 2500, cfg.RequestTimeout)
	assert.Equal(t, 5000, cfg.ConnectTimeout)
	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, "apitest", cfg.Package)
	assert.False(t, cfg.IsDefault())
}

func TestLoad_JSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "apitestc.json", `{"package": "usersapi", "fallbackBaseUrl": "http://staging", "format": "json"}`)

	cfg, _, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "usersapi", cfg.Package)
	assert.Equal(t, "http://staging", cfg.FallbackBaseURL)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_SearchOrder(t *testing.T) {
	clearEnv(t)
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, second, ".apitestc.yaml", "target: junit\n")
	writeFile(t, first, "apitestc.json", `{"target": "go", "package": "first"}`)
	writeFile(t, first, "apitestc.yaml", "package: preferred\n")

	cfg, path, err := Load(first, second)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(first, "apitestc.yaml"), path)
	assert.Equal(t, "preferred", cfg.Package)
}

func TestLoad_EnvPathOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".apitestc.yaml", "package: searched\n")
	explicit := writeFile(t, t.TempDir(), "custom.yaml", "package: explicit\n")
	t.Setenv(EnvConfigPath, explicit)

	cfg, path, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Equal(t, "explicit", cfg.Package)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".apitestc.yaml", "target: go\noutput: out_test.go\nverbose: false\n")
	t.Setenv(EnvTarget, "junit")
	t.Setenv(EnvOutput, "Out.java")
	t.Setenv(EnvVerbose, "1")
	t.Setenv(EnvNoColor, "no")

	cfg, _, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "junit", cfg.Target)
	assert.Equal(t, "Out.java", cfg.Output)
	assert.True(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFormat, "xml")
	_, _, err := Load(t.TempDir())
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "environment", verr.File)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown key", "c.yaml", "retries: 3\n"},
		{"unknown target", "c.yaml", "target: python\n"},
		{"bad package", "c.json", `{"package": "Not-Valid"}`},
		{"bad class name", "c.yaml", "className: 1Tests\n"},
		{"negative timeout", "c.yaml", "connectTimeout: -1\n"},
		{"fractional timeout", "c.json", `{"requestTimeout": 1.5}`},
		{"wrong type", "c.yaml", "noColor: sometimes\n"},
		{"not an object", "c.yaml", "- go\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.file, []byte(tt.content))
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Problems)
			assert.Contains(t, err.Error(), "invalid config "+tt.file)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode("c.json", []byte(`{"target": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config c.json")

	_, err = Decode("c.yaml", []byte("target: [go\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config c.yaml")
}

func TestDecode_EmptyFile(t *testing.T) {
	cfg, err := Decode("c.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(&Config{Target: "junit", ConnectTimeout: 100, NoColor: BoolPtr(true)})

	assert.Equal(t, "junit", merged.Target)
	assert.Equal(t, 100, merged.ConnectTimeout)
	assert.Equal(t, 10000, merged.RequestTimeout)
	assert.True(t, merged.GetNoColor())
	assert.False(t, merged.GetVerbose())

	assert.Equal(t, "go", base.Target, "Merge must not modify the receiver")
	assert.Same(t, base, base.Merge(nil))
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("specs", "generated_test.go"), cfg.OutputPath(filepath.Join("specs", "users.test"), "generated_test.go"))

	cfg.Output = "out/users_test.go"
	assert.Equal(t, filepath.Join("specs", "out", "users_test.go"), cfg.OutputPath(filepath.Join("specs", "users.test"), "generated_test.go"))

	abs := filepath.Join(t.TempDir(), "abs_test.go")
	cfg.Output = abs
	assert.Equal(t, abs, cfg.OutputPath("users.test", "generated_test.go"))
}
