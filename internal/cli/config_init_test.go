package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cardcollector/internal/config"
)

// TestConfigInit_ProjectDir verifies that "config init" with a project
// directory creates project-local .cardcollector/config.yaml and .gitignore.
func TestConfigInit_ProjectDir(t *testing.T) {
	setupCLITest(t)
	tmpDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, tmpDir)

	res := runCLI(t, "config", "init")
	require.NoError(t, res.err, "config init should succeed in a project")
	assert.Contains(t, res.out, "Configuration initialized at")
	assert.Contains(t, res.out, "Created .gitignore")

	configPath := filepath.Join(tmpDir, ".cardcollector", "config.yaml")
	_, statErr := os.Stat(configPath)
	require.NoError(t, statErr, ".cardcollector/config.yaml should exist")

	gitignoreData, readErr := os.ReadFile(filepath.Join(tmpDir, ".cardcollector", ".gitignore"))
	require.NoError(t, readErr)
	assert.Equal(t, config.GitignoreContent(), string(gitignoreData))
}

// TestConfigInit_ExistingGitignorePreserved verifies that "config init --force"
// does not overwrite an existing .gitignore file.
func TestConfigInit_ExistingGitignorePreserved(t *testing.T) {
	setupCLITest(t)
	tmpDir := t.TempDir()

	projectDir := filepath.Join(tmpDir, ".cardcollector")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	customContent := "# My custom gitignore\n*.secret\n"
	gitignorePath := filepath.Join(projectDir, ".gitignore")
	require.NoError(t, os.WriteFile(gitignorePath, []byte(customContent), 0o644))

	res := runCLI(t, "config", "init", "--force", "--project-dir", tmpDir)
	require.NoError(t, res.err, "config init --force should succeed")

	gitignoreData, readErr := os.ReadFile(gitignorePath)
	require.NoError(t, readErr)
	assert.Equal(t, customContent, string(gitignoreData))
}

// TestConfigInit_GlobalFlag verifies --global skips the project directory.
func TestConfigInit_GlobalFlag(t *testing.T) {
	home := setupCLITest(t)
	tmpDir := t.TempDir()

	res := runCLI(t, "config", "init", "--global", "--project-dir", tmpDir)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Configuration initialized successfully")

	_, statErr := os.Stat(filepath.Join(home, "config.yaml"))
	require.NoError(t, statErr, "global config.yaml should exist")
	_, statErr = os.Stat(filepath.Join(tmpDir, ".cardcollector", "config.yaml"))
	assert.True(t, os.IsNotExist(statErr), "project config should not be created")
}

// TestConfigInit_ForceOverwritesConfig verifies the existing-file guard and --force.
func TestConfigInit_ForceOverwritesConfig(t *testing.T) {
	home := setupCLITest(t)
	configPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  url: http://old.example\n"), 0o600))

	res := runCLI(t, "config", "init")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")

	res = runCLI(t, "config", "init", "--force")
	require.NoError(t, res.err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), config.DefaultServerURL)
	assert.NotContains(t, string(data), "old.example")
}

func TestConfigSetGet(t *testing.T) {
	home := setupCLITest(t)

	res := runCLI(t, "config", "set", "server.url", "https://cards.example.com")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Set server.url = https://cards.example.com")

	res = runCLI(t, "config", "get", "server.url")
	require.NoError(t, res.err)
	assert.Equal(t, "https://cards.example.com\n", res.out)

	res = runCLI(t, "config", "set", "--", "search.debounce_ms", "-5")
	require.ErrorIs(t, res.err, config.ErrInvalidDebounce)

	res = runCLI(t, "config", "get", "nope.key")
	require.ErrorIs(t, res.err, config.ErrUnknownKey)

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://cards.example.com")
}

func TestConfigSet_DoesNotPersistEnvOverrides(t *testing.T) {
	home := setupCLITest(t)
	t.Setenv(config.EnvLogFormat, "json")

	require.NoError(t, runCLI(t, "config", "set", "search.min_length", "2").err)

	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "min_length: 2")
	assert.NotContains(t, string(data), "format: json")
}

func TestConfigGet_ProjectOverlayWins(t *testing.T) {
	setupCLITest(t)
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, ".cardcollector")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"),
		[]byte("output:\n  default_format: yaml\n"), 0o600))

	res := runCLI(t, "config", "get", "output.default_format", "--project-dir", tmpDir)
	require.NoError(t, res.err)
	assert.Equal(t, "yaml\n", res.out)
}

func TestConfigListAndValidate(t *testing.T) {
	setupCLITest(t)

	res := runCLI(t, "config", "list", "-o", "json")
	require.NoError(t, res.err)
	var values map[string]string
	decodeJSON(t, res.out, &values)
	assert.Equal(t, config.DefaultServerURL, values["server.url"])
	assert.Len(t, values, len(config.Keys()))

	res = runCLI(t, "config", "validate", "--verbose")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Configuration is valid")
	assert.Contains(t, res.out, "Default sort: name:asc")

	res = runCLI(t, "config", "path")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "config.yaml")
}

func TestConfigValidate_BadDefaultSort(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("collection:\n  default_sort: colour\n"), 0o600))

	res := runCLI(t, "config", "validate")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "collection.default_sort")
}
