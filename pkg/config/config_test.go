package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Contains(t, config.ReplayDir, "tgm4")
	assert.Equal(t, "**/replay_data/**/*.bin", config.Pattern)
	assert.Equal(t, "replays.csv", config.Output)
	assert.Equal(t, 9210, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Equal(t, 100, config.Steam.BatchSize)
	assert.Equal(t, 10*time.Second, config.Steam.Timeout)
	assert.Empty(t, config.Steam.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			ReplayDir: "/games/tgm4",
			Pattern:   "**/*.bin",
			Workers:   4,
			StateDir:  "/var/lib/tgmr",
			Output:    "out.csv",
			Server:    Server{Port: 9000, Bind: "0.0.0.0", APIKey: "api"},
			Steam: Steam{
				APIKey:    "key",
				BaseURL:   "http://localhost:1234",
				BatchSize: 50,
				Timeout:   3 * time.Second,
			},
			Logging: Logging{Level: "debug", File: "tgmr.log"},
		}

		require.NoError(t, SaveConfig(expectedConfig, configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("replay_dir: /somewhere\n"), 0o644))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "/somewhere", loadedConfig.ReplayDir)
		assert.Equal(t, 9210, loadedConfig.Server.Port)
		assert.Equal(t, "**/replay_data/**/*.bin", loadedConfig.Pattern)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o644))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.ReplayDir = "/from/file"
	cfg.Steam.APIKey = "file-key"
	require.NoError(t, SaveConfig(cfg, configPath))

	t.Setenv("TGMR_REPLAY_DIR", "/from/env")
	t.Setenv("STEAM_API_KEY", "env-key")
	t.Setenv("TGMR_WORKERS", "3")
	t.Setenv("TGMR_PORT", "9999")
	t.Setenv("TGMR_API_KEY", "server-key")

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", loaded.ReplayDir)
	assert.Equal(t, "env-key", loaded.Steam.APIKey)
	assert.Equal(t, 3, loaded.Workers)
	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Equal(t, "server-key", loaded.Server.APIKey)
}

func TestLoad_WithoutConfigFile(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "replays.csv", loaded.Output)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("TGMR_WORKERS", "many")
	assert.Error(t, ApplyEnv(DefaultConfig()))
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	config := DefaultConfig()

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := SaveConfig(DefaultConfig(), filepath.Join(blocker, "config.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	config, err := BootstrapConfig(configPath, "/custom/replays")
	require.NoError(t, err)
	assert.Equal(t, "/custom/replays", config.ReplayDir)
	assert.True(t, ConfigExists(configPath))

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.Contains(t, path, "tgmr")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := DefaultConfig()
	config.Steam.Timeout = 1500 * time.Millisecond

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 1.5s")

	var unmarshalled Config
	require.NoError(t, yaml.Unmarshal(data, &unmarshalled))
	assert.Equal(t, config, &unmarshalled)
}

func TestSetupLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "tgmr.log")

	closer, err := SetupLogging(Logging{Level: "debug", File: logFile})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = closer.Close()
		_, _ = SetupLogging(Logging{Level: "info"})
	})

	Debugf("[test] hello %d", 42)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test] hello 42")

	_, err = SetupLogging(Logging{Level: "loud"})
	assert.Error(t, err)
}
