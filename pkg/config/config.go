package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the tgmr configuration
type Config struct {
	ReplayDir string  `yaml:"replay_dir" env:"TGMR_REPLAY_DIR"`
	Pattern   string  `yaml:"pattern" env:"TGMR_PATTERN"`
	Workers   int     `yaml:"workers" env:"TGMR_WORKERS"`
	StateDir  string  `yaml:"state_dir" env:"TGMR_STATE_DIR"`
	Output    string  `yaml:"output" env:"TGMR_OUTPUT"`
	Server    Server  `yaml:"server"`
	Steam     Steam   `yaml:"steam"`
	Logging   Logging `yaml:"logging"`
}

// Server contains the HTTP API settings
type Server struct {
	Port   int    `yaml:"port" env:"TGMR_PORT"`
	Bind   string `yaml:"bind" env:"TGMR_BIND"`
	APIKey string `yaml:"api_key,omitempty" env:"TGMR_API_KEY"`
}

// Steam contains the Steam Web API settings
type Steam struct {
	APIKey    string        `yaml:"api_key" env:"STEAM_API_KEY"`
	BaseURL   string        `yaml:"base_url" env:"STEAM_BASE_URL"`
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level" env:"TGMR_LOG_LEVEL"`
	File  string `yaml:"file" env:"TGMR_LOG_FILE"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ReplayDir: DefaultReplayDir(),
		Pattern:   "**/replay_data/**/*.bin",
		Workers:   0,
		StateDir:  defaultStateDir(),
		Output:    "replays.csv",
		Server: Server{
			Port: 9210,
			Bind: "127.0.0.1",
		},
		Steam: Steam{
			BaseURL:   "http://api.steampowered.com",
			BatchSize: 100,
			Timeout:   10 * time.Second,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// DefaultReplayDir returns where TGM4 keeps its save data on this platform.
// Outside Windows the game runs under Proton, so the path points into its prefix.
func DefaultReplayDir() string {
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "tgm4")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./tgm4"
	}
	return filepath.Join(home, ".steam", "steam", "steamapps", "compatdata", "3328480",
		"pfx", "drive_c", "users", "steamuser", "AppData", "Local", "tgm4")
}

func defaultStateDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "./tgmr-state"
	}
	return filepath.Join(dir, "tgmr")
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return config, nil
}

// Load resolves the effective configuration: defaults, then the config file
// when it exists, then a .env file in the working directory, then the
// environment.
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath != "" && ConfigExists(configPath) {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env")
	}
	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config fields from environment variables.
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// the file may hold the Steam API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath.
func BootstrapConfig(configPath, replayDir string) (*Config, error) {
	config := DefaultConfig()
	if replayDir != "" {
		config.ReplayDir = replayDir
	}
	if err := SaveConfig(config, configPath); err != nil {
		return nil, errors.Wrap(err, "failed to save bootstrap config")
	}
	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./tgmr.yaml"
	}
	return filepath.Join(dir, "tgmr", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
