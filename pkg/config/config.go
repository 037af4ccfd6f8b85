/*
Package config manages the TOML config for typeahead.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/charmbracelet/log"
)

const appName = "typeahead"

// Config holds the entire config structure
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Session SessionConfig `toml:"session"`
	Server  ServerConfig  `toml:"server"`
	Vocab   VocabConfig   `toml:"vocab"`
	CLI     CliConfig     `toml:"cli"`
}

// EngineConfig tunes ranking.
type EngineConfig struct {
	MaxCost    int  `toml:"max_cost"`
	Limit      int  `toml:"limit"`
	PrefixOnly bool `toml:"prefix_only"`
	CacheSize  int  `toml:"cache_size"`
}

// SessionConfig holds front-end behavior shared by the tui and cli.
type SessionConfig struct {
	AcceptKeys   []string `toml:"accept_keys"`
	WaitingText  string   `toml:"waiting_text"`
	NoResultText string   `toml:"no_result_text"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	ReadyBanner bool `toml:"ready_banner"`
	LogRequests bool `toml:"log_requests"`
}

// VocabConfig locates the word list.
type VocabConfig struct {
	Path       string `toml:"path"`
	Watch      bool   `toml:"watch"`
	DebounceMs int    `toml:"debounce_ms"`
}

// CliConfig holds debug cli options.
type CliConfig struct {
	Prompt    string `toml:"prompt"`
	ShowCosts bool   `toml:"show_costs"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/typeahead
// 2. ~/Library/Application Support/typeahead (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/typeahead/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxCost:    2,
			Limit:      5,
			PrefixOnly: false,
			CacheSize:  256,
		},
		Session: SessionConfig{
			AcceptKeys:   []string{"tab"},
			WaitingText:  "Waiting for input...",
			NoResultText: "No results",
		},
		Server: ServerConfig{
			ReadyBanner: true,
			LogRequests: false,
		},
		Vocab: VocabConfig{
			Path:       "",
			Watch:      false,
			DebounceMs: 150,
		},
		CLI: CliConfig{
			Prompt:    "> ",
			ShowCosts: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. A file that does not decode cleanly is
// recovered section by section, keeping defaults for whatever is unusable.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLLoose(configPath)
	if err != nil {
		log.Warnf("Could not recover any settings from %s. Using all defaults.", configPath)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(raw, "session"); ok {
		extractSessionConfig(section, &config.Session)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "vocab"); ok {
		extractVocabConfig(section, &config.Vocab)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "max_cost"); ok {
		engine.MaxCost = val
	}
	if val, ok := utils.ExtractInt64(data, "limit"); ok {
		engine.Limit = val
	}
	if val, ok := utils.ExtractBool(data, "prefix_only"); ok {
		engine.PrefixOnly = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func extractSessionConfig(data map[string]any, session *SessionConfig) {
	if val, ok := utils.ExtractStringSlice(data, "accept_keys"); ok {
		session.AcceptKeys = val
	}
	if val, ok := utils.ExtractString(data, "waiting_text"); ok {
		session.WaitingText = val
	}
	if val, ok := utils.ExtractString(data, "no_result_text"); ok {
		session.NoResultText = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractBool(data, "ready_banner"); ok {
		server.ReadyBanner = val
	}
	if val, ok := utils.ExtractBool(data, "log_requests"); ok {
		server.LogRequests = val
	}
}

func extractVocabConfig(data map[string]any, vocab *VocabConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		vocab.Path = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		vocab.Watch = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		vocab.DebounceMs = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "prompt"); ok {
		cli.Prompt = val
	}
	if val, ok := utils.ExtractBool(data, "show_costs"); ok {
		cli.ShowCosts = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the engine values that are non-nil and saves to file
func (c *Config) Update(configPath string, maxCost, limit *int, prefixOnly *bool) error {
	engine := &c.Engine
	if maxCost != nil {
		engine.MaxCost = *maxCost
	}
	if limit != nil {
		engine.Limit = *limit
	}
	if prefixOnly != nil {
		engine.PrefixOnly = *prefixOnly
	}
	return SaveConfig(c, configPath)
}
