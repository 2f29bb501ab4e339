package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the configuration the running process uses.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex
)

// Initialize loads configuration from path with environment overrides and
// stores it as the process configuration.
func Initialize(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	SetConfig(cfg)
	return nil
}

// GetConfig returns the process configuration, or nil before Initialize.
// It is safe for concurrent use.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process configuration.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig reloads the configuration from path. The new configuration
// replaces the current one only if loading and validation succeed.
func ReloadConfig(path string) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return cfg, nil
}
