package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"hypr-windowlist/pkg/logger"
)

// initializeConfig creates or loads the configuration.
func initializeConfig(providedPath string, defaultPath string, log *logger.Logger) (*Config, error) {
	if providedPath != "" {
		config, err := loadConfigFromPath(providedPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from provided path: %w", err)
		}
		return config, nil
	}

	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		config, err := DefaultConfig(log)
		if err != nil {
			return nil, err
		}

		data, err := json.MarshalIndent(config, "", "    ")
		if err != nil {
			return nil, err
		}

		if err := os.WriteFile(defaultPath, data, 0644); err != nil {
			return nil, err
		}
		log.Info("Wrote default configuration", "path", defaultPath)
		config.path = defaultPath
		return config, nil
	}

	config, err := loadConfigFromPath(defaultPath, log)
	if err != nil {
		log.Warn("Falling back to default configuration", "path", defaultPath, "error", err.Error())
		config, err = DefaultConfig(log)
		if err != nil {
			return nil, err
		}
		// Still watched, so fixing the file takes effect.
		config.path = defaultPath
	}
	return config, nil
}

// ConfigDir returns the directory holding config.json and the assets.
func ConfigDir() (string, error) {
	homeConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeConfigDir, "hypr-windowlist"), nil
}

// FindConfig locates and initializes the configuration.
func FindConfig(providedPath string, log *logger.Logger, embeddedAssets fs.FS) (*Config, error) {
	log.Info("Looking for configuration", "provided_path", providedPath)

	defaultConfigDir, err := ConfigDir()
	if err != nil {
		log.Error("Failed to get user config directory", err)
		return nil, err
	}
	defaultConfigPath := filepath.Join(defaultConfigDir, "config.json")

	log.Debug("Configuration paths",
		"config_dir", defaultConfigDir,
		"config_path", defaultConfigPath)

	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		log.Error("Failed to create directory", err, "path", defaultConfigDir)
		return nil, err
	}

	config, err := initializeConfig(providedPath, defaultConfigPath, log)
	if err != nil {
		return nil, err
	}

	// Setup assets once after config is loaded
	if embeddedAssets != nil {
		if err := config.setupAssets(defaultConfigDir, embeddedAssets); err != nil {
			return nil, err
		}
	}

	return config, nil
}
