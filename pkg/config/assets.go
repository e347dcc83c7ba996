package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const rofiTheme = "windowlist.rasi"

// GetAssetsDir returns the assets directory.
func (c *Config) GetAssetsDir() string {
	return c.assetsDir
}

// GetRofiThemePath returns the path to the picker's Rofi theme.
func (c *Config) GetRofiThemePath() (string, error) {
	if c.assetsDir == "" {
		return "", fmt.Errorf("assets directory is not set up")
	}
	themePath := filepath.Join(c.assetsDir, rofiTheme)
	if _, err := os.Stat(themePath); err != nil {
		c.log.Error("Rofi theme missing", err, "path", themePath)
		return "", fmt.Errorf("rofi theme: %w", err)
	}
	c.log.Debug("Using Rofi theme", "path", themePath)
	return themePath, nil
}

// setupAssets copies the embedded assets into configDir/assets. Files the
// user already has are left alone so they can be customized.
func (c *Config) setupAssets(configDir string, embeddedAssets fs.FS) error {
	c.log.Debug("Setting up assets directory")

	c.assetsDir = filepath.Join(configDir, "assets")

	if err := os.MkdirAll(c.assetsDir, 0755); err != nil {
		c.log.Error("Failed to create assets directory", err, "path", c.assetsDir)
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	entries, err := fs.ReadDir(embeddedAssets, "assets")
	if err != nil {
		c.log.Error("Failed to read embedded assets", err)
		return fmt.Errorf("failed to read embedded assets: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		sourceFile := "assets/" + entry.Name()
		destFile := filepath.Join(c.assetsDir, entry.Name())

		if _, err := os.Stat(destFile); err == nil {
			c.log.Debug("Asset file exists, skipping", "file", destFile)
			continue
		}

		data, err := fs.ReadFile(embeddedAssets, sourceFile)
		if err != nil {
			c.log.Error("Failed to read embedded asset", err, "file", sourceFile)
			return fmt.Errorf("failed to read embedded asset %s: %w", sourceFile, err)
		}

		if err := os.WriteFile(destFile, data, 0644); err != nil {
			c.log.Error("Failed to write asset file", err, "destination", destFile)
			return fmt.Errorf("failed to write asset file %s: %w", destFile, err)
		}

		c.log.Debug("Copied asset file", "source", sourceFile, "destination", destFile)
	}

	c.log.Info("Assets setup completed", "assets_dir", c.assetsDir)
	return nil
}
