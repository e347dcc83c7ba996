package config

import (
	"os"
	"path/filepath"

	"hypr-windowlist/pkg/logger"
)

const (
	defaultMinimizeWorkspace = "minimized"
	socketName               = "hypr-windowlist.sock"
)

// DefaultConfig creates a default configuration.
func DefaultConfig(log *logger.Logger) (*Config, error) {
	log.Debug("Creating default configuration")

	config := &Config{
		groupByApp:        true,
		displayTitle:      "TITLE",
		minimizeWorkspace: defaultMinimizeWorkspace,
		socketPath:        DefaultSocketPath(),
		urgencyNotify:     true,
		urgencySound:      false,
		log:               log,
	}

	if err := config.validate(); err != nil {
		log.Error("Default configuration is invalid", err)
		return nil, err
	}

	log.Info("Created default configuration",
		"group_by_app", config.groupByApp,
		"display_title", config.displayTitle,
		"socket_path", config.socketPath)

	return config, nil
}

// DefaultSocketPath returns the IPC socket path used when none is configured.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(os.TempDir(), socketName)
}
