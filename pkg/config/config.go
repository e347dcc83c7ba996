package config

import (
	"hypr-windowlist/internal/windowlist"
	"hypr-windowlist/pkg/logger"
)

// Config holds the application configuration.
type Config struct {
	// Configurable via JSON file (private fields to enforce immutability)
	groupByApp        bool
	displayTitle      string
	minimizeWorkspace string
	socketPath        string
	notifyCommand     string
	urgencyNotify     bool
	urgencySound      bool
	urgencySoundFile  string

	// Internal fields
	titleMode windowlist.TitleMode
	log       *logger.Logger
	assetsDir string
	path      string
}

// New creates a new Config instance with the provided logger.
func New(log *logger.Logger) *Config {
	return &Config{
		log: log,
	}
}

// GetPath returns the file the configuration was loaded from, if any.
func (c *Config) GetPath() string {
	return c.path
}

// GetGroupByApp reports whether windows are grouped per application.
func (c *Config) GetGroupByApp() bool {
	return c.groupByApp
}

// GetDisplayTitle returns the configured title mode, TITLE, APP or NONE.
func (c *Config) GetDisplayTitle() string {
	return c.displayTitle
}

// GetMinimizeWorkspace returns the special workspace minimized windows go to.
func (c *Config) GetMinimizeWorkspace() string {
	return c.minimizeWorkspace
}

// GetSocketPath returns the IPC socket path.
func (c *Config) GetSocketPath() string {
	return c.socketPath
}

// GetNotifyCommand returns the notify command.
func (c *Config) GetNotifyCommand() string {
	return c.notifyCommand
}

func (c *Config) GetUrgencyNotify() bool {
	return c.urgencyNotify
}

func (c *Config) GetUrgencySound() bool {
	return c.urgencySound
}

// GetUrgencySoundFile returns a WAV file to play instead of the built-in chime.
func (c *Config) GetUrgencySoundFile() string {
	return c.urgencySoundFile
}

// WindowListOptions returns the options the window list is built with.
func (c *Config) WindowListOptions() windowlist.Options {
	return windowlist.Options{
		GroupByApp:   c.groupByApp,
		DisplayTitle: c.titleMode,
	}
}
