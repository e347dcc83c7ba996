package config

import (
	"encoding/json"
	"os"

	"hypr-windowlist/pkg/logger"
)

// fileConfig is the on-disk shape. Pointers tell "unset" from false.
type fileConfig struct {
	GroupByApp        *bool  `json:"group_by_app,omitempty"`
	DisplayTitle      string `json:"display_title,omitempty"`
	MinimizeWorkspace string `json:"minimize_workspace,omitempty"`
	SocketPath        string `json:"socket_path,omitempty"`
	NotifyCommand     string `json:"notify_command"`
	UrgencyNotify     *bool  `json:"urgency_notify,omitempty"`
	UrgencySound      *bool  `json:"urgency_sound,omitempty"`
	UrgencySoundFile  string `json:"urgency_sound_file,omitempty"`
}

// LoadFromFile loads the configuration from a JSON file. Keys missing from
// the file keep their default values.
func (c *Config) LoadFromFile(path string, log *logger.Logger) error {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read config file", err, "path", path)
		return err
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	var temp fileConfig
	if err := json.Unmarshal(data, &temp); err != nil {
		log.Error("Failed to parse config JSON", err)
		return err
	}
	log.Debug("Config JSON parsed successfully")

	if temp.GroupByApp != nil {
		c.groupByApp = *temp.GroupByApp
	}
	if temp.DisplayTitle != "" {
		c.displayTitle = temp.DisplayTitle
	}
	if temp.MinimizeWorkspace != "" {
		c.minimizeWorkspace = temp.MinimizeWorkspace
	}
	if temp.SocketPath != "" {
		c.socketPath = temp.SocketPath
	}
	c.notifyCommand = temp.NotifyCommand
	if temp.UrgencyNotify != nil {
		c.urgencyNotify = *temp.UrgencyNotify
	}
	if temp.UrgencySound != nil {
		c.urgencySound = *temp.UrgencySound
	}
	c.urgencySoundFile = temp.UrgencySoundFile

	return c.validate()
}

// MarshalJSON writes every option, so a freshly created file documents them.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(fileConfig{
		GroupByApp:        &c.groupByApp,
		DisplayTitle:      c.displayTitle,
		MinimizeWorkspace: c.minimizeWorkspace,
		SocketPath:        c.socketPath,
		NotifyCommand:     c.notifyCommand,
		UrgencyNotify:     &c.urgencyNotify,
		UrgencySound:      &c.urgencySound,
		UrgencySoundFile:  c.urgencySoundFile,
	})
}

// Load reads path on top of the defaults.
func Load(path string, log *logger.Logger) (*Config, error) {
	return loadConfigFromPath(path, log)
}

// loadConfigFromPath loads the configuration from a file on top of the
// defaults.
func loadConfigFromPath(path string, log *logger.Logger) (*Config, error) {
	config, err := DefaultConfig(log)
	if err != nil {
		return nil, err
	}
	if err := config.LoadFromFile(path, log); err != nil {
		return nil, err
	}
	config.path = path
	return config, nil
}
