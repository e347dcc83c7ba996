package config

import (
	"fmt"
	"strings"

	"hypr-windowlist/internal/windowlist"
)

// validate checks the loaded values and derives the internal ones.
func (c *Config) validate() error {
	log := c.log
	log.Debug("Validating configuration", "display_title", c.displayTitle)

	mode, err := windowlist.ParseTitleMode(c.displayTitle)
	if err != nil {
		log.Error("Invalid display_title", err, "value", c.displayTitle)
		return err
	}
	c.titleMode = mode
	c.displayTitle = mode.String()

	if strings.ContainsAny(c.minimizeWorkspace, ", ") || strings.HasPrefix(c.minimizeWorkspace, "special:") {
		err := fmt.Errorf("minimize_workspace %q must be a bare name like %q", c.minimizeWorkspace, defaultMinimizeWorkspace)
		log.Error("Invalid minimize_workspace", err)
		return err
	}

	log.Debug("Configuration validated")
	return nil
}
