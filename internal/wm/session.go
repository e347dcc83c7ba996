package wm

import (
	"fmt"
	"os"

	"hypr-windowlist/pkg/core"
)

// CheckSession makes sure we run inside a Hyprland session.
func CheckSession(log core.Logger) error {
	// Check session type
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	log.Info("Session type detected", "session", sessionType)

	switch sessionType {
	case "wayland", "":
		if sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE"); sig != "" {
			log.Debug("Compositor detected", "type", "Hyprland", "instance", sig)
			return nil
		}
		return fmt.Errorf("unsupported Wayland compositor: only Hyprland is supported")
	case "x11":
		return fmt.Errorf("X11 sessions are not supported: the window list follows Hyprland's event socket")
	default:
		return fmt.Errorf("unsupported session type: %s", sessionType)
	}
}
