package notify

import (
	"fmt"
	"os/exec"
)

type notificationTool struct {
	name         string
	buildCommand func(tool string, title string, message string, nType NotificationType) *exec.Cmd
}

func urgencyOf(nType NotificationType) string {
	if nType == Error {
		return "critical"
	}
	return "normal"
}

var notificationTools = []notificationTool{
	{
		name: "dunstify",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			args := []string{"-u", urgencyOf(nType), "-t", "5000"}
			if nType == Urgent {
				// Replace the previous attention notification instead of stacking.
				args = append(args, "-h", "string:x-dunst-stack-tag:hypr-windowlist-urgent")
			}
			return exec.Command(tool, append(args, title, message)...)
		},
	},
	{
		name: "notify-send",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command(tool, "-a", "hypr-windowlist", "-u", urgencyOf(nType), title, message)
		},
	},
	{
		name: "zenity",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			flag := "--info"
			if nType == Error {
				flag = "--error"
			}
			return exec.Command(tool, flag, "--text", message, "--title", title)
		},
	},
}

func (n *NotifyService) trySystemNotification(title string, message string, nType NotificationType) error {
	for _, tool := range notificationTools {
		if _, err := n.lookPath(tool.name); err == nil {
			cmd := tool.buildCommand(tool.name, title, message, nType)
			if err := n.run(cmd); err == nil {
				n.log.Debug("Notification sent successfully",
					"tool", tool.name,
					"type", nType.String())
				return nil
			}
		}
	}
	return fmt.Errorf("no notification tools available")
}
