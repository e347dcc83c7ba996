package notify

import (
	"os/exec"

	"hypr-windowlist/pkg/logger"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	Error NotificationType = iota
	Info
	// Urgent is a window asking for attention.
	Urgent
)

func (t NotificationType) String() string {
	switch t {
	case Error:
		return "ERROR"
	case Urgent:
		return "URGENT"
	}
	return "INFO"
}

// NotifyService handles desktop notifications
type NotifyService struct {
	log           *logger.Logger
	notifyCommand string

	lookPath func(string) (string, error)
	run      func(*exec.Cmd) error
}

// NewNotifyService creates a new notification service
func NewNotifyService(notifyCommand string, log *logger.Logger) *NotifyService {
	return &NotifyService{
		log:           log,
		notifyCommand: notifyCommand,
		lookPath:      exec.LookPath,
		run:           (*exec.Cmd).Run,
	}
}

// Show displays a notification of the specified type
func (n *NotifyService) Show(title, message string, nType NotificationType) error {
	// First try configured notification command if available
	if n.notifyCommand != "" {
		if err := n.executeNotifyCommand(title, message, nType); err == nil {
			return nil
		}
		n.log.Warn("Custom notification command failed", "command", n.notifyCommand)
	}

	if err := n.trySystemNotification(title, message, nType); err == nil {
		return nil
	}

	if isRunningInTerminal() {
		return n.printToTerminal(title, message, nType)
	}

	// Last resort: log file
	return n.writeToLogFile(title, message, nType)
}

// executeNotifyCommand runs the user's command as `cmd TYPE TITLE MESSAGE`.
func (n *NotifyService) executeNotifyCommand(title, message string, nType NotificationType) error {
	n.log.Debug("Executing notify command", "notifyCommand", n.notifyCommand, "nType", nType.String())

	cmd := exec.Command("sh", "-c", n.notifyCommand+` "$@"`, "sh", nType.String(), title, message)
	return n.run(cmd)
}
