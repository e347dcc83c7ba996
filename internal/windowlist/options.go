package windowlist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvariantViolation marks a programming error inside the window
	// list. The operation is dropped and the model keeps running.
	ErrInvariantViolation = errors.New("window list invariant violated")
	// ErrHostNotification marks a malformed or unexpected host notification.
	ErrHostNotification = errors.New("unexpected host notification")
	// ErrUntrackedWindow is returned for commands on windows the list does
	// not show.
	ErrUntrackedWindow = errors.New("window is not tracked")
	// ErrUnknownGroup is returned for commands on applications without a group.
	ErrUnknownGroup = errors.New("no group for application")
)

// TitleMode selects the text shown next to an application button.
type TitleMode int

const (
	// TitleWindow shows the last focused window's title.
	TitleWindow TitleMode = iota
	// TitleApp shows the application name.
	TitleApp
	// TitleNone shows no text.
	TitleNone
)

func (m TitleMode) String() string {
	switch m {
	case TitleWindow:
		return "TITLE"
	case TitleApp:
		return "APP"
	case TitleNone:
		return "NONE"
	}
	return fmt.Sprintf("TitleMode(%d)", int(m))
}

// ParseTitleMode accepts TITLE, APP or NONE in any case.
func ParseTitleMode(s string) (TitleMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TITLE", "":
		return TitleWindow, nil
	case "APP":
		return TitleApp, nil
	case "NONE":
		return TitleNone, nil
	}
	return TitleWindow, fmt.Errorf("unknown display_title %q (want TITLE, APP or NONE)", s)
}

// Options are read once at startup.
type Options struct {
	// GroupByApp shows one button per application instead of one per window.
	GroupByApp   bool
	DisplayTitle TitleMode
}

func DefaultOptions() Options {
	return Options{GroupByApp: true, DisplayTitle: TitleWindow}
}
