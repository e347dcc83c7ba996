package ipc

import "hypr-windowlist/internal/windowlist"

// Commands understood by the daemon.
const (
	CmdState    = "state"
	CmdActivate = "activate"
	CmdMinimize = "minimize"
	CmdClose    = "close"
	CmdToggle   = "toggle"
	// CmdExpand and CmdConsolidate switch one group between window
	// buttons and the app button.
	CmdExpand      = "expand"
	CmdConsolidate = "consolidate"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Request struct {
	Command string `json:"command"`
	// Window is the window address for activate, minimize and close.
	Window string `json:"window,omitempty"`
	// App is the application id for toggle, expand and consolidate.
	App string `json:"app,omitempty"`
}

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	State   *windowlist.State `json:"state,omitempty"`
}

func errorResponse(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}
