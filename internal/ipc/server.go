package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hypr-windowlist/internal/windowlist"
	"hypr-windowlist/pkg/core"
)

const requestTimeout = 5 * time.Second

// WindowList is the part of the window list the server drives.
type WindowList interface {
	Snapshot() windowlist.State
	Activate(id string) error
	Minimize(id string) error
	Close(id string) error
	ToggleGroup(appID string) error
	ExpandGroup(appID string) error
	ConsolidateGroup(appID string) error
}

// Executor runs fn on the goroutine that owns the window list and waits
// for it to finish.
type Executor func(ctx context.Context, fn func()) error

type Server struct {
	path string
	list WindowList
	exec Executor
	log  core.Logger
}

func NewServer(path string, list WindowList, exec Executor, log core.Logger) *Server {
	return &Server{path: path, list: list, exec: exec, log: log}
}

// Serve accepts connections until ctx is done. The socket file is removed
// on return.
func (s *Server) Serve(ctx context.Context) error {
	// Remove the socket file if it already exists
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Error("Failed to remove existing socket file", err)
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.log.Error("Failed to create socket directory", err)
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "unix", s.path)
	if err != nil {
		s.log.Error("Failed to start socket server", err)
		return fmt.Errorf("failed to start socket server: %w", err)
	}
	defer os.Remove(s.path)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.log.Info("Socket server started", "path", s.path)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.Error("Failed to accept connection", err)
			continue
		}

		s.log.Debug("New connection accepted")

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout))

	var req Request
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&req); err != nil {
		s.log.Error("Failed to decode request", err)
		return
	}

	s.log.Info("Received request", "command", req.Command, "window", req.Window, "app", req.App)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	resp := s.handle(ctx, req)

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(resp); err != nil {
		s.log.Error("Failed to encode response", err)
	} else {
		s.log.Debug("Response sent successfully", "status", resp.Status)
	}
}

func (s *Server) handle(ctx context.Context, req Request) Response {
	var run func() Response
	switch req.Command {
	case CmdState:
		run = func() Response {
			state := s.list.Snapshot()
			return Response{Status: StatusSuccess, Message: "Window list state", State: &state}
		}
	case CmdActivate:
		run = s.windowCommand(req, "Window activated", s.list.Activate)
	case CmdMinimize:
		run = s.windowCommand(req, "Window minimized", s.list.Minimize)
	case CmdClose:
		run = s.windowCommand(req, "Window closed", s.list.Close)
	case CmdToggle:
		run = s.appCommand(req, "Group toggled", s.list.ToggleGroup)
	case CmdExpand:
		run = s.appCommand(req, "Group expanded", s.list.ExpandGroup)
	case CmdConsolidate:
		run = s.appCommand(req, "Group consolidated", s.list.ConsolidateGroup)
	default:
		s.log.Error("Unknown command received", fmt.Errorf("command: %s", req.Command))
		return Response{Status: StatusError, Message: "Unknown command"}
	}

	// Buffered so a request that timed out does not block the loop later.
	out := make(chan Response, 1)
	if err := s.exec(ctx, func() { out <- run() }); err != nil {
		s.log.Error("Request not executed", err, "command", req.Command)
		return errorResponse(err)
	}
	return <-out
}

func (s *Server) appCommand(req Request, done string, fn func(string) error) func() Response {
	return func() Response {
		if req.App == "" {
			return errorResponse(fmt.Errorf("%s needs an app", req.Command))
		}
		if err := fn(req.App); err != nil {
			s.log.Error("Group command failed", err, "command", req.Command, "app", req.App)
			return errorResponse(err)
		}
		s.log.Info("Group command executed", "command", req.Command, "app", req.App)
		return Response{Status: StatusSuccess, Message: done}
	}
}

func (s *Server) windowCommand(req Request, done string, fn func(string) error) func() Response {
	return func() Response {
		if req.Window == "" {
			return errorResponse(fmt.Errorf("%s needs a window", req.Command))
		}
		if err := fn(req.Window); err != nil {
			s.log.Error("Window command failed", err, "command", req.Command, "window", req.Window)
			return errorResponse(err)
		}
		s.log.Info("Window command executed", "command", req.Command, "window", req.Window)
		return Response{Status: StatusSuccess, Message: done}
	}
}
