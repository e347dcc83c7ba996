package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"hypr-windowlist/pkg/core"
)

// SendCommand sends req to the daemon listening on path. A response with
// an error status is returned together with an error carrying its message.
func SendCommand(ctx context.Context, path string, req Request, log core.Logger) (Response, error) {
	log.Debug("Attempting to connect to socket server", "path", path)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		log.Error("Failed to connect to socket server", err)
		return Response{}, fmt.Errorf("is the daemon running? %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(requestTimeout))
	}

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(req); err != nil {
		log.Error("Failed to encode request", err)
		return Response{}, err
	}

	log.Debug("Request sent successfully", "command", req.Command)

	var resp Response
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&resp); err != nil {
		log.Error("Failed to decode response", err)
		return Response{}, err
	}

	log.Debug("Response received", "status", resp.Status, "message", resp.Message)
	if resp.Status != StatusSuccess {
		return resp, errors.New(resp.Message)
	}
	return resp, nil
}
