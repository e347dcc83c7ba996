package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"hypr-windowlist/internal/ipc"
)

const clientTimeout = 5 * time.Second

func (e *runtimeEnv) send(req ipc.Request) (ipc.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()
	return ipc.SendCommand(ctx, e.config.GetSocketPath(), req, e.log)
}

func newStateCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the displayed window list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := env.send(ipc.Request{Command: ipc.CmdState})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp.State)
		},
	}
}

// newWindowCmds builds activate, minimize and close, which all take a
// window address.
func newWindowCmds(env *runtimeEnv) []*cobra.Command {
	specs := []struct {
		command string
		short   string
	}{
		{ipc.CmdActivate, "Focus a window, restoring it if minimized"},
		{ipc.CmdClose, "Close a window"},
		{ipc.CmdMinimize, "Minimize a window"},
	}

	var cmds []*cobra.Command
	for _, s := range specs {
		cmds = append(cmds, &cobra.Command{
			Use:   s.command + " <address>",
			Short: s.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := env.send(ipc.Request{Command: s.command, Window: args[0]})
				return err
			},
		})
	}
	return cmds
}

// newAppCmds builds toggle, expand and consolidate, which act on the group
// of one application on the displayed list.
func newAppCmds(env *runtimeEnv) []*cobra.Command {
	specs := []struct {
		command string
		short   string
	}{
		{ipc.CmdToggle, "Click an application button: minimize it when focused, activate it otherwise"},
		{ipc.CmdExpand, "Show one button per window for an application"},
		{ipc.CmdConsolidate, "Show a single button for an application"},
	}

	var cmds []*cobra.Command
	for _, s := range specs {
		cmds = append(cmds, &cobra.Command{
			Use:   s.command + " <app>",
			Short: s.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := env.send(ipc.Request{Command: s.command, App: args[0]})
				return err
			},
		})
	}
	return cmds
}
