package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hypr-windowlist/internal/app"
)

func newDaemonCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the window list",
		Long:  `Track Hyprland windows and serve the window list on the IPC socket until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := app.NewDaemon(env.config, env.log)
			if err != nil {
				env.log.Error("Failed to create daemon", err)
				return err
			}
			return d.Run(ctx)
		},
	}
}
