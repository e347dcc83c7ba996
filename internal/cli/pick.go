package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"hypr-windowlist/internal/display"
	"hypr-windowlist/internal/ipc"
)

func newPickCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a window of the current workspace with rofi",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := env.config.GetRofiThemePath()
			if err != nil {
				env.log.Warn("Using the default Rofi theme", "error", err.Error())
				theme = ""
			}
			picker, err := display.NewRofiPicker(theme, env.log)
			if err != nil {
				return err
			}

			resp, err := env.send(ipc.Request{Command: ipc.CmdState})
			if err != nil {
				return err
			}

			choice, err := picker.Pick(*resp.State)
			if errors.Is(err, display.ErrNoSelection) {
				return nil
			}
			if err != nil {
				return err
			}

			_, err = env.send(ipc.Request{Command: choice.Command, Window: choice.Window})
			return err
		},
	}
}
