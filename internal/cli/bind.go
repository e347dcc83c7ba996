package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hypr-windowlist/internal/wm"
)

func newBindCmd(env *runtimeEnv) *cobra.Command {
	var mods, key string

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind a key to the window picker in the running Hyprland session",
		Long: `Add a runtime keybinding that opens the window picker. The binding is
lost when Hyprland reloads its config; add the printed line to hyprland.conf
to keep it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			self, err := os.Executable()
			if err != nil {
				self = "hypr-windowlist"
			}
			value, err := wm.BindExec(mods, key, self+" pick")
			if err != nil {
				return err
			}

			ctl, err := wm.NewHyprctl(env.log)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
			defer cancel()
			if err := ctl.Keyword(ctx, "bind", value); err != nil {
				return err
			}

			env.log.Info("Keybinding added", "bind", value)
			fmt.Fprintf(cmd.OutOrStdout(), "bind = %s\n", value)
			return nil
		},
	}

	cmd.Flags().StringVar(&mods, "mods", "SUPER", "modifier keys")
	cmd.Flags().StringVar(&key, "key", "Tab", "key to bind")
	return cmd
}
