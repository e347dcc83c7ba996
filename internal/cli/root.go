// Package cli implements the hypr-windowlist commands.
package cli

import (
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hypr-windowlist/pkg/config"
	"hypr-windowlist/pkg/logger"
)

const version = "0.1.0"

// runtimeEnv is filled in before any subcommand runs.
type runtimeEnv struct {
	configPath string
	debug      bool
	assets     fs.FS

	log    *logger.Logger
	config *config.Config
}

// Execute runs the CLI. assets holds the files copied into the config
// directory on first start.
func Execute(assets fs.FS) error {
	return newRootCmd(assets).Execute()
}

func newRootCmd(assets fs.FS) *cobra.Command {
	env := &runtimeEnv{assets: assets}

	rootCmd := &cobra.Command{
		Use:   "hypr-windowlist",
		Short: "Per-workspace window list for Hyprland",
		Long: `hypr-windowlist keeps a per-workspace list of application windows,
grouped by application, and lets bars and launchers drive it over a socket.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(cmd.Name() == "daemon")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.log != nil {
				env.log.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&env.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&env.debug, "debug", false, "enable debug logging")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(newBindCmd(env))
	rootCmd.AddCommand(newDaemonCmd(env))
	rootCmd.AddCommand(newPickCmd(env))
	rootCmd.AddCommand(newStateCmd(env))
	for _, c := range newAppCmds(env) {
		rootCmd.AddCommand(c)
	}
	for _, c := range newWindowCmds(env) {
		rootCmd.AddCommand(c)
	}
	return rootCmd
}

// setup builds the logger and loads the configuration. The daemon also
// logs to a file; one-shot commands stay quiet unless --debug is given.
func (e *runtimeEnv) setup(daemon bool) error {
	logLevel := zerolog.WarnLevel
	if daemon {
		logLevel = zerolog.InfoLevel
	}
	if e.debug {
		logLevel = zerolog.DebugLevel
	}

	opts := []logger.Option{logger.WithConsole(), logger.WithLevel(logLevel)}
	if daemon {
		if path, err := logger.DefaultLogPath(); err == nil {
			opts = append(opts, logger.WithFile(path))
		}
	}

	log, err := logger.NewLogger(opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	e.log = log

	log.Debug("Starting hypr-windowlist",
		"version", version,
		"pid", os.Getpid(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"debug", e.debug)

	cfg, err := config.FindConfig(e.configPath, log, e.assets)
	if err != nil {
		log.Error("Failed to load configuration", err, "provided_path", e.configPath)
		return err
	}
	e.config = cfg
	return nil
}
