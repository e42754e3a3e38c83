// Package cli defines the arcap command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/soocke/arcap-go/config"
)

// Dependencies are resolved before any subcommand runs.
type Dependencies struct {
	NewLogger func(level slog.Leveler) *slog.Logger

	ConfigPath string
	Debug      bool
	Config     *config.Config
	Logger     *slog.Logger
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "arcap",
		Short:         "Capture photos and videos of an overlay composited on a live feed",
		Long:          "arcap composites an AR overlay onto a live screen feed. Tap the action button for a photo, hold it to record a video; captures are shared, opened in a viewer page or saved.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.load()
		},
	}

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(Full() + "\n")

	rootCmd.PersistentFlags().StringVarP(&deps.ConfigPath, "config", "c", "", "config file (JSON or YAML); defaults to the XDG config dir")
	rootCmd.PersistentFlags().BoolVar(&deps.Debug, "debug", false, "debug logging and runtime stats")

	rootCmd.AddCommand(NewRunCmd(deps))
	rootCmd.AddCommand(NewSnapCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func (d *Dependencies) load() error {
	path := d.ConfigPath
	if path == "" {
		path = config.DefaultPath()
		d.ConfigPath = path
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if d.Debug {
		cfg.Debug = true
	}
	d.Config = cfg

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	if d.NewLogger != nil {
		d.Logger = d.NewLogger(level)
	} else {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	d.Logger.Debug("config loaded", "path", path)
	return nil
}
