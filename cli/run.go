package cli

import (
	"github.com/spf13/cobra"

	"github.com/soocke/arcap-go/app"
)

func NewRunCmd(deps *Dependencies) *cobra.Command {
	var (
		fps    int
		opener string
		output string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the capture window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config
			if cmd.Flags().Changed("fps") {
				cfg.FPS = fps
			}
			if opener != "" {
				cfg.Opener = opener
			}
			if output != "" {
				cfg.OutputDir = output
			}
			_ = cfg.Validate()
			return app.NewApp("AR Capture", 520, 420, cfg, deps.Logger).Start()
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "recording frame rate")
	cmd.Flags().StringVar(&opener, "opener", "", "viewer opener: system or browser")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for saved captures")
	return cmd
}
