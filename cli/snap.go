package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/soocke/arcap-go/app"
	"github.com/soocke/arcap-go/domain/capture"
	"github.com/soocke/arcap-go/platform/camera"
	"github.com/soocke/arcap-go/platform/scene"
)

func NewSnapCmd(deps *Dependencies) *cobra.Command {
	var (
		background string
		overlay    string
		output     string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Take one photo through the capture pipeline and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Config
			if output != "" {
				cfg.OutputDir = output
			}
			if overlay != "" {
				cfg.OverlayPath = overlay
			}
			_ = cfg.Validate()

			var cam capture.Camera
			if background != "" {
				still, err := camera.LoadStill(background)
				if err != nil {
					return err
				}
				cam = still
			} else {
				screen := camera.NewScreen(deps.Logger, nil, cfg.Selection(), 0)
				screen.Start()
				defer screen.Stop()
				if err := waitActive(cmd.Context(), screen, 2*time.Second); err != nil {
					return err
				}
				cam = screen
			}

			var sc capture.Scene
			if cfg.OverlayPath != "" {
				o, err := scene.LoadOverlay(cfg.OverlayPath)
				if err != nil {
					return err
				}
				sc = o
			}

			p, err := app.NewPipeline(cfg, deps.Logger, app.Sources{
				Camera: func() capture.Camera { return cam },
				Scene:  sc,
			})
			if err != nil {
				return err
			}
			defer p.Close()
			saved := make(chan string, 1)
			p.Saver.OnSaved = func(path string) {
				select {
				case saved <- path:
				default:
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			a, err := p.Snap(ctx)
			if err != nil {
				return err
			}
			where := a.Filename
			select {
			case where = <-saved:
			default:
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", where, humanize.Bytes(uint64(a.Size())))
			return nil
		},
	}
	cmd.Flags().StringVarP(&background, "background", "b", "", "image file used as the camera frame instead of the screen")
	cmd.Flags().StringVar(&overlay, "overlay", "", "PNG overlay; defaults to the reticle")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for the saved photo")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}

func waitActive(ctx context.Context, cam capture.Camera, limit time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deadline := time.Now().Add(limit)
	for !cam.Active() {
		if time.Now().After(deadline) {
			return errors.New("screen capture produced no frame")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
	return nil
}
