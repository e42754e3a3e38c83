package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/soocke/arcap-go/platform/ffmpeg"
	"github.com/soocke/arcap-go/platform/opener"
)

func check(w io.Writer, name string, ok bool, detail string) {
	mark := "✓"
	if !ok {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s: %s\n", mark, name, detail)
}

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			cfg := deps.Config
			ok := true

			if path, err := ffmpeg.New(cfg.FFmpegBin, cfg.VideoMIME, nil).Check(); err != nil {
				check(w, "ffmpeg", false, "not found, video recording is unavailable")
				ok = false
			} else {
				check(w, "ffmpeg", true, path)
			}

			if cfg.Opener == string(opener.KindBrowser) {
				bin := cfg.BrowserBin
				found := false
				if bin != "" {
					_, err := exec.LookPath(bin)
					found = err == nil
				} else {
					bin, found = opener.LookPath()
				}
				if found {
					check(w, "Browser", true, bin)
				} else {
					check(w, "Browser", false, "no Chromium found for the browser opener")
					ok = false
				}
			} else {
				check(w, "Opener", true, "system URL handler")
			}

			if len(cfg.ShareCommand) > 0 {
				if _, err := exec.LookPath(cfg.ShareCommand[0]); err != nil {
					check(w, "Share command", false, cfg.ShareCommand[0]+" not found")
					ok = false
				} else {
					check(w, "Share command", true, cfg.ShareCommand[0])
				}
			} else {
				check(w, "Share command", true, "not configured, captures are saved instead")
			}

			dir := cfg.OutputDir
			if dir == "" {
				check(w, "Output", true, "XDG pictures/videos directories")
			} else if err := os.MkdirAll(dir, 0o755); err != nil {
				check(w, "Output", false, err.Error())
				ok = false
			} else {
				check(w, "Output", true, dir)
			}
			check(w, "Config", true, deps.ConfigPath)

			if ok {
				fmt.Fprintln(w, "\nAll prerequisites met.")
			} else {
				fmt.Fprintln(w, "\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
