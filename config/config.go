package config

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appDir = "arcap"

// Config holds runtime configuration for capture, persistence and the UI.
// Fields may be loaded from a JSON or YAML file and overridden by
// command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`

	// Gesture and banner timing
	PressThresholdMs int `json:"press_threshold_ms" yaml:"press_threshold_ms"`
	NotificationMs   int `json:"notification_ms" yaml:"notification_ms"`

	// Recording
	FPS            int    `json:"fps" yaml:"fps"`
	FallbackWidth  int    `json:"fallback_width" yaml:"fallback_width"`
	FallbackHeight int    `json:"fallback_height" yaml:"fallback_height"`
	FFmpegBin      string `json:"ffmpeg_bin" yaml:"ffmpeg_bin"`
	VideoMIME      string `json:"video_mime" yaml:"video_mime"`
	Scaler         string `json:"scaler" yaml:"scaler"`

	// Scene
	OverlayPath string `json:"overlay_path" yaml:"overlay_path"`

	// Persistence
	OutputDir         string   `json:"output_dir" yaml:"output_dir"`
	ViewerAddr        string   `json:"viewer_addr" yaml:"viewer_addr"`
	TransientCapacity int      `json:"transient_capacity" yaml:"transient_capacity"`
	Opener            string   `json:"opener" yaml:"opener"`
	BrowserBin        string   `json:"browser_bin" yaml:"browser_bin"`
	ShareCommand      []string `json:"share_command" yaml:"share_command"`
	ShareTypes        []string `json:"share_types" yaml:"share_types"`

	// Platform identity used for capability detection; empty means the
	// desktop defaults.
	UserAgent      string `json:"user_agent" yaml:"user_agent"`
	Platform       string `json:"platform" yaml:"platform"`
	MaxTouchPoints int    `json:"max_touch_points" yaml:"max_touch_points"`

	// Capture region; zero size means full screen
	SelectionX int `json:"selection_x" yaml:"selection_x"`
	SelectionY int `json:"selection_y" yaml:"selection_y"`
	SelectionW int `json:"selection_w" yaml:"selection_w"`
	SelectionH int `json:"selection_h" yaml:"selection_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		PressThresholdMs:  500,
		NotificationMs:    3000,
		FPS:               30,
		FallbackWidth:     1280,
		FallbackHeight:    720,
		FFmpegBin:         "ffmpeg",
		VideoMIME:         "video/webm;codecs=vp9",
		Scaler:            "bilinear",
		ViewerAddr:        "127.0.0.1:0",
		TransientCapacity: 16,
		Opener:            "system",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.PressThresholdMs <= 0 {
		c.PressThresholdMs = 500
	}
	if c.NotificationMs <= 0 {
		c.NotificationMs = 3000
	}
	if c.FPS <= 0 || c.FPS > 120 {
		c.FPS = 30
	}
	if c.FallbackWidth <= 0 || c.FallbackHeight <= 0 {
		c.FallbackWidth, c.FallbackHeight = 1280, 720
	}
	if c.FFmpegBin == "" {
		c.FFmpegBin = "ffmpeg"
	}
	if c.VideoMIME == "" {
		c.VideoMIME = "video/webm;codecs=vp9"
	}
	switch strings.ToLower(c.Scaler) {
	case "nearest", "bilinear", "catmullrom":
		c.Scaler = strings.ToLower(c.Scaler)
	default:
		c.Scaler = "bilinear"
	}
	if c.ViewerAddr == "" {
		c.ViewerAddr = "127.0.0.1:0"
	}
	if c.TransientCapacity <= 0 {
		c.TransientCapacity = 16
	}
	// a viewer page needs its own reference plus the video's
	c.TransientCapacity = max(c.TransientCapacity, 2)
	switch strings.ToLower(c.Opener) {
	case "system", "browser":
		c.Opener = strings.ToLower(c.Opener)
	default:
		c.Opener = "system"
	}
	if c.MaxTouchPoints < 0 {
		c.MaxTouchPoints = 0
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return nil
}

// Selection returns the capture region, or an empty rectangle for the full
// screen.
func (c *Config) Selection() image.Rectangle {
	if c.SelectionW <= 0 || c.SelectionH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.SelectionX, c.SelectionY, c.SelectionX+c.SelectionW, c.SelectionY+c.SelectionH)
}

// DefaultPath returns an existing config file in the XDG config dirs, or
// the path a new JSON config would be written to.
func DefaultPath() string {
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		if p, err := xdg.SearchConfigFile(filepath.Join(appDir, name)); err == nil {
			return p
		}
	}
	return filepath.Join(xdg.ConfigHome, appDir, "config.json")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load attempts to read configuration from the given file path. YAML is
// used for .yaml/.yml files, JSON otherwise. If the file does not exist it
// returns DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
