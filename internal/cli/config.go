package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config holds defaults for command flags. Flags given on the command line
// always win.
type Config struct {
	Curve    string   `yaml:"curve,omitempty"`
	Depth    *int     `yaml:"depth,omitempty"`
	ElemSize int      `yaml:"elem_size,omitempty"`
	Curves   string   `yaml:"curves,omitempty"`
	Write    []string `yaml:"write,omitempty"`
	DB       string   `yaml:"db,omitempty"`
	Window   Window   `yaml:"window,omitempty"`
}

// Window is the virtual window lookups by screen position are made in.
type Window struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// LoadConfig reads a YAML config file. An empty path yields an empty config.
// Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.ElemSize < 0 {
		return nil, fmt.Errorf("config %s: elem_size must be positive", path)
	}
	if cfg.Depth != nil && *cfg.Depth < 0 {
		return nil, fmt.Errorf("config %s: depth must be non-negative", path)
	}
	if cfg.Window.Width < 0 || cfg.Window.Height < 0 {
		return nil, fmt.Errorf("config %s: window size must be non-negative", path)
	}
	return cfg, nil
}

// settings resolves a command's curve flags against the config.
type settings struct {
	cmd *cobra.Command
	cfg *Config
}

func (s settings) curve(flag string) string {
	if !s.cmd.Flags().Changed("curve") && s.cfg.Curve != "" {
		return s.cfg.Curve
	}
	return flag
}

// depth returns nil unless --depth was given or the config sets one.
func (s settings) depth(flag int) *int {
	if s.cmd.Flags().Changed("depth") {
		return &flag
	}
	return s.cfg.Depth
}

func (s settings) elemSize(flag int) int {
	if !s.cmd.Flags().Changed("elem-size") && s.cfg.ElemSize > 0 {
		return s.cfg.ElemSize
	}
	return flag
}

func (s settings) db(flag string) string {
	if !s.cmd.Flags().Changed("db") && s.cfg.DB != "" {
		return s.cfg.DB
	}
	return flag
}

func (s settings) write(flag []string) []string {
	if !s.cmd.Flags().Changed("write") && len(s.cfg.Write) > 0 {
		return s.cfg.Write
	}
	return flag
}

func (s settings) window(flagW, flagH int) (int, int) {
	w, h := flagW, flagH
	if !s.cmd.Flags().Changed("window-width") && s.cfg.Window.Width > 0 {
		w = s.cfg.Window.Width
	}
	if !s.cmd.Flags().Changed("window-height") && s.cfg.Window.Height > 0 {
		h = s.cfg.Window.Height
	}
	return w, h
}
