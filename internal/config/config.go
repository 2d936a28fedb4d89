// Package config loads danmu settings from a TOML file.
//
// Sections:
//   - layout: canvas, font, timing and coverage defaults for conversions
//   - bilibili: endpoints, user agent and request timeout
//   - history: local export log
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/danmu/internal/bilibili"
	"github.com/mgpai22/danmu/internal/layout"
)

//go:embed sample_config.toml
var sampleConfig string

// Layout mirrors layout.Config in file form.
type Layout struct {
	Width           int     `toml:"width"`
	Height          int     `toml:"height"`
	FontName        string  `toml:"font_name"`
	FontSize        int     `toml:"font_size"`
	Opacity         float64 `toml:"opacity"`
	ScrollDuration  float64 `toml:"scroll_duration"`
	StaticDuration  float64 `toml:"static_duration"`
	AvoidCollisions bool    `toml:"avoid_collisions"`
	Coverage        string  `toml:"coverage"`
}

// Bilibili contains endpoint settings for the remote collaborators.
type Bilibili struct {
	APIBaseURL     string `toml:"api_base_url"`
	CommentBaseURL string `toml:"comment_base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// History controls the export log.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Config struct {
	Layout   Layout   `toml:"layout"`
	Bilibili Bilibili `toml:"bilibili"`
	History  History  `toml:"history"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := layout.DefaultConfig()
	return Config{
		Layout: Layout{
			Width:           l.CanvasWidth,
			Height:          l.CanvasHeight,
			FontName:        l.FontName,
			FontSize:        l.FontSize,
			Opacity:         l.Opacity,
			ScrollDuration:  l.ScrollDuration,
			StaticDuration:  l.StaticDuration,
			AvoidCollisions: l.CollisionAvoidance,
			Coverage:        string(l.Coverage),
		},
		Bilibili: Bilibili{
			APIBaseURL:     bilibili.DefaultAPIBaseURL,
			CommentBaseURL: bilibili.DefaultCommentBaseURL,
			UserAgent:      bilibili.DefaultUserAgent,
			TimeoutSeconds: 30,
		},
		History: History{
			Enabled: true,
			Path:    filepath.Join(dataDir(), "history.db"),
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// Load reads the file at path over the defaults. An empty path means the
// default location, which may be absent. An explicit path must exist.
// It returns the config, the resolved path and whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer func() { _ = file.Close() }()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if _, err := cfg.LayoutConfig(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		resolved := DefaultConfigPath()
		if info, err := os.Stat(resolved); err == nil && !info.IsDir() {
			return resolved, true, nil
		}
		return resolved, false, nil
	}

	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("config file not found: %s", expanded)
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return expanded, true, nil
}

func (c *Config) normalize() error {
	c.Layout.FontName = strings.TrimSpace(c.Layout.FontName)
	c.Layout.Coverage = strings.ToLower(strings.TrimSpace(c.Layout.Coverage))
	if c.Layout.Coverage == "" {
		c.Layout.Coverage = string(layout.CoverageFull)
	}

	c.Bilibili.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Bilibili.APIBaseURL), "/")
	c.Bilibili.CommentBaseURL = strings.TrimRight(strings.TrimSpace(c.Bilibili.CommentBaseURL), "/")
	c.Bilibili.UserAgent = strings.TrimSpace(c.Bilibili.UserAgent)
	if c.Bilibili.TimeoutSeconds < 0 {
		return fmt.Errorf("bilibili.timeout_seconds must not be negative")
	}

	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(dataDir(), "history.db")
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

// LayoutConfig converts the [layout] section and validates it.
func (c *Config) LayoutConfig() (layout.Config, error) {
	coverage, err := layout.ParseCoverage(c.Layout.Coverage)
	if err != nil {
		return layout.Config{}, err
	}
	cfg := layout.Config{
		CanvasWidth:        c.Layout.Width,
		CanvasHeight:       c.Layout.Height,
		FontName:           c.Layout.FontName,
		FontSize:           c.Layout.FontSize,
		Opacity:            c.Layout.Opacity,
		ScrollDuration:     c.Layout.ScrollDuration,
		StaticDuration:     c.Layout.StaticDuration,
		CollisionAvoidance: c.Layout.AvoidCollisions,
		Coverage:           coverage,
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

// ClientOptions turns the [bilibili] section into client options.
func (c *Config) ClientOptions() []bilibili.Option {
	opts := []bilibili.Option{
		bilibili.WithBaseURL(c.Bilibili.APIBaseURL),
		bilibili.WithCommentBaseURL(c.Bilibili.CommentBaseURL),
		bilibili.WithUserAgent(c.Bilibili.UserAgent),
	}
	if c.Bilibili.TimeoutSeconds > 0 {
		opts = append(opts, bilibili.WithTimeout(time.Duration(c.Bilibili.TimeoutSeconds)*time.Second))
	}
	return opts
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func configDir() string {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "danmu")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "danmu")
	}
	return filepath.Join(home, ".config", "danmu")
}

func dataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "danmu")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "share", "danmu")
	}
	return filepath.Join(home, ".local", "share", "danmu")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
