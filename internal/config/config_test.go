package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/danmu/internal/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenDefaultFileMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, path, exists, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Errorf("expected no config file at %s", path)
	}
	if !strings.HasSuffix(path, filepath.Join("danmu", "config.toml")) {
		t.Errorf("unexpected default path %s", path)
	}

	got, err := cfg.LayoutConfig()
	if err != nil {
		t.Fatalf("LayoutConfig: %v", err)
	}
	if got != layout.DefaultConfig() {
		t.Errorf("expected default layout, got %+v", got)
	}
	if !cfg.History.Enabled || filepath.Base(cfg.History.Path) != "history.db" {
		t.Errorf("unexpected history section %+v", cfg.History)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	historyPath := filepath.Join(t.TempDir(), "h.db")
	path := writeConfig(t, `
[layout]
width = 1280
height = 720
font_size = 30
opacity = 0.5
avoid_collisions = true
coverage = "Half"

[bilibili]
api_base_url = "http://localhost:8080/"
timeout_seconds = 5

[history]
enabled = false
path = "`+filepath.ToSlash(historyPath)+`"
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Errorf("expected %s to be read, got %s (exists=%v)", path, resolved, exists)
	}

	got, err := cfg.LayoutConfig()
	if err != nil {
		t.Fatalf("LayoutConfig: %v", err)
	}
	if got.CanvasWidth != 1280 || got.CanvasHeight != 720 || got.FontSize != 30 {
		t.Errorf("unexpected canvas/font %+v", got)
	}
	if got.FontName != "Arial" || got.ScrollDuration != 5 {
		t.Errorf("unset fields should keep defaults, got %+v", got)
	}
	if got.Coverage != layout.CoverageHalf || !got.CollisionAvoidance || got.Opacity != 0.5 {
		t.Errorf("unexpected layout %+v", got)
	}
	if cfg.Bilibili.APIBaseURL != "http://localhost:8080" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.Bilibili.APIBaseURL)
	}
	if len(cfg.ClientOptions()) != 4 {
		t.Errorf("expected timeout option to be included")
	}
	if cfg.History.Enabled || cfg.History.Path != historyPath {
		t.Errorf("unexpected history %+v", cfg.History)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadRejectsInvalidLayout(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero width", content: "[layout]\nwidth = 0\n"},
		{name: "opacity", content: "[layout]\nopacity = 1.5\n"},
		{name: "coverage", content: "[layout]\ncoverage = \"third\"\n"},
		{name: "duration", content: "[layout]\nstatic_duration = 0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, layout.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeysAndBadSyntax(t *testing.T) {
	if _, _, _, err := Load(writeConfig(t, "[layout]\nfont_colour = 3\n")); err == nil {
		t.Error("expected unknown key to be rejected")
	}
	if _, _, _, err := Load(writeConfig(t, "[layout\n")); err == nil {
		t.Error("expected syntax error")
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Error("expected sample file to be read")
	}
	got, err := cfg.LayoutConfig()
	if err != nil {
		t.Fatalf("LayoutConfig: %v", err)
	}
	if got != layout.DefaultConfig() {
		t.Errorf("sample should match defaults, got %+v", got)
	}
}
