package layout

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	if cfg.CanvasWidth != 1920 || cfg.CanvasHeight != 1080 || cfg.FontName != "Arial" ||
		cfg.FontSize != 25 || cfg.Opacity != 0.8 || cfg.ScrollDuration != 5 ||
		cfg.StaticDuration != 5 || cfg.CollisionAvoidance || cfg.Coverage != CoverageFull {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.CanvasWidth = 0 }},
		{"negative height", func(c *Config) { c.CanvasHeight = -1 }},
		{"empty font", func(c *Config) { c.FontName = "  " }},
		{"font with comma", func(c *Config) { c.FontName = "Arial,Bold" }},
		{"zero font size", func(c *Config) { c.FontSize = 0 }},
		{"opacity above one", func(c *Config) { c.Opacity = 1.2 }},
		{"negative opacity", func(c *Config) { c.Opacity = -0.1 }},
		{"NaN opacity", func(c *Config) { c.Opacity = math.NaN() }},
		{"negative scroll duration", func(c *Config) { c.ScrollDuration = -5 }},
		{"zero static duration", func(c *Config) { c.StaticDuration = 0 }},
		{"sub-centisecond duration", func(c *Config) { c.ScrollDuration = 0.001 }},
		{"infinite duration", func(c *Config) { c.StaticDuration = math.Inf(1) }},
		{"scroll duration over a day", func(c *Config) { c.ScrollDuration = 86400.5 }},
		{"huge static duration", func(c *Config) { c.StaticDuration = 1e12 }},
		{"unknown coverage", func(c *Config) { c.Coverage = "third" }},
		{"empty coverage", func(c *Config) { c.Coverage = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsBoundaryOpacity(t *testing.T) {
	for _, o := range []float64{0, 1} {
		cfg := DefaultConfig()
		cfg.Opacity = o
		if err := cfg.Validate(); err != nil {
			t.Errorf("opacity %v rejected: %v", o, err)
		}
	}
}

func TestParseCoverage(t *testing.T) {
	tests := []struct {
		in      string
		want    Coverage
		wantErr bool
	}{
		{"full", CoverageFull, false},
		{"Half", CoverageHalf, false},
		{" QUARTER ", CoverageQuarter, false},
		{"", "", true},
		{"most", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCoverage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCoverage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCoverage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAvailableHeight(t *testing.T) {
	tests := []struct {
		coverage Coverage
		height   int
		want     int
	}{
		{CoverageFull, 1080, 1080},
		{CoverageHalf, 1080, 540},
		{CoverageQuarter, 1080, 270},
		{CoverageHalf, 721, 360},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Coverage = tt.coverage
		cfg.CanvasHeight = tt.height
		if got := cfg.AvailableHeight(); got != tt.want {
			t.Errorf("%s of %d = %d, want %d", tt.coverage, tt.height, got, tt.want)
		}
	}
}
