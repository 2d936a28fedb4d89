package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid layout config")

// share of the canvas height usable for stacking lanes
type Coverage string

const (
	CoverageFull    Coverage = "full"
	CoverageHalf    Coverage = "half"
	CoverageQuarter Coverage = "quarter"
)

// shortest lifetime that still yields distinct start/end timecodes
const minDuration = 0.01

// longest lifetime; with danmaku.MaxStartTime it keeps every end time
// representable as a time.Duration
const maxDuration = 86400

func ParseCoverage(s string) (Coverage, error) {
	switch c := Coverage(strings.ToLower(strings.TrimSpace(s))); c {
	case CoverageFull, CoverageHalf, CoverageQuarter:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unsupported coverage %q: use full, half, or quarter", ErrInvalidConfig, s)
	}
}

// divisor applied to the canvas height
func (c Coverage) divisor() int {
	switch c {
	case CoverageHalf:
		return 2
	case CoverageQuarter:
		return 4
	default:
		return 1
	}
}

// Config holds the parameters of one conversion.
type Config struct {
	CanvasWidth        int
	CanvasHeight       int
	FontName           string
	FontSize           int
	Opacity            float64 // 0 transparent, 1 opaque
	ScrollDuration     float64 // seconds
	StaticDuration     float64 // seconds
	CollisionAvoidance bool
	Coverage           Coverage
}

func DefaultConfig() Config {
	return Config{
		CanvasWidth:        1920,
		CanvasHeight:       1080,
		FontName:           "Arial",
		FontSize:           25,
		Opacity:            0.8,
		ScrollDuration:     5,
		StaticDuration:     5,
		CollisionAvoidance: false,
		Coverage:           CoverageFull,
	}
}

// Validate rejects configurations the engine cannot lay out.
func (c Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %dx%d", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	}
	if strings.TrimSpace(c.FontName) == "" {
		return fmt.Errorf("%w: font name is required", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.FontName, ",\r\n") {
		return fmt.Errorf("%w: font name %q must not contain commas or line breaks", ErrInvalidConfig, c.FontName)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %d", ErrInvalidConfig, c.FontSize)
	}
	if math.IsNaN(c.Opacity) || c.Opacity < 0 || c.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be within [0,1], got %v", ErrInvalidConfig, c.Opacity)
	}
	if err := checkDuration("scroll duration", c.ScrollDuration); err != nil {
		return err
	}
	if err := checkDuration("static duration", c.StaticDuration); err != nil {
		return err
	}
	if _, err := ParseCoverage(string(c.Coverage)); err != nil {
		return err
	}
	return nil
}

func checkDuration(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < minDuration {
		return fmt.Errorf("%w: %s must be at least %.2fs, got %v", ErrInvalidConfig, name, minDuration, v)
	}
	if v > maxDuration {
		return fmt.Errorf("%w: %s must be at most %ds, got %v", ErrInvalidConfig, name, maxDuration, v)
	}
	return nil
}

// RowHeight is the vertical pitch between lanes.
func (c Config) RowHeight() int {
	return c.FontSize + 4
}

// AvailableHeight is the part of the canvas lanes may occupy.
func (c Config) AvailableHeight() int {
	return c.CanvasHeight / c.Coverage.divisor()
}
