package subtitle

import (
	"math"
	"time"
)

const DefaultTitle = "Bilibili Danmaku"

// represents the single ASS style every dialogue refers to
type Style struct {
	Name            string
	FontName        string
	FontSize        int
	PrimaryColour   string
	SecondaryColour string
	OutlineColour   string
	BackColour      string
	Outline         int
	Shadow          int
	Alignment       int
	MarginL         int
	MarginR         int
	MarginV         int
}

// represents one positioned Dialogue line
type Dialogue struct {
	Layer int
	Start time.Duration
	End   time.Duration
	Style string
	Text  string // override tags followed by the literal comment
}

// represents complete ASS document
type Document struct {
	Title     string
	Width     int
	Height    int
	Style     Style
	Dialogues []Dialogue
}

// NewStyle returns the danmaku style: white text, black outline, all four
// colours sharing the same alpha byte.
func NewStyle(fontName string, fontSize int, alpha string) Style {
	return Style{
		Name:            "Default",
		FontName:        fontName,
		FontSize:        fontSize,
		PrimaryColour:   "&H" + alpha + "FFFFFF",
		SecondaryColour: "&H" + alpha + "FFFFFF",
		OutlineColour:   "&H" + alpha + "000000",
		BackColour:      "&H" + alpha + "000000",
		Outline:         2,
		Shadow:          0,
		Alignment:       2,
		MarginL:         20,
		MarginR:         20,
		MarginV:         20,
	}
}

// Seconds converts fractional seconds to a Duration, rounding to the
// nearest nanosecond so 1.13 does not become 1.129999999. Values outside
// the Duration range saturate.
func Seconds(s float64) time.Duration {
	ns := math.Round(s * float64(time.Second))
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ns)
}
