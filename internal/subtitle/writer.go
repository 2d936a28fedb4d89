package subtitle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	scriptType  = "v4.00+"
	styleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	eventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
)

// String renders the document as ASS text.
func (d *Document) String() string {
	var sb strings.Builder

	title := d.Title
	if title == "" {
		title = DefaultTitle
	}

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", title))
	sb.WriteString(fmt.Sprintf("ScriptType: %s\n", scriptType))
	sb.WriteString(fmt.Sprintf("PlayResX: %d\n", d.Width))
	sb.WriteString(fmt.Sprintf("PlayResY: %d\n", d.Height))
	sb.WriteString("WrapStyle: 0\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString(styleFormat + "\n")
	sb.WriteString(d.Style.line() + "\n\n")

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString(eventFormat + "\n")

	for _, dl := range d.Dialogues {
		sb.WriteString(dl.line(d.Style.Name) + "\n")
	}

	return sb.String()
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// writes the document to an .ass file
func (d *Document) WriteFile(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(d.String()), 0644); err != nil {
		return fmt.Errorf("failed to write ASS file: %w", err)
	}
	return nil
}

func (s Style) line() string {
	name := s.Name
	if name == "" {
		name = "Default"
	}
	return fmt.Sprintf("Style: %s,%s,%d,%s,%s,%s,%s,0,0,0,0,100,100,0,0,1,%d,%d,%d,%d,%d,%d,1",
		name, s.FontName, s.FontSize,
		s.PrimaryColour, s.SecondaryColour, s.OutlineColour, s.BackColour,
		s.Outline, s.Shadow, s.Alignment, s.MarginL, s.MarginR, s.MarginV)
}

func (dl Dialogue) line(defaultStyle string) string {
	style := dl.Style
	if style == "" {
		style = defaultStyle
	}
	if style == "" {
		style = "Default"
	}
	return fmt.Sprintf("Dialogue: %d,%s,%s,%s,,0,0,0,,%s",
		dl.Layer,
		formatASSTime(dl.Start),
		formatASSTime(dl.End),
		style,
		dl.Text)
}

// H:MM:SS.CC, centiseconds truncated
func formatASSTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60
	centis := int(d%time.Second) / int(10*time.Millisecond)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
