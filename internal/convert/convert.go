// Package convert turns a batch of danmaku into an ASS subtitle document.
//
// A conversion is a single synchronous pass with no shared state: lane
// trackers are created per call, so concurrent conversions need no locking.
package convert

import (
	"sort"

	"github.com/mgpai22/danmu/internal/danmaku"
	"github.com/mgpai22/danmu/internal/layout"
	"github.com/mgpai22/danmu/internal/subtitle"
)

// Positioned is an event after lane assignment and placement.
type Positioned struct {
	Event     danmaku.Event
	Placement layout.Placement
}

// Result of one conversion
type Result struct {
	Document *subtitle.Document
	Stats    danmaku.Stats
	Events   []Positioned // in emission order
}

// Convert parses raw records, dropping malformed ones, and lays out the
// rest.
func Convert(records []danmaku.RawRecord, cfg layout.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return ConvertEvents(danmaku.Parse(records), cfg)
}

// ConvertEvents lays out events, skipping any whose start time is outside
// [0, danmaku.MaxStartTime]. The input slice is not modified.
func ConvertEvents(events []danmaku.Event, cfg layout.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]danmaku.Event, 0, len(events))
	for _, ev := range events {
		if danmaku.ValidStartTime(ev.StartTime) {
			sorted = append(sorted, ev)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	lanes := layout.AssignLanes(sorted, cfg)

	doc := &subtitle.Document{
		Title:     subtitle.DefaultTitle,
		Width:     cfg.CanvasWidth,
		Height:    cfg.CanvasHeight,
		Style:     subtitle.NewStyle(cfg.FontName, cfg.FontSize, layout.AlphaHex(cfg.Opacity)),
		Dialogues: make([]subtitle.Dialogue, 0, len(sorted)),
	}
	positioned := make([]Positioned, 0, len(sorted))

	for i, ev := range sorted {
		placement := cfg.Place(ev, lanes[i])
		start := subtitle.Seconds(ev.StartTime)
		lifetime := subtitle.Seconds(ev.Lifetime(cfg.ScrollDuration, cfg.StaticDuration))

		doc.Dialogues = append(doc.Dialogues, subtitle.Dialogue{
			Start: start,
			End:   start + lifetime,
			Text:  placement.Directive() + cfg.ColourOverride(ev.Color) + ev.Text,
		})
		positioned = append(positioned, Positioned{Event: ev, Placement: placement})
	}

	return &Result{
		Document: doc,
		Stats:    danmaku.ComputeStats(sorted),
		Events:   positioned,
	}, nil
}
