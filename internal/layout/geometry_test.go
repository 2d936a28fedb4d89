package layout

import (
	"testing"

	"github.com/mgpai22/danmu/internal/danmaku"
)

func TestPlaceScroll(t *testing.T) {
	cfg := DefaultConfig()
	ev := danmaku.Event{Category: danmaku.CategoryScroll, Text: "测试弹幕"}

	p := cfg.Place(ev, 0)
	if p.X != 1920 || p.Y != 25 || p.EndX != -100 || p.EndY != 25 {
		t.Errorf("lane 0: got %+v", p)
	}
	if got, want := p.Directive(), "{\\move(1920,25,-100,25)}"; got != want {
		t.Errorf("Directive() = %q, want %q", got, want)
	}

	p = cfg.Place(ev, 3)
	if p.Y != 3*29+25 {
		t.Errorf("lane 3: y = %v, want %d", p.Y, 3*29+25)
	}
}

func TestPlaceScrollWidthCountsRunes(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		text  string
		width float64
	}{
		{"abc", 75},
		{"草", 25},
		{"😀😀", 50},    // astral characters are one rune each
		{"e\u0301", 50}, // combining mark counts separately
	}

	for _, tt := range tests {
		p := cfg.Place(danmaku.Event{Category: danmaku.CategoryScroll, Text: tt.text}, 0)
		if p.EndX != -tt.width {
			t.Errorf("Place(%q).EndX = %v, want %v", tt.text, p.EndX, -tt.width)
		}
	}
}

func TestPlaceScrollClampsToCoverage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coverage = CoverageQuarter // 270px

	p := cfg.Place(danmaku.Event{Category: danmaku.CategoryScroll, Text: "a"}, 100)
	if p.Y != 245 {
		t.Errorf("clamped y = %v, want 245", p.Y)
	}
}

func TestPlaceTop(t *testing.T) {
	cfg := DefaultConfig()
	ev := danmaku.Event{Category: danmaku.CategoryTop, Text: "顶部弹幕"}

	p := cfg.Place(ev, 0)
	if got, want := p.Directive(), "{\\an8\\pos(960,29)}"; got != want {
		t.Errorf("Directive() = %q, want %q", got, want)
	}

	cfg.Coverage = CoverageHalf
	p = cfg.Place(ev, 1000)
	if p.Y != 540 {
		t.Errorf("clamped y = %v, want 540", p.Y)
	}
}

func TestPlaceBottom(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coverage = CoverageHalf
	ev := danmaku.Event{Category: danmaku.CategoryBottom, Text: "底部弹幕"}

	p := cfg.Place(ev, 0)
	if got, want := p.Directive(), "{\\an2\\pos(960,1051)}"; got != want {
		t.Errorf("Directive() = %q, want %q", got, want)
	}

	p = cfg.Place(ev, 1000)
	if p.Y != 540 {
		t.Errorf("clamped y = %v, want 540", p.Y)
	}
}

func TestPlaceBottomFullCoverageClampsAtTop(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Place(danmaku.Event{Category: danmaku.CategoryBottom}, 10000)
	if p.Y != 1080 {
		t.Errorf("y = %v, want 1080", p.Y)
	}
}

func TestPlaceOddWidthCentres(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CanvasWidth = 1279
	p := cfg.Place(danmaku.Event{Category: danmaku.CategoryTop}, 0)
	if got, want := p.Directive(), "{\\an8\\pos(639.5,29)}"; got != want {
		t.Errorf("Directive() = %q, want %q", got, want)
	}
}

func TestPlaceEmptyScrollText(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Place(danmaku.Event{Category: danmaku.CategoryScroll}, 0)
	if got, want := p.Directive(), "{\\move(1920,25,0,25)}"; got != want {
		t.Errorf("Directive() = %q, want %q", got, want)
	}
}
