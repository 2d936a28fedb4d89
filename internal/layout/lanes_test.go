package layout

import (
	"testing"

	"github.com/mgpai22/danmu/internal/danmaku"
)

func scroll(start float64) danmaku.Event {
	return danmaku.Event{StartTime: start, Category: danmaku.CategoryScroll, Text: "x"}
}

func top(start float64) danmaku.Event {
	return danmaku.Event{StartTime: start, Category: danmaku.CategoryTop, Text: "x"}
}

func bottom(start float64) danmaku.Event {
	return danmaku.Event{StartTime: start, Category: danmaku.CategoryBottom, Text: "x"}
}

func TestAssignLanesWithoutAvoidance(t *testing.T) {
	cfg := DefaultConfig()
	events := []danmaku.Event{scroll(0), scroll(0), scroll(0.1), top(0), top(0), bottom(1)}

	for i, lane := range AssignLanes(events, cfg) {
		if lane != 0 {
			t.Errorf("event %d: lane %d, want 0", i, lane)
		}
	}
}

func TestAssignLanesOverlapGetsDistinctLanes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true

	events := []danmaku.Event{scroll(0), scroll(1), scroll(2)}
	got := AssignLanes(events, cfg)
	want := []int{0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: lane %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAssignLanesReusesFreedLane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true

	// lane 0 frees at 5, exactly when the third event starts
	events := []danmaku.Event{scroll(0), scroll(1), scroll(5), scroll(6.5)}
	got := AssignLanes(events, cfg)
	want := []int{0, 1, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: lane %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAssignLanesPrefersLowestFreeLane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true

	// lane 0 is reused at 5.5, so lane 1 was released longer ago when both
	// are free at 12; the lower index still wins
	events := []danmaku.Event{scroll(0), scroll(1), scroll(5.5), scroll(12)}
	got := AssignLanes(events, cfg)
	want := []int{0, 1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: lane %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAssignLanesCategoriesAreIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true

	events := []danmaku.Event{scroll(0), top(0), bottom(0), scroll(0.5), top(0.5), bottom(0.5)}
	got := AssignLanes(events, cfg)
	want := []int{0, 0, 0, 1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d (%v): lane %d, want %d", i, events[i].Category, got[i], want[i])
		}
	}
}

func TestAssignLanesUsesCategoryLifetime(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true
	cfg.ScrollDuration = 8
	cfg.StaticDuration = 2

	events := []danmaku.Event{scroll(0), top(0), top(3), scroll(3)}
	got := AssignLanes(events, cfg)
	want := []int{0, 0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: lane %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAssignLanesNoOverlapWithinLane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true
	cfg.ScrollDuration = 3

	var events []danmaku.Event
	for i := 0; i < 200; i++ {
		events = append(events, scroll(float64(i)*0.37))
	}

	lanes := AssignLanes(events, cfg)
	busy := map[int]float64{}
	peak := 0
	for i, ev := range events {
		if until, ok := busy[lanes[i]]; ok && until > ev.StartTime {
			t.Fatalf("event %d overlaps in lane %d (busy until %v, starts %v)", i, lanes[i], until, ev.StartTime)
		}
		busy[lanes[i]] = ev.StartTime + cfg.ScrollDuration
		if lanes[i]+1 > peak {
			peak = lanes[i] + 1
		}
	}
	// at most ceil(3/0.37) events are on screen at once
	if peak > 9 {
		t.Errorf("expected at most 9 lanes, used %d", peak)
	}
}

func TestAssignLanesFreshStatePerCall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionAvoidance = true

	events := []danmaku.Event{scroll(0), scroll(0)}
	first := AssignLanes(events, cfg)
	second := AssignLanes(events, cfg)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("event %d: lanes differ between calls: %d vs %d", i, first[i], second[i])
		}
	}
}
