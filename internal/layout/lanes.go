package layout

import "github.com/mgpai22/danmu/internal/danmaku"

// laneTracker records, per lane index, the time the lane becomes free.
// It lives for a single AssignLanes call and a single category.
type laneTracker struct {
	occupiedUntil []float64
}

// claim picks the lowest free lane at start, or opens a new one, and marks
// it busy until end.
func (t *laneTracker) claim(start, end float64) int {
	for lane, until := range t.occupiedUntil {
		if until <= start {
			t.occupiedUntil[lane] = end
			return lane
		}
	}
	t.occupiedUntil = append(t.occupiedUntil, end)
	return len(t.occupiedUntil) - 1
}

// AssignLanes returns the lane of every event. Events must already be in
// ascending start order. Without collision avoidance every lane is 0.
func AssignLanes(events []danmaku.Event, cfg Config) []int {
	lanes := make([]int, len(events))
	if !cfg.CollisionAvoidance {
		return lanes
	}

	trackers := map[danmaku.Category]*laneTracker{
		danmaku.CategoryScroll: {},
		danmaku.CategoryBottom: {},
		danmaku.CategoryTop:    {},
	}

	for i, ev := range events {
		tracker, ok := trackers[ev.Category]
		if !ok {
			continue
		}
		end := ev.StartTime + ev.Lifetime(cfg.ScrollDuration, cfg.StaticDuration)
		lanes[i] = tracker.claim(ev.StartTime, end)
	}

	return lanes
}
