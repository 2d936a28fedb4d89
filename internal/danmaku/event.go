package danmaku

import "math"

// display behaviour of a comment
type Category int

const (
	CategoryScroll Category = iota
	CategoryBottom
	CategoryTop
)

func (c Category) String() string {
	switch c {
	case CategoryScroll:
		return "scroll"
	case CategoryBottom:
		return "bottom"
	case CategoryTop:
		return "top"
	default:
		return "unknown"
	}
}

// Static reports whether the category is drawn at a fixed position.
func (c Category) Static() bool {
	return c == CategoryBottom || c == CategoryTop
}

// MaxStartTime is the latest accepted start, in seconds. It leaves room
// for any lifetime within time.Duration's range.
const MaxStartTime = 1e9

// ValidStartTime reports whether t is a finite start in [0, MaxStartTime].
func ValidStartTime(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= MaxStartTime
}

// single overlay comment
type Event struct {
	StartTime float64 // seconds from video start
	Category  Category
	FontSize  int    // size requested by the author
	Color     uint32 // packed 0xRRGGBB
	Timestamp int64  // unix send time
	Pool      int
	AuthorID  string
	RecordID  string
	Text      string
}

// Lifetime returns how long the event stays on screen.
func (e Event) Lifetime(scrollDuration, staticDuration float64) float64 {
	if e.Category.Static() {
		return staticDuration
	}
	return scrollDuration
}

// unparsed comment as delivered by the comment source
type RawRecord struct {
	Attrs string // comma separated structured fields
	Body  string
}
