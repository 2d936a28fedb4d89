package layout

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/mgpai22/danmu/internal/danmaku"
)

// ASS numpad alignments used for static comments
const (
	alignBottomCenter = 2
	alignTopCenter    = 8
)

// Placement is the on-screen position, and motion for scrolling comments,
// of one event.
type Placement struct {
	Category danmaku.Category
	Lane     int
	X, Y     float64
	// end point of the \move for scrolling comments
	EndX, EndY float64
}

// Place converts a lane into canvas coordinates. Lanes past the coverage
// budget are clamped and overlap the last visible row.
func (c Config) Place(ev danmaku.Event, lane int) Placement {
	row := c.RowHeight()
	avail := c.AvailableHeight()
	fs := c.FontSize
	center := float64(c.CanvasWidth) / 2

	p := Placement{Category: ev.Category, Lane: lane}

	switch ev.Category {
	case danmaku.CategoryTop:
		y := min((lane+1)*row, avail)
		p.X, p.Y = center, float64(y)
	case danmaku.CategoryBottom:
		y := c.CanvasHeight - min((lane+1)*row, c.CanvasHeight-avail)
		p.X, p.Y = center, float64(y)
	default:
		y := float64(min(lane*row+fs, avail-fs))
		width := utf8.RuneCountInString(ev.Text) * fs
		p.X, p.Y = float64(c.CanvasWidth), y
		p.EndX, p.EndY = -float64(width), y
	}

	return p
}

// Directive renders the ASS override block positioning the event.
func (p Placement) Directive() string {
	switch p.Category {
	case danmaku.CategoryTop:
		return fmt.Sprintf("{\\an%d\\pos(%s,%s)}", alignTopCenter, num(p.X), num(p.Y))
	case danmaku.CategoryBottom:
		return fmt.Sprintf("{\\an%d\\pos(%s,%s)}", alignBottomCenter, num(p.X), num(p.Y))
	default:
		return fmt.Sprintf("{\\move(%s,%s,%s,%s)}", num(p.X), num(p.Y), num(p.EndX), num(p.EndY))
	}
}

// shortest decimal form, "960" rather than "960.0"
func num(v float64) string {
	if v == 0 {
		v = math.Abs(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
