package danmaku

// per category counts of a comment batch
type Stats struct {
	Total  int `json:"total" yaml:"total"`
	Scroll int `json:"scroll" yaml:"scroll"`
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

func ComputeStats(events []Event) Stats {
	var s Stats
	for _, ev := range events {
		switch ev.Category {
		case CategoryScroll:
			s.Scroll++
		case CategoryTop:
			s.Top++
		case CategoryBottom:
			s.Bottom++
		default:
			continue
		}
		s.Total++
	}
	return s
}

// Count returns the number of events in the given category.
func (s Stats) Count(c Category) int {
	switch c {
	case CategoryScroll:
		return s.Scroll
	case CategoryTop:
		return s.Top
	case CategoryBottom:
		return s.Bottom
	default:
		return 0
	}
}
