package danmaku

import (
	"strconv"
	"strings"
)

const minFields = 8

// maps the wire mode code to a category
func categoryFromCode(code int) (Category, bool) {
	switch code {
	case 1, 2, 3:
		return CategoryScroll, true
	case 4:
		return CategoryBottom, true
	case 5:
		return CategoryTop, true
	default:
		return 0, false
	}
}

// ParseRecord validates a raw record. The second return value is false
// when the record is malformed and must be dropped.
func ParseRecord(r RawRecord) (Event, bool) {
	fields := strings.Split(r.Attrs, ",")
	if len(fields) < minFields {
		return Event{}, false
	}
	num := func(i int) string { return strings.TrimSpace(fields[i]) }

	start, err := strconv.ParseFloat(num(0), 64)
	if err != nil || !ValidStartTime(start) {
		return Event{}, false
	}

	code, err := strconv.Atoi(num(1))
	if err != nil {
		return Event{}, false
	}
	category, ok := categoryFromCode(code)
	if !ok {
		return Event{}, false
	}

	fontSize, err := strconv.Atoi(num(2))
	if err != nil || fontSize <= 0 {
		return Event{}, false
	}

	color, err := strconv.ParseUint(num(3), 10, 32)
	if err != nil || color > 0xFFFFFF {
		return Event{}, false
	}

	timestamp, err := strconv.ParseInt(num(4), 10, 64)
	if err != nil {
		return Event{}, false
	}

	// pool is informational only
	pool, _ := strconv.Atoi(num(5))

	return Event{
		StartTime: start,
		Category:  category,
		FontSize:  fontSize,
		Color:     uint32(color),
		Timestamp: timestamp,
		Pool:      pool,
		AuthorID:  fields[6],
		RecordID:  fields[7],
		Text:      r.Body,
	}, true
}

// Parse returns the valid events in appearance order. Malformed records
// are skipped.
func Parse(records []RawRecord) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		if ev, ok := ParseRecord(r); ok {
			events = append(events, ev)
		}
	}
	return events
}
