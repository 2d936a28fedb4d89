package bilibili

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnrecognizedID is returned when no known identifier shape is found.
var ErrUnrecognizedID = errors.New("unrecognized bilibili video id")

// Kind of video identifier
type Kind string

const (
	KindBV Kind = "bv"
	KindAV Kind = "av"
	KindEP Kind = "ep"
)

// VideoID is an identifier extracted from user input.
type VideoID struct {
	Kind  Kind
	Value string
}

func (v VideoID) String() string {
	switch v.Kind {
	case KindAV:
		return "av" + v.Value
	case KindEP:
		return "ep" + v.Value
	default:
		return v.Value
	}
}

var (
	bvPattern = regexp.MustCompile(`(?i)BV[a-zA-Z0-9]+`)
	avPattern = regexp.MustCompile(`(?i)av(\d+)`)
	epPattern = regexp.MustCompile(`(?i)/bangumi/play/ep(\d+)|\bep(\d+)`)
)

// ParseVideoID finds a BV code, legacy av number, or bangumi episode id
// anywhere in the input, in that order of preference.
func ParseVideoID(input string) (VideoID, error) {
	trimmed := strings.TrimSpace(input)

	if m := bvPattern.FindString(trimmed); m != "" {
		return VideoID{Kind: KindBV, Value: m}, nil
	}
	if m := avPattern.FindStringSubmatch(trimmed); m != nil {
		return VideoID{Kind: KindAV, Value: m[1]}, nil
	}
	if m := epPattern.FindStringSubmatch(trimmed); m != nil {
		id := m[1]
		if id == "" {
			id = m[2]
		}
		return VideoID{Kind: KindEP, Value: id}, nil
	}

	return VideoID{}, fmt.Errorf("%w: %q", ErrUnrecognizedID, input)
}
