package bilibili

import (
	"errors"
	"testing"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		input string
		want  VideoID
	}{
		{"BV1xx411c7mD", VideoID{KindBV, "BV1xx411c7mD"}},
		{"https://www.bilibili.com/video/BV1xx411c7mD", VideoID{KindBV, "BV1xx411c7mD"}},
		{"https://www.bilibili.com/video/BV1xx411c7mD/?spm_id_from=333.1007", VideoID{KindBV, "BV1xx411c7mD"}},
		{"bv1xx411c7md", VideoID{KindBV, "bv1xx411c7md"}},
		{"  BV1xx411c7mD  ", VideoID{KindBV, "BV1xx411c7mD"}},
		{"av170001", VideoID{KindAV, "170001"}},
		{"AV170001", VideoID{KindAV, "170001"}},
		{"https://www.bilibili.com/video/av170001", VideoID{KindAV, "170001"}},
		{"https://www.bilibili.com/bangumi/play/ep123456", VideoID{KindEP, "123456"}},
		{"https://www.bilibili.com/bangumi/play/ep123456?from=search", VideoID{KindEP, "123456"}},
		{"ep98765", VideoID{KindEP, "98765"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVideoID(tt.input)
			if err != nil {
				t.Fatalf("ParseVideoID(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVideoID(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseVideoIDInvalid(t *testing.T) {
	for _, input := range []string{"invalid input", "", "https://example.com/watch"} {
		_, err := ParseVideoID(input)
		if !errors.Is(err, ErrUnrecognizedID) {
			t.Errorf("ParseVideoID(%q) error = %v, want ErrUnrecognizedID", input, err)
		}
	}
}

func TestVideoIDString(t *testing.T) {
	tests := map[VideoID]string{
		{KindBV, "BV1xx411c7mD"}: "BV1xx411c7mD",
		{KindAV, "170001"}:       "av170001",
		{KindEP, "42"}:           "ep42",
	}
	for id, want := range tests {
		if got := id.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", id, got, want)
		}
	}
}
