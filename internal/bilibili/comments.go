package bilibili

import (
	"fmt"
	"html"
	"io"
	"regexp"

	"github.com/mgpai22/danmu/internal/danmaku"
)

var commentPattern = regexp.MustCompile(`<d p="([^"]+)">([^<]*)</d>`)

// ParseCommentXML extracts every <d p="...">body</d> element. It is
// pattern based rather than a strict XML decode because comment dumps
// routinely contain control characters that XML forbids.
func ParseCommentXML(r io.Reader) ([]danmaku.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read comment xml: %w", err)
	}

	matches := commentPattern.FindAllSubmatch(data, -1)
	records := make([]danmaku.RawRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, danmaku.RawRecord{
			Attrs: string(m[1]),
			Body:  html.UnescapeString(string(m[2])),
		})
	}
	return records, nil
}
