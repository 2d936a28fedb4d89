package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var leadingTagsRegex = regexp.MustCompile(`^(\{[^}]*\})+`)

// parsed Dialogue line with all fields
type ASSDialogue struct {
	FieldsBefore    []string
	Text            string
	LeadingTags     string
	TextWithoutTags string
	OriginalLine    string
}

// ASS document read back from disk, keyed by section
type ASSFile struct {
	scriptInfo      map[string]string
	styles          []string
	formatColumns   []string
	textColumnIndex int
	dialogues       []ASSDialogue
	sections        []string
}

func OpenASS(path string) (*ASSFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseASS(file)
}

func ParseASS(r io.Reader) (*ASSFile, error) {
	assFile := &ASSFile{
		scriptInfo:      make(map[string]string),
		textColumnIndex: -1,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	section := ""
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, ";") {
			continue
		}

		if strings.HasPrefix(trimmedLine, "[") &&
			strings.HasSuffix(trimmedLine, "]") {
			section = strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "["), "]"),
			)
			assFile.sections = append(assFile.sections, section)
			continue
		}

		switch section {
		case "script info":
			key, value, ok := strings.Cut(trimmedLine, ":")
			if ok {
				assFile.scriptInfo[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		case "v4+ styles", "v4 styles":
			if strings.HasPrefix(trimmedLine, "Style:") {
				assFile.styles = append(assFile.styles, trimmedLine)
			}
		case "events":
			if err := assFile.parseEventLine(line, lineNum); err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}

	if len(assFile.formatColumns) == 0 {
		return nil, fmt.Errorf(
			"ASS file missing Format line in [Events] section",
		)
	}

	return assFile, nil
}

func (f *ASSFile) parseEventLine(line string, lineNum int) error {
	trimmedLine := strings.TrimSpace(line)

	if strings.HasPrefix(trimmedLine, "Format:") {
		formatPart := strings.TrimPrefix(trimmedLine, "Format:")
		columns := strings.Split(formatPart, ",")
		for i, col := range columns {
			columns[i] = strings.TrimSpace(col)
		}
		f.formatColumns = columns
		f.textColumnIndex = -1
		for i, col := range columns {
			if strings.EqualFold(col, "Text") {
				f.textColumnIndex = i
				break
			}
		}
		if f.textColumnIndex == -1 {
			return fmt.Errorf(
				"ASS file missing Text column in Format line",
			)
		}
		return nil
	}

	if strings.HasPrefix(trimmedLine, "Dialogue:") {
		dialogue, err := f.parseDialogueLine(line)
		if err != nil {
			return fmt.Errorf(
				"failed to parse Dialogue at line %d: %w",
				lineNum,
				err,
			)
		}
		f.dialogues = append(f.dialogues, dialogue)
	}

	return nil
}

func (f *ASSFile) parseDialogueLine(line string) (ASSDialogue, error) {
	dialogue := ASSDialogue{OriginalLine: line}

	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "Dialogue:"))

	numColumns := len(f.formatColumns)
	if numColumns == 0 {
		return dialogue, fmt.Errorf("format columns not parsed yet")
	}

	parts := splitASSFields(content, numColumns)
	if len(parts) < numColumns {
		return dialogue, fmt.Errorf(
			"expected %d fields, got %d",
			numColumns,
			len(parts),
		)
	}

	dialogue.FieldsBefore = parts[:f.textColumnIndex]
	dialogue.Text = parts[f.textColumnIndex]
	dialogue.LeadingTags, dialogue.TextWithoutTags = extractLeadingTags(dialogue.Text)

	return dialogue, nil
}

// splits on the first numFields-1 commas; the text column keeps the rest
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			return parts
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	return append(parts, remaining)
}

func extractLeadingTags(text string) (string, string) {
	match := leadingTagsRegex.FindString(text)
	if match == "" {
		return "", text
	}
	return match, text[len(match):]
}

// Sections lists section names in file order, lower-cased.
func (f *ASSFile) Sections() []string {
	return f.sections
}

// PlayRes returns the declared script resolution, zero when absent.
func (f *ASSFile) PlayRes() (int, int) {
	w, _ := strconv.Atoi(f.scriptInfo["PlayResX"])
	h, _ := strconv.Atoi(f.scriptInfo["PlayResY"])
	return w, h
}

// ScriptInfo returns a [Script Info] value.
func (f *ASSFile) ScriptInfo(key string) string {
	return f.scriptInfo[key]
}

// Styles returns the raw Style: lines.
func (f *ASSFile) Styles() []string {
	return f.styles
}

func (f *ASSFile) RawDialogues() []ASSDialogue {
	return f.dialogues
}

// Dialogues converts the parsed lines back into Dialogue values.
func (f *ASSFile) Dialogues() []Dialogue {
	layerIdx, startIdx, endIdx, styleIdx := -1, -1, -1, -1
	for i, col := range f.formatColumns {
		switch strings.ToLower(col) {
		case "layer":
			layerIdx = i
		case "start":
			startIdx = i
		case "end":
			endIdx = i
		case "style":
			styleIdx = i
		}
	}

	field := func(d ASSDialogue, idx int) string {
		if idx >= 0 && idx < len(d.FieldsBefore) {
			return strings.TrimSpace(d.FieldsBefore[idx])
		}
		return ""
	}

	out := make([]Dialogue, len(f.dialogues))
	for i, d := range f.dialogues {
		layer, _ := strconv.Atoi(field(d, layerIdx))
		out[i] = Dialogue{
			Layer: layer,
			Start: parseASSTimestamp(field(d, startIdx)),
			End:   parseASSTimestamp(field(d, endIdx)),
			Style: field(d, styleIdx),
			Text:  d.Text,
		}
	}
	return out
}

func parseASSTimestamp(ts string) time.Duration {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	// split seconds and centiseconds
	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0
	}

	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0
	}

	centis, err := strconv.Atoi(secParts[1])
	if err != nil {
		return 0
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(centis)*10*time.Millisecond
}
