package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/danmu/internal/ffmpeg"
)

// video file information
type Info struct {
	Path      string
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
	Codec     string
	HasAudio  bool
}

// defines interface for video processing operations
type Processor interface {
	// retrieves video file information
	GetInfo(ctx context.Context, videoPath string) (*Info, error)

	// renders an ASS track onto a copy of the video
	BurnSubtitles(
		ctx context.Context,
		videoPath, assPath, outputPath string,
		opts BurnOptions,
	) error
}

// holds options for burning subtitles
type BurnOptions struct {
	VideoCodec string // e.g. libx264
	CRF        int    // 0 leaves the encoder default
	Preset     string // encoder preset, e.g. "veryfast"
	CopyAudio  bool
}

// returns sensible defaults for burn-in
func DefaultBurnOptions() BurnOptions {
	return BurnOptions{
		VideoCodec: "libx264",
		CRF:        20,
		Preset:     "veryfast",
		CopyAudio:  true,
	}
}

// default implementation using ffmpeg
type DefaultProcessor struct{}

func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{}
}

var _ Processor = (*DefaultProcessor)(nil)

// retrieves video file information via ffprobe
func (p *DefaultProcessor) GetInfo(
	ctx context.Context,
	videoPath string,
) (*Info, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbeOutput(out.Bytes())
	if err != nil {
		return nil, err
	}
	info.Path = videoPath
	return info, nil
}

func parseProbeOutput(data []byte) (*Info, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse ffprobe output")
	}

	info := &Info{}
	gjson.GetBytes(data, "streams").ForEach(func(_, stream gjson.Result) bool {
		switch stream.Get("codec_type").String() {
		case "video":
			if info.Width == 0 {
				info.Width = int(stream.Get("width").Int())
				info.Height = int(stream.Get("height").Int())
				info.Codec = stream.Get("codec_name").String()
				info.FrameRate = parseFrameRate(stream.Get("r_frame_rate").String())
			}
		case "audio":
			info.HasAudio = true
		}
		return true
	})

	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("no video stream found")
	}

	if raw := gjson.GetBytes(data, "format.duration").String(); raw != "" {
		seconds, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	return info, nil
}

// "30000/1001" style rates
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, _ := strconv.ParseFloat(rate, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// renders the ASS track into the video frames
func (p *DefaultProcessor) BurnSubtitles(
	ctx context.Context,
	videoPath, assPath, outputPath string,
	opts BurnOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if _, err := os.Stat(assPath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", assPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := ffmpeg.Input(videoPath).
		Output(outputPath, burnArgs(assPath, opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		WithErrorOutput(&stderr).
		Compile()

	if err := runCommand(ctx, cmd); err != nil {
		return fmt.Errorf("ffmpeg burn-in failed: %w: %s", err, lastLine(stderr.String()))
	}

	return nil
}

func burnArgs(assPath string, opts BurnOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vf": "ass=" + escapeFilterPath(assPath),
	}
	if opts.VideoCodec != "" {
		kwargs["c:v"] = opts.VideoCodec
	}
	if opts.CRF > 0 {
		kwargs["crf"] = opts.CRF
	}
	if opts.Preset != "" {
		kwargs["preset"] = opts.Preset
	}
	if opts.CopyAudio {
		kwargs["c:a"] = "copy"
	}
	return kwargs
}

// escapes a path for use as a filtergraph option value
func escapeFilterPath(path string) string {
	path = filepath.ToSlash(path)
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
		`,`, `\,`,
		`[`, `\[`,
		`]`, `\]`,
		`;`, `\;`,
	)
	return replacer.Replace(path)
}

// runs cmd, killing it if ctx is cancelled first
func runCommand(ctx context.Context, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}
