package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/danmu/internal/convert"
	"github.com/mgpai22/danmu/internal/history"
	"github.com/mgpai22/danmu/internal/layout"
	"github.com/mgpai22/danmu/internal/video"
)

var newVideoProcessor = func() video.Processor {
	return video.NewProcessor()
}

var convertCmd = &cobra.Command{
	Use:   "convert [id|url]",
	Short: "Convert the danmaku of a video into an ASS subtitle file",
	Long: `Convert the overlay comments of a bilibili video into an ASS subtitle file.

The video can be given as a BV code, an av number, an episode id (ep123) or
any bilibili URL containing one of those. Use --file to convert a comment
XML dump that is already on disk.

Layout options default to the [layout] section of the config file; flags
given on the command line take precedence. With --video the canvas size is
read from a local copy of the video.

Examples:
  danmu convert BV1xx411c7mD
  danmu convert https://www.bilibili.com/bangumi/play/ep123 --coverage half
  danmu convert av170001 --avoid-collisions --font-size 32 -o out.ass
  danmu convert --file comments.xml --video episode.mp4`,
	Args: inputArgs,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	addInputFlags(convertCmd)
	addLayoutFlags(convertCmd)
	convertCmd.Flags().
		String("video", "", "Local video file whose resolution sets the canvas size")
}

func addLayoutFlags(cmd *cobra.Command) {
	def := layout.DefaultConfig()
	flags := cmd.Flags()
	flags.Int("width", def.CanvasWidth, "Canvas width in pixels")
	flags.Int("height", def.CanvasHeight, "Canvas height in pixels")
	flags.String("font", def.FontName, "Font name")
	flags.Int("font-size", def.FontSize, "Font size in pixels")
	flags.Float64("opacity", def.Opacity, "Comment opacity from 0 (transparent) to 1 (opaque)")
	flags.Float64("scroll-duration", def.ScrollDuration, "Seconds a scrolling comment stays on screen")
	flags.Float64("static-duration", def.StaticDuration, "Seconds a top or bottom comment stays on screen")
	flags.Bool("avoid-collisions", def.CollisionAvoidance, "Stack comments into separate lanes")
	flags.String("coverage", string(def.Coverage), "Share of the screen height to use (full, half, quarter)")
}

// layoutFromFlags overlays explicitly set flags on base.
func layoutFromFlags(cmd *cobra.Command, base layout.Config) (layout.Config, error) {
	cfg := base
	flags := cmd.Flags()

	if flags.Changed("width") {
		cfg.CanvasWidth, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.CanvasHeight, _ = flags.GetInt("height")
	}
	if flags.Changed("font") {
		cfg.FontName, _ = flags.GetString("font")
	}
	if flags.Changed("font-size") {
		cfg.FontSize, _ = flags.GetInt("font-size")
	}
	if flags.Changed("opacity") {
		cfg.Opacity, _ = flags.GetFloat64("opacity")
	}
	if flags.Changed("scroll-duration") {
		cfg.ScrollDuration, _ = flags.GetFloat64("scroll-duration")
	}
	if flags.Changed("static-duration") {
		cfg.StaticDuration, _ = flags.GetFloat64("static-duration")
	}
	if flags.Changed("avoid-collisions") {
		cfg.CollisionAvoidance, _ = flags.GetBool("avoid-collisions")
	}
	if flags.Changed("coverage") {
		raw, _ := flags.GetString("coverage")
		coverage, err := layout.ParseCoverage(raw)
		if err != nil {
			return layout.Config{}, err
		}
		cfg.Coverage = coverage
	}

	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	return cfg, nil
}

func resolveLayout(ctx context.Context, cmd *cobra.Command) (layout.Config, error) {
	base, err := appConfig.LayoutConfig()
	if err != nil {
		return layout.Config{}, err
	}

	videoPath, _ := cmd.Flags().GetString("video")
	if videoPath != "" && !cmd.Flags().Changed("width") && !cmd.Flags().Changed("height") {
		info, err := newVideoProcessor().GetInfo(ctx, videoPath)
		if err != nil {
			return layout.Config{}, fmt.Errorf("failed to read video resolution: %w", err)
		}
		logger.Infow("Using video resolution",
			"video", videoPath,
			"width", info.Width,
			"height", info.Height,
		)
		base.CanvasWidth = info.Width
		base.CanvasHeight = info.Height
	}

	return layoutFromFlags(cmd, base)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := resolveLayout(ctx, cmd)
	if err != nil {
		return err
	}

	src, err := loadComments(ctx, cmd, args)
	if err != nil {
		return err
	}

	result, err := convert.Convert(src.Records, cfg)
	if err != nil {
		return err
	}
	if dropped := len(src.Records) - result.Stats.Total; dropped > 0 {
		logger.Debugw("Dropped malformed records",
			"count", dropped,
		)
	}
	if src.Title != "" {
		result.Document.Title = src.Title
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutputPath(src)
	}

	logger.Infow("Writing subtitles",
		"output", outputPath,
		"events", len(result.Document.Dialogues),
		"canvas", fmt.Sprintf("%dx%d", cfg.CanvasWidth, cfg.CanvasHeight),
	)

	if err := result.Document.WriteFile(outputPath); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	recordHistory(ctx, src, result.Stats.Total)

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles generated successfully: %s\n", absOutput)
	printStatsSummary(out, result)

	return nil
}

func printStatsSummary(w io.Writer, result *convert.Result) {
	fmt.Fprintf(w, "  Total: %d\n", result.Stats.Total)
	fmt.Fprintf(w, "  Scroll: %d\n", result.Stats.Scroll)
	fmt.Fprintf(w, "  Top: %d\n", result.Stats.Top)
	fmt.Fprintf(w, "  Bottom: %d\n", result.Stats.Bottom)
}

// failures are logged and never fail the conversion
func recordHistory(ctx context.Context, src *commentSource, count int) {
	if appConfig == nil || !appConfig.History.Enabled {
		return
	}

	store, err := history.Open(ctx, appConfig.History.Path)
	if err != nil {
		logger.Warnw("Failed to open export history",
			"path", appConfig.History.Path,
			"error", err,
		)
		return
	}
	defer func() { _ = store.Close() }()

	if _, err := store.Record(ctx, src.VideoID, src.Title, count); err != nil {
		logger.Warnw("Failed to record export",
			"video", src.VideoID,
			"error", err,
		)
	}
}
