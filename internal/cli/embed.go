package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/danmu/internal/subtitle"
	"github.com/mgpai22/danmu/internal/video"
)

var embedCmd = &cobra.Command{
	Use:   "embed <video> <ass>",
	Short: "Burn an ASS danmaku track into a copy of a video",
	Long: `Burn an ASS subtitle track into a copy of a video using ffmpeg.

The original video is left untouched. The output defaults to
<video>.danmaku<ext> next to the input.

Examples:
  danmu embed episode.mp4 episode.ass
  danmu embed episode.mkv episode.ass -o burned.mkv --crf 18`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	def := video.DefaultBurnOptions()
	embedCmd.Flags().String("codec", def.VideoCodec, "Video encoder")
	embedCmd.Flags().Int("crf", def.CRF, "Encoder quality (0 uses the encoder default)")
	embedCmd.Flags().String("preset", def.Preset, "Encoder preset")
}

func embedOutputPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".danmaku" + ext
}

func runEmbed(cmd *cobra.Command, args []string) error {
	videoPath, assPath := args[0], args[1]

	assFile, err := subtitle.OpenASS(assPath)
	if err != nil {
		return fmt.Errorf("invalid subtitle file: %w", err)
	}
	if len(assFile.RawDialogues()) == 0 {
		logger.Warnw("Subtitle file has no dialogue lines",
			"path", assPath,
		)
	}

	opts := video.DefaultBurnOptions()
	opts.VideoCodec, _ = cmd.Flags().GetString("codec")
	opts.CRF, _ = cmd.Flags().GetInt("crf")
	opts.Preset, _ = cmd.Flags().GetString("preset")

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = embedOutputPath(videoPath)
	}
	if filepath.Clean(outputPath) == filepath.Clean(videoPath) {
		return fmt.Errorf("output path must differ from the input video")
	}

	width, height := assFile.PlayRes()
	logger.Infow("Burning danmaku into video",
		"video", videoPath,
		"subtitles", assPath,
		"output", outputPath,
		"play_res", fmt.Sprintf("%dx%d", width, height),
		"events", len(assFile.RawDialogues()),
	)

	processor := newVideoProcessor()
	if err := processor.BurnSubtitles(cmd.Context(), videoPath, assPath, outputPath, opts); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Video written: %s\n", absOutput)
	return nil
}
