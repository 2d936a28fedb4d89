package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mgpai22/danmu/internal/danmaku"
)

var statsCmd = &cobra.Command{
	Use:   "stats [id|url]",
	Short: "Count the danmaku of a video by category",
	Long: `Count the overlay comments of a bilibili video (or a local XML dump) by
category without writing a subtitle file.

Examples:
  danmu stats BV1xx411c7mD
  danmu stats --file comments.xml --format json`,
	Args: inputArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	addInputFlags(statsCmd)
	statsCmd.Flags().
		String("format", "table", "Output format (table, json, yaml)")
}

type statsReport struct {
	VideoID       string `json:"video_id,omitempty" yaml:"video_id,omitempty"`
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	danmaku.Stats `yaml:",inline"`
}

func runStats(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	src, err := loadComments(cmd.Context(), cmd, args)
	if err != nil {
		return err
	}

	report := statsReport{
		VideoID: src.VideoID,
		Title:   src.Title,
		Stats:   danmaku.ComputeStats(danmaku.Parse(src.Records)),
	}

	out := cmd.OutOrStdout()
	return writeStats(out, report, format, isTerminal(out))
}

func writeStats(w io.Writer, report statsReport, format string, styled bool) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		return enc.Close()
	default:
		if report.Title != "" {
			fmt.Fprintf(w, "%s (%s)\n", report.Title, report.VideoID)
		}
		_, err := fmt.Fprintln(w, renderStatsTable(report.Stats, styled))
		return err
	}
}

func renderStatsTable(stats danmaku.Stats, styled bool) string {
	title := cases.Title(language.English)
	categories := []danmaku.Category{
		danmaku.CategoryScroll,
		danmaku.CategoryTop,
		danmaku.CategoryBottom,
	}

	rows := make([][]string, 0, len(categories)+1)
	for _, c := range categories {
		count := stats.Count(c)
		rows = append(rows, []string{
			title.String(c.String()),
			strconv.Itoa(count),
			percent(count, stats.Total),
		})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(stats.Total), percent(stats.Total, stats.Total)})

	return renderTable(
		[]string{"Category", "Count", "Share"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
		styled,
	)
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
