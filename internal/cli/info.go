package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/danmu/internal/bilibili"
)

var infoCmd = &cobra.Command{
	Use:   "info <id|url>",
	Short: "Show the metadata of a bilibili video",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	id, err := bilibili.ParseVideoID(args[0])
	if err != nil {
		return err
	}

	meta, err := newSource(appConfig).FetchMetadata(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeInfo(out, id, meta, isTerminal(out))
	return nil
}

func writeInfo(w io.Writer, id bilibili.VideoID, meta *bilibili.Metadata, styled bool) {
	duration := time.Duration(meta.Duration * float64(time.Second)).Round(time.Second)
	rows := [][]string{
		{"Input", id.String()},
		{"Title", meta.Title},
		{"ID", meta.CanonicalID()},
		{"Comment track", strconv.FormatInt(meta.CID, 10)},
		{"Owner", meta.Owner},
		{"Duration", duration.String()},
		{"Resolution", fmt.Sprintf("%dx%d", meta.Width, meta.Height)},
	}
	if meta.Cover != "" {
		rows = append(rows, []string{"Cover", meta.Cover})
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows, nil, styled))
}
