package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/danmu/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous conversions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !appConfig.History.Enabled {
		fmt.Fprintln(out, "Export history is disabled")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(cmd.Context(), appConfig.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	exports, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	writeHistory(out, exports, isTerminal(out))
	return nil
}

func writeHistory(w io.Writer, exports []history.Export, styled bool) {
	if len(exports) == 0 {
		fmt.Fprintln(w, "No exports recorded")
		return
	}

	rows := make([][]string, 0, len(exports))
	for _, e := range exports {
		rows = append(rows, []string{
			e.ExportedAt.Local().Format(time.DateTime),
			e.VideoID,
			e.VideoTitle,
			strconv.Itoa(e.DanmakuCount),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Exported", "Video", "Title", "Danmaku"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		styled,
	))
}
