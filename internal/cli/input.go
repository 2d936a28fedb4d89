package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/danmu/internal/bilibili"
	"github.com/mgpai22/danmu/internal/danmaku"
)

// comments fetched from bilibili or read from a local XML dump
type commentSource struct {
	VideoID  string
	Title    string
	Metadata *bilibili.Metadata // nil for local files
	Records  []danmaku.RawRecord
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("file", "f", "", "Read comments from a local bilibili XML file instead of fetching")
}

// requires exactly one of a positional id/url or --file
func inputArgs(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	switch {
	case file != "" && len(args) > 0:
		return errors.New("pass either a video id/url or --file, not both")
	case file == "" && len(args) != 1:
		return errors.New("a bilibili video id or url is required (or use --file)")
	}
	return nil
}

func loadComments(ctx context.Context, cmd *cobra.Command, args []string) (*commentSource, error) {
	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		return loadCommentFile(file)
	}

	id, err := bilibili.ParseVideoID(args[0])
	if err != nil {
		return nil, err
	}

	source := newSource(appConfig)
	logger.Infow("Fetching video info",
		"id", id.String(),
	)

	meta, err := source.FetchMetadata(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Infow("Fetching danmaku",
		"title", meta.Title,
		"cid", meta.CID,
	)

	records, err := source.FetchComments(ctx, meta.CID)
	if err != nil {
		return nil, err
	}

	return &commentSource{
		VideoID:  meta.CanonicalID(),
		Title:    meta.Title,
		Metadata: meta,
		Records:  records,
	}, nil
}

func loadCommentFile(path string) (*commentSource, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open comment file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := bilibili.ParseCommentXML(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read comment file: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &commentSource{
		VideoID: base,
		Title:   base,
		Records: records,
	}, nil
}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// defaultOutputPath names the ASS file after the title, falling back to the
// comment track id.
func defaultOutputPath(src *commentSource) string {
	name := strings.TrimSpace(unsafeFilenameChars.Replace(src.Title))
	if name == "" && src.Metadata != nil {
		name = strconv.FormatInt(src.Metadata.CID, 10)
	}
	if name == "" {
		name = "danmaku"
	}
	return name + ".ass"
}
