package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mgpai22/danmu/internal/bilibili"
	"github.com/mgpai22/danmu/internal/config"
	"github.com/mgpai22/danmu/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     = logging.NewNop()
	appConfig  *config.Config
)

// newSource builds the remote collaborator; tests swap it for a fake.
var newSource = func(cfg *config.Config) bilibili.Source {
	return bilibili.New(cfg.ClientOptions()...)
}

var rootCmd = &cobra.Command{
	Use:   "danmu",
	Short: "Convert bilibili danmaku into ASS subtitles",
	Long: `Danmu is a CLI tool that downloads the overlay comments (danmaku) of a
bilibili video and lays them out as an ASS subtitle track.

Scrolling comments move right to left across the screen; top and bottom
comments are pinned in place. The resulting track can be loaded by any
player that supports ASS or burned into a copy of the video.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose).Named(cmd.Name())

		cfg, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Debugw("Configuration loaded",
			"path", path,
			"found", exists,
		)
		appConfig = cfg
		return nil
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file path (default $XDG_CONFIG_HOME/danmu/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
