// Package main はyataiサーバーコマンドの実装です
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yatai/internal/app"
	"yatai/internal/config"
)

var (
	host       string
	port       int
	configFile string
	root       string
	indexPath  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "yatai-server",
	Short: "yatai - 小さなHTTPデモサーバー",
	Long: `yatai は静的ファイルの配信と、echo / noop / フィボナッチ計算などの
デモ用エンドポイントを提供する小さなHTTPサーバーです。`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&host, "host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
	flags.IntVar(&port, "port", 0, "サーバーのポート (デフォルト: 8080)")
	flags.StringVar(&configFile, "config", "", "設定ファイル (.yaml / .toml)")
	flags.StringVar(&root, "root", "", "静的ファイルのルートディレクトリ (デフォルト: .)")
	flags.StringVar(&indexPath, "index", "", "/index で返すHTMLファイル")
	flags.StringVar(&logLevel, "log-level", "", "ログレベル (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// 設定を読み込む
	if configFile == "" {
		configFile = os.Getenv("YATAI_CONFIG")
	}
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	// コマンドラインオプションで設定を上書き
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if root != "" {
		cfg.Files.Root = root
	}
	if indexPath != "" {
		cfg.Files.IndexPath = indexPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("設定が不正です: %w", err)
	}

	return app.Run(cmd.Context(), cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
