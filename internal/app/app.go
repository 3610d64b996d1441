// Package app は設定からロガー・テレメトリ・サーバーを組み立てて実行する。
// main.go と cmd/server.go の両方から使う。
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"yatai/internal/config"
	"yatai/internal/logging"
	"yatai/internal/server"
	"yatai/internal/telemetry"
)

// Run はサーバーを起動し、終了するまでブロックする
func Run(ctx context.Context, cfg *config.Config) (err error) {
	provider, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("テレメトリの初期化に失敗: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, provider.Shutdown(shutdownCtx))
	}()

	logger := logging.New(cfg.Log, os.Stderr)
	if provider.LogHandler != nil {
		logger = slog.New(logging.NewTeeHandler(logger.Handler(), provider.LogHandler))
	}
	slog.SetDefault(logger)

	metrics, err := telemetry.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return fmt.Errorf("メトリクスの作成に失敗: %w", err)
	}

	srv, err := server.New(cfg, logger, metrics)
	if err != nil {
		return err
	}

	logger.Info("yatai サーバーを起動します",
		"addr", cfg.ServerAddress(),
		"root", srv.StaticRoot(),
		"telemetry", provider.Enabled())

	return srv.Start(ctx)
}
