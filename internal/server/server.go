package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"yatai/internal/config"
	"yatai/internal/filesystem"
	"yatai/internal/telemetry"
)

// defaultShutdownTimeout は設定がない場合のシャットダウン猶予
const defaultShutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	router     *Router
	httpServer *http.Server
	listener   net.Listener
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics) (*Server, error) {
	files, err := filesystem.Open(cfg.Files.Root)
	if err != nil {
		return nil, fmt.Errorf("静的ファイルのルートを開けません: %w", err)
	}

	// /index は要求時に読むので、ここでは警告だけ出す
	if _, err := os.Stat(cfg.Files.IndexPath); err != nil {
		logger.Warn("indexファイルが見つかりません。/index への要求は接続ごと失敗します",
			"path", cfg.Files.IndexPath,
			"error", err)
	}

	router := NewRouter(files, cfg.Files.IndexPath, logger, metrics)
	s := newServer(cfg, logger, metrics, otelhttp.NewHandler(router.Handler(), "yatai"))
	s.router = router

	return s, nil
}

// newServer は任意のハンドラでServerを作成する
func newServer(cfg *config.Config, logger *slog.Logger, metrics *telemetry.Metrics, handler http.Handler) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}

	s.httpServer = &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		// 接続単位のプロトコルエラーはここに出力される
		ErrorLog:  slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		ConnState: s.trackConn,
	}

	return s
}

// trackConn は接続の開始と終了を記録する
func (s *Server) trackConn(conn net.Conn, state http.ConnState) {
	ctx := context.Background()

	switch state {
	case http.StateNew:
		s.metrics.ConnectionOpened(ctx)
		s.logger.Debug("接続を受け付けました", "remote_addr", conn.RemoteAddr().String())
	case http.StateClosed, http.StateHijacked:
		s.metrics.ConnectionClosed(ctx)
		s.logger.Debug("接続を閉じました", "remote_addr", conn.RemoteAddr().String())
	}
}

// Listen はリスニングソケットをバインドする
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("ソケットのバインドに失敗: %w", err)
	}
	s.listener = ln
	return nil
}

// Addr はバインドしたアドレスを返す。Listen 前は nil
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve は接続を受け付け続ける
// 接続ごとにゴルーチンが起動され、受け付けループはその終了を待たない
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start はサーバーを起動する
// コンテキストのキャンセルかシグナルを受けるとグレースフルにシャットダウンする
func (s *Server) Start(ctx context.Context) error {
	// バインドの失敗はここで返す
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return errors.Join(err, s.closeRouter())
		}
	}

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.logger.Info("HTTPサーバーを起動しています", "addr", s.Addr().String())
		if err := s.Serve(); err != nil {
			shutdownCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Info("シグナルを受信しました", "signal", sig.String())
	case err := <-shutdownCh:
		return errors.Join(err, s.closeRouter())
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Join(fmt.Errorf("サーバーのシャットダウンに失敗: %w", err), s.closeRouter())
	}

	if err := s.closeRouter(); err != nil {
		return err
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}

// StaticRoot は静的ファイルのルートディレクトリを返す
func (s *Server) StaticRoot() string {
	if s.router == nil {
		return ""
	}
	return s.router.files.Dir()
}

func (s *Server) closeRouter() error {
	if s.router == nil {
		return nil
	}
	err := s.router.Close()
	s.router = nil
	return err
}
