package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server    ServerConfig
	Files     FilesConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string // リッスンするホスト
	Port int    `validate:"min=1,max=65535"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration `validate:"gte=0s"` // 読み込みタイムアウト
	WriteTimeout    time.Duration `validate:"gte=0s"` // 書き込みタイムアウト
	ShutdownTimeout time.Duration `validate:"gt=0s"`  // グレースフルシャットダウンの猶予
}

// FilesConfig は配信するファイルの設定
type FilesConfig struct {
	Root      string `validate:"required"` // 静的ファイルのルートディレクトリ
	IndexPath string `validate:"required"` // /index で返すHTMLファイル
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

// TelemetryConfig はOpenTelemetryの設定
// OTLPEndpoint が空の場合は何も送信しない
type TelemetryConfig struct {
	OTLPEndpoint string `validate:"omitempty,hostname_port"`
	ServiceName  string `validate:"required"`
}

// デフォルト値
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8080
	DefaultIndexPath   = "/files/hello_world/index.html"
	DefaultServiceName = "yatai"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     0, // 受信側のタイムアウトはかけない
			WriteTimeout:    0, // 重いフィボナッチ計算でも応答できるように無効化
			ShutdownTimeout: 5 * time.Second,
		},
		Files: FilesConfig{
			Root:      ".",
			IndexPath: DefaultIndexPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}

// Load は設定を読み込む
// デフォルト値、設定ファイル (YATAI_CONFIG)、環境変数の順に上書きする
func Load() (*Config, error) {
	return LoadFile(os.Getenv("YATAI_CONFIG"))
}

// LoadFile は指定された設定ファイルを使って設定を読み込む
// path が空の場合は設定ファイルを読まない
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Server.Port = getEnvAsIntOrDefault("SERVER_PORT", c.Server.Port)
	c.Files.Root = getEnvOrDefault("YATAI_ROOT", c.Files.Root)
	c.Files.IndexPath = getEnvOrDefault("YATAI_INDEX", c.Files.IndexPath)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
	c.Telemetry.OTLPEndpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.ServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
