package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig は設定ファイルの構造
// 期間は "10s" のような文字列で記述する
type fileConfig struct {
	Server struct {
		Host            string `yaml:"host" toml:"host"`
		Port            int    `yaml:"port" toml:"port"`
		ReadTimeout     string `yaml:"read_timeout" toml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout" toml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	} `yaml:"server" toml:"server"`
	Files struct {
		Root      string `yaml:"root" toml:"root"`
		IndexPath string `yaml:"index_path" toml:"index_path"`
	} `yaml:"files" toml:"files"`
	Log struct {
		Level  string `yaml:"level" toml:"level"`
		Format string `yaml:"format" toml:"format"`
	} `yaml:"log" toml:"log"`
	Telemetry struct {
		OTLPEndpoint string `yaml:"otlp_endpoint" toml:"otlp_endpoint"`
		ServiceName  string `yaml:"service_name" toml:"service_name"`
	} `yaml:"telemetry" toml:"telemetry"`
}

// mergeFile は設定ファイルの値で設定を上書きする
// 拡張子で形式を判定する (.yaml/.yml, .toml)
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("未対応の設定ファイル形式: %q", ext)
	}
	if err != nil {
		return fmt.Errorf("%s の解析に失敗: %w", path, err)
	}

	return c.merge(&fc)
}

func (c *Config) merge(fc *fileConfig) error {
	if fc.Server.Host != "" {
		c.Server.Host = fc.Server.Host
	}
	if fc.Server.Port != 0 {
		c.Server.Port = fc.Server.Port
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"server.read_timeout", fc.Server.ReadTimeout, &c.Server.ReadTimeout},
		{"server.write_timeout", fc.Server.WriteTimeout, &c.Server.WriteTimeout},
		{"server.shutdown_timeout", fc.Server.ShutdownTimeout, &c.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s が不正です: %w", d.name, err)
		}
		*d.dst = v
	}

	if fc.Files.Root != "" {
		c.Files.Root = fc.Files.Root
	}
	if fc.Files.IndexPath != "" {
		c.Files.IndexPath = fc.Files.IndexPath
	}
	if fc.Log.Level != "" {
		c.Log.Level = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.Log.Format = fc.Log.Format
	}
	if fc.Telemetry.OTLPEndpoint != "" {
		c.Telemetry.OTLPEndpoint = fc.Telemetry.OTLPEndpoint
	}
	if fc.Telemetry.ServiceName != "" {
		c.Telemetry.ServiceName = fc.Telemetry.ServiceName
	}

	return nil
}
