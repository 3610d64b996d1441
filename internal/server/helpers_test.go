package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"yatai/internal/config"
	"yatai/internal/filesystem"
	"yatai/internal/logging"
	"yatai/internal/telemetry"
)

const testIndexHTML = "<!DOCTYPE html>\n<html><head><title>yatai</title></head><body><h1>index</h1></body></html>\n"

// fixture はテスト用の静的ファイルルートと index ファイル
type fixture struct {
	base      string // root の親。root の外側のファイルを置く
	root      string
	indexPath string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	base := t.TempDir()
	f := fixture{
		base:      base,
		root:      filepath.Join(base, "public"),
		indexPath: filepath.Join(base, "index.html"),
	}

	files := map[string]string{
		"index.html":        "<h1>static index</h1>",
		"style.css":         "body { margin: 0 }",
		"app.js":            "console.log('yatai')",
		"data.xyz":          "\x00\x01\x02",
		"README.MD":         "# yatai",
		"Cargo.toml":        "[package]",
		"fonts/inter.woff2": "wOF2",
		"v1.2/notes":        "no extension",
		"nested.d/.keep":    "",
		"module.wasm":       "\x00asm",
	}
	for name, content := range files {
		path := filepath.Join(f.root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	require.NoError(t, os.WriteFile(f.indexPath, []byte(testIndexHTML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret.html"), []byte("secret"), 0o600))

	return f
}

func (f fixture) config() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0, // ランダムポートを使用
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 2 * time.Second,
		},
		Files: config.FilesConfig{
			Root:      f.root,
			IndexPath: f.indexPath,
		},
		Log: config.LogConfig{Level: "debug", Format: "text"},
	}
}

func newTestRouter(t *testing.T, f fixture) *Router {
	t.Helper()

	files, err := filesystem.Open(f.root)
	require.NoError(t, err)

	r := NewRouter(files, f.indexPath, logging.NewDiscard(), telemetry.NewNoopMetrics())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// do はルーターに直接リクエストを送る
func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	return serve(h, httptest.NewRequest(method, target, body))
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
