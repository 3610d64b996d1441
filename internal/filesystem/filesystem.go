// Package filesystem は一つのディレクトリの下に閉じたファイルアクセスを提供する。
//
// URLパスはルート相対の名前に変換してから os.Root 経由で開くため、
// ".." やシンボリックリンクでルートの外に出ることはできない。
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath はファイル名に変換できないURLパス
var ErrInvalidPath = errors.New("filesystem: invalid path")

// Root はディレクトリ配下のファイルを読む
type Root struct {
	dir  string
	root *os.Root
}

// Open は dir をルートとして開く
func Open(dir string) (*Root, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: open root %s: %w", dir, err)
	}
	return &Root{dir: dir, root: root}, nil
}

// Dir は開いたディレクトリのパス
func (r *Root) Dir() string {
	return r.dir
}

func (r *Root) Close() error {
	return r.root.Close()
}

// CleanName はURLパスをルート相対の名前に変換する
// "/a/../b.html" も "/../b.html" も "b.html" になる
func CleanName(urlPath string) (string, error) {
	if urlPath == "" || strings.IndexByte(urlPath, 0) >= 0 {
		return "", ErrInvalidPath
	}

	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	return filepath.FromSlash(name), nil
}

// FileExists は name が存在するかを返す
// 存在しない場合は (false, nil)、それ以外の失敗はエラーとして返す
func (r *Root) FileExists(name string) (bool, error) {
	_, err := r.root.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// ReadFile は name の内容をすべて読む
func (r *Root) ReadFile(name string) ([]byte, error) {
	file, err := r.root.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("ファイルのクローズに失敗しました", "name", name, "error", closeErr)
		}
	}()

	return io.ReadAll(file)
}
