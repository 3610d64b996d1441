package server

import (
	"path"
	"strings"
)

// DefaultContentType は拡張子が不明な場合の Content-Type
const DefaultContentType = "application/octet-stream"

// contentTypes は小文字の拡張子 (ドットなし) から Content-Type への対応表
// 起動後は読み取り専用
var contentTypes = map[string]string{
	"js":    "text/javascript",
	"html":  "text/html",
	"wasm":  "application/wasm",
	"css":   "text/css",
	"md":    "text/markdown",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"sfnt":  "font/sfnt",
	"rs":    "text/plain",
	"toml":  "text/plain",
}

// ContentTypeFor はパスの最後の要素の拡張子から Content-Type を返す
func ContentTypeFor(p string) string {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return DefaultContentType
}
