package server

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"yatai/internal/filesystem"
)

// Greeting は / で返す固定の挨拶文
const Greeting = "Hello world from yatai! Send data with GET /echo to have it echoed back to you, or POST a number to /fib"

// NotFoundBody はどのルートにもマッチしなかった場合の本文
const NotFoundBody = "Path not found"

// handleRoot は挨拶文を返す
func (r *Router) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, Greeting)
}

// handleNoop は空の200を返す
func (r *Router) handleNoop(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleEcho はリクエストボディをそのまま返す
// リクエストヘッダーは返さない
func (r *Router) handleEcho(c *gin.Context) {
	body := r.readBody(c)
	c.Data(http.StatusOK, DefaultContentType, body)
}

// handleIndex は設定された index ファイルを返す
// 読めない場合は設定の誤りとして扱い、404/500 に変換せず接続ごと打ち切る
func (r *Router) handleIndex(c *gin.Context) {
	data, err := os.ReadFile(r.indexPath)
	if err != nil {
		r.logger.ErrorContext(c.Request.Context(), "indexファイルを読み込めません",
			"path", r.indexPath,
			"error", err)
		panic(http.ErrAbortHandler)
	}

	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

// handleFib はボディの数値 n に対して F(n) を計算して返す
func (r *Router) handleFib(c *gin.Context) {
	n, err := ParseFibArgument(r.readBody(c))
	if err != nil {
		r.logger.DebugContext(c.Request.Context(), "フィボナッチの引数が不正です", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}

	// キャンセルも上限もない。重い計算はこの接続のゴルーチンだけを占有する
	start := time.Now()
	result := Fibonacci(n)
	r.metrics.FibComputed(c.Request.Context(), n, time.Since(start))

	c.String(http.StatusOK, strconv.FormatUint(result, 10))
}

// handleNotFound は404と固定の本文を返す
func (r *Router) handleNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, NotFoundBody)
}

// handleStatic は静的ファイル要求を処理する
func (r *Router) handleStatic(c *gin.Context) {
	status := r.serveFile(c)
	r.metrics.StaticServed(c.Request.Context(), status)
}

// serveFile はファイルの存在確認、読み込み、Content-Type の判定を行い、
// 書き込んだステータスコードを返す
func (r *Router) serveFile(c *gin.Context) int {
	ctx := c.Request.Context()
	urlPath := c.Request.URL.Path

	name, err := filesystem.CleanName(urlPath)
	if err != nil {
		c.Status(http.StatusNotFound)
		return http.StatusNotFound
	}

	exists, err := r.files.FileExists(name)
	if err != nil {
		r.logger.WarnContext(ctx, "ファイルの存在確認に失敗しました", "path", urlPath, "error", err)
		c.Status(http.StatusInternalServerError)
		return http.StatusInternalServerError
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return http.StatusNotFound
	}

	data, err := r.files.ReadFile(name)
	if err != nil {
		r.logger.WarnContext(ctx, "ファイルの読み込みに失敗しました", "path", urlPath, "error", err)
		c.Status(http.StatusInternalServerError)
		return http.StatusInternalServerError
	}

	c.Data(http.StatusOK, ContentTypeFor(urlPath), data)
	return http.StatusOK
}

// readBody はボディ全体を読み込む
// 読み込みに失敗した場合は通信エラーとして接続を打ち切る
func (r *Router) readBody(c *gin.Context) []byte {
	body, err := c.GetRawData()
	if err != nil {
		r.logger.WarnContext(c.Request.Context(), "リクエストボディの読み込みに失敗しました",
			"path", c.Request.URL.Path,
			"error", err)
		panic(http.ErrAbortHandler)
	}
	return body
}
