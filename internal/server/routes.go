package server

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"yatai/internal/filesystem"
	"yatai/internal/telemetry"
)

// ルート名
const (
	RouteStatic   = "static"
	RouteRoot     = "root"
	RouteNoop     = "noop"
	RouteEcho     = "echo"
	RouteIndex    = "index"
	RouteFib      = "fib"
	RouteNotFound = "not_found"
)

// routeKey は gin.Context に選択されたルート名を保存するキー
const routeKey = "yatai.route"

// fileLikePath は拡張子を含むように見えるパスにマッチする
var fileLikePath = regexp.MustCompile(`(\S+)\.(\S+)`)

// Route はリクエストの判定関数とハンドラの組
// Match は副作用を持たない
type Route struct {
	Name    string
	Match   func(method, path string) bool
	Handler gin.HandlerFunc
}

// Router は順序付きのルール表でリクエストを振り分ける
// ルール表は NewRouter で一度だけ作られ、以後は変更されない
type Router struct {
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	files     *filesystem.Root
	indexPath string

	routes   []Route
	notFound Route
	engine   *gin.Engine
}

// NewRouter は新しいRouterを作成する
func NewRouter(files *filesystem.Root, indexPath string, logger *slog.Logger, metrics *telemetry.Metrics) *Router {
	r := &Router{
		logger:    logger,
		metrics:   metrics,
		files:     files,
		indexPath: indexPath,
	}

	// 先頭から評価し、最初にマッチしたものを使う
	r.routes = []Route{
		{Name: RouteStatic, Match: IsFileRequest, Handler: r.handleStatic},
		{Name: RouteRoot, Match: exact(http.MethodGet, "/"), Handler: r.handleRoot},
		{Name: RouteNoop, Match: exact(http.MethodGet, "/noop"), Handler: r.handleNoop},
		{Name: RouteEcho, Match: exact(http.MethodGet, "/echo"), Handler: r.handleEcho},
		{Name: RouteIndex, Match: exact(http.MethodGet, "/index"), Handler: r.handleIndex},
		{Name: RouteFib, Match: exact(http.MethodPost, "/fib"), Handler: r.handleFib},
	}
	r.notFound = Route{Name: RouteNotFound, Handler: r.handleNotFound}

	r.engine = r.newEngine()

	return r
}

// IsFileRequest はGETかつパスがファイル名のように見えるかを判定する
func IsFileRequest(method, path string) bool {
	return method == http.MethodGet && fileLikePath.MatchString(path)
}

// exact はメソッドとパスの完全一致を判定する関数を返す
func exact(method, path string) func(string, string) bool {
	return func(m, p string) bool {
		return m == method && p == path
	}
}

// Resolve はメソッドとパスから使用するルートを決める
// どのルールにもマッチしなければ not found のルートを返す
func (r *Router) Resolve(method, path string) Route {
	for _, route := range r.routes {
		if route.Match(method, path) {
			return route
		}
	}
	return r.notFound
}

// Dispatch はリクエストを一つのハンドラにだけ渡す
func (r *Router) Dispatch(c *gin.Context) {
	route := r.Resolve(c.Request.Method, c.Request.URL.Path)
	c.Set(routeKey, route.Name)
	route.Handler(c)
}

// Handler はミドルウェア込みの http.Handler を返す
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Close は静的ファイルのルートを閉じる
func (r *Router) Close() error {
	return r.files.Close()
}

// newEngine はginのエンジンを組み立てる
// ginのルーティングは全パスを Dispatch に集めるためだけに使う
func (r *Router) newEngine() *gin.Engine {
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = false

	engine.Use(
		RequestIDMiddleware(),
		LoggingMiddleware(r.logger),
		RecoveryMiddleware(r.logger),
	)

	engine.Any("/*path", r.Dispatch)
	// Any に含まれないメソッド用
	engine.NoRoute(r.Dispatch)

	return engine
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
