package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ScopeName は計装スコープ名
const ScopeName = "yatai"

// Metrics はサーバーが記録する計測器をまとめた構造体
type Metrics struct {
	connAccepted    metric.Int64Counter
	connActive      metric.Int64UpDownCounter
	fibComputations metric.Int64Counter
	fibDuration     metric.Float64Histogram
	staticRequests  metric.Int64Counter
}

// NewMetrics は MeterProvider から計測器を作成する
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(ScopeName)

	var (
		m   Metrics
		err error
	)

	m.connAccepted, err = meter.Int64Counter("yatai.connections.accepted",
		metric.WithDescription("受け付けたTCP接続の数"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.connActive, err = meter.Int64UpDownCounter("yatai.connections.active",
		metric.WithDescription("現在開いているTCP接続の数"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, err
	}

	m.fibComputations, err = meter.Int64Counter("yatai.fib.computations",
		metric.WithDescription("フィボナッチ計算の回数"),
		metric.WithUnit("{computation}"))
	if err != nil {
		return nil, err
	}

	m.fibDuration, err = meter.Float64Histogram("yatai.fib.duration",
		metric.WithDescription("フィボナッチ計算にかかった時間"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.staticRequests, err = meter.Int64Counter("yatai.static.requests",
		metric.WithDescription("静的ファイル要求の数"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// NewNoopMetrics は何も記録しない Metrics を返す
func NewNoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// ConnectionOpened は接続の受け付けを記録する
func (m *Metrics) ConnectionOpened(ctx context.Context) {
	m.connAccepted.Add(ctx, 1)
	m.connActive.Add(ctx, 1)
}

// ConnectionClosed は接続の終了を記録する
func (m *Metrics) ConnectionClosed(ctx context.Context) {
	m.connActive.Add(ctx, -1)
}

// FibComputed はフィボナッチ計算を記録する
func (m *Metrics) FibComputed(ctx context.Context, n uint32, d time.Duration) {
	attrs := metric.WithAttributes(attribute.Int64("fib.n", int64(n)))
	m.fibComputations.Add(ctx, 1, attrs)
	m.fibDuration.Record(ctx, d.Seconds(), attrs)
}

// StaticServed は静的ファイル要求の結果を記録する
func (m *Metrics) StaticServed(ctx context.Context, status int) {
	m.staticRequests.Add(ctx, 1, metric.WithAttributes(attribute.Int("http.response.status_code", status)))
}
