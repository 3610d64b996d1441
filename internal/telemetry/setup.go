// Package telemetry は OpenTelemetry のプロバイダーと計測器を管理する。
//
// OTLPエンドポイントが設定されている場合のみ、トレース・メトリクス・ログを
// OTLP/gRPC で送信する。未設定の場合はグローバルの no-op プロバイダーのまま。
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"yatai/internal/config"
)

// Provider は Setup で登録したプロバイダーを保持する
type Provider struct {
	// LogHandler はOTLPへログを送る slog.Handler。無効時は nil
	LogHandler slog.Handler

	shutdowns []func(context.Context) error
}

// Enabled はOTLP送信が有効かを返す
func (p *Provider) Enabled() bool {
	return len(p.shutdowns) > 0
}

// Setup は設定に従ってプロバイダーを作成し、グローバルに登録する
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	p := &Provider{}
	if cfg.OTLPEndpoint == "" {
		return p, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("リソースの作成に失敗: %w", err)
	}

	traceExp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("トレースエクスポーターの作成に失敗: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res))
	p.shutdowns = append(p.shutdowns, tp.Shutdown)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	metricExp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("メトリクスエクスポーターの作成に失敗: %w", err), p.Shutdown(ctx))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res))
	p.shutdowns = append(p.shutdowns, mp.Shutdown)
	otel.SetMeterProvider(mp)

	logExp, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlploggrpc.WithInsecure())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("ログエクスポーターの作成に失敗: %w", err), p.Shutdown(ctx))
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
		sdklog.WithResource(res))
	p.shutdowns = append(p.shutdowns, lp.Shutdown)
	global.SetLoggerProvider(lp)

	p.LogHandler = otelslog.NewHandler(ScopeName, otelslog.WithLoggerProvider(lp))

	return p, nil
}

// Shutdown は登録したプロバイダーを逆順に停止する
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.shutdowns) - 1; i >= 0; i-- {
		if err := p.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	p.shutdowns = nil
	return errors.Join(errs...)
}
