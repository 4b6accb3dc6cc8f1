package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stocks_bot/internal/feature/prices/domain/entity"
)

// SeriesGetter はキャッシュ優先で価格系列を返します。
type SeriesGetter interface {
	GetSeries(ctx context.Context, key entity.QueryKey) (Result, error)
}

// ChartRenderer は価格系列を画像ファイルに描画します。
// outputPath が空の場合はタイムスタンプ付きの一意なパスを生成し、そのパスを返します。
type ChartRenderer interface {
	Render(bars []entity.Bar, ticker string, chartType entity.ChartType, outputPath string) (string, error)
}

// ChartUsecase は過去価格チャートを生成するユースケースです。
type ChartUsecase struct {
	series   SeriesGetter
	renderer ChartRenderer
}

// NewChartUsecase は新しい ChartUsecase を作成します。
func NewChartUsecase(series SeriesGetter, renderer ChartRenderer) *ChartUsecase {
	return &ChartUsecase{series: series, renderer: renderer}
}

// HistoricalChart は価格系列を取得してチャートを描画し、画像のパスを返します。
// 画像ファイルの削除は呼び出し元の責任です。
func (u *ChartUsecase) HistoricalChart(ctx context.Context, key entity.QueryKey, chartType entity.ChartType) (string, error) {
	res, err := u.series.GetSeries(ctx, key)
	if err != nil {
		return "", err
	}

	path, err := u.renderer.Render(res.Bars, key.Ticker, chartType, "")
	if err != nil {
		slog.Error("failed to render chart", "key", key.String(), "chart_type", chartType, "error", err)
		return "", fmt.Errorf("render %s chart: %w", chartType, err)
	}
	slog.Info("chart generated", "key", key.String(), "source", res.Source, "bars", len(res.Bars), "path", path)
	return path, nil
}
