package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocks_bot/internal/feature/prices/domain"
	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
	pricesusecase "stocks_bot/internal/feature/prices/usecase"
	"stocks_bot/internal/feature/sma/domain/entity"
)

type mockSeriesGetter struct {
	GetSeriesFunc func(ctx context.Context, key pricesentity.QueryKey) (pricesusecase.Result, error)
}

func (m *mockSeriesGetter) GetSeries(ctx context.Context, key pricesentity.QueryKey) (pricesusecase.Result, error) {
	return m.GetSeriesFunc(ctx, key)
}

// dailyBars は closeAt(i) を終値とする n 本の日足を作成します。
func dailyBars(n int, closeAt func(i int) float64) []pricesentity.Bar {
	loc, _ := time.LoadLocation("America/New_York")
	base := time.Date(2023, 1, 3, 0, 0, 0, 0, loc)
	out := make([]pricesentity.Bar, 0, n)
	for i := 0; i < n; i++ {
		c := closeAt(i)
		out = append(out, pricesentity.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return out
}

var fixedNow = time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

func newUsecase(bars []pricesentity.Bar, err error) (*SMAUsecase, *pricesentity.QueryKey) {
	var got pricesentity.QueryKey
	uc := NewSMAUsecase(&mockSeriesGetter{
		GetSeriesFunc: func(ctx context.Context, key pricesentity.QueryKey) (pricesusecase.Result, error) {
			got = key
			if err != nil {
				return pricesusecase.Result{}, err
			}
			return pricesusecase.Result{Bars: bars, Source: pricesentity.SourceUpstream}, nil
		},
	})
	uc.now = func() time.Time { return fixedNow }
	return uc, &got
}

func TestSMAUsecase_Analyze_Trends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		closeAt   func(i int) float64
		wantTrend entity.Trend
	}{
		{
			name:      "success: rising prices are bullish",
			closeAt:   func(i int) float64 { return 100 + float64(i) },
			wantTrend: entity.TrendBullish,
		},
		{
			name:      "success: falling prices are bearish",
			closeAt:   func(i int) float64 { return 400 - float64(i) },
			wantTrend: entity.TrendBearish,
		},
		{
			name:      "success: flat prices are a crossover",
			closeAt:   func(i int) float64 { return 150 },
			wantTrend: entity.TrendCrossover,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bars := dailyBars(250, tt.closeAt)
			uc, _ := newUsecase(bars, nil)

			a, err := uc.Analyze(context.Background(), "AAPL")
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrend, a.Trend)
			assert.Equal(t, 250, a.TotalDays)
			assert.Equal(t, "AAPL", a.Ticker)
			assert.True(t, bars[0].Time.Equal(a.FirstDate))
			assert.True(t, bars[249].Time.Equal(a.LastDate))
		})
	}
}

func TestSMAUsecase_Analyze_Values(t *testing.T) {
	t.Parallel()

	// 終値 1..250: SMA50 = 225.5, SMA200 = 150.5
	bars := dailyBars(250, func(i int) float64 { return float64(i + 1) })
	uc, _ := newUsecase(bars, nil)

	a, err := uc.Analyze(context.Background(), "MSFT")
	require.NoError(t, err)

	assert.InDelta(t, 250.0, a.CurrentPrice, 1e-9)
	assert.InDelta(t, 225.5, a.SMA50, 1e-9)
	assert.InDelta(t, 150.5, a.SMA200, 1e-9)
	assert.InDelta(t, (250-225.5)/225.5*100, a.PriceVsSMA50, 1e-6)
	assert.InDelta(t, (250-150.5)/150.5*100, a.PriceVsSMA200, 1e-6)
}

func TestSMAUsecase_Analyze_RequestsDailyWindow(t *testing.T) {
	t.Parallel()

	uc, got := newUsecase(dailyBars(200, func(i int) float64 { return 10 }), nil)

	_, err := uc.Analyze(context.Background(), "TSLA")
	require.NoError(t, err)

	assert.Equal(t, "TSLA", got.Ticker)
	assert.Equal(t, 1, got.Multiplier)
	assert.Equal(t, pricesentity.TimespanDay, got.Timespan)
	assert.Equal(t, "2024-06-09", got.ToDate())
	assert.Equal(t, "2023-05-06", got.FromDate())
}

func TestSMAUsecase_Analyze_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ticker  string
		bars    []pricesentity.Bar
		err     error
		wantErr error
	}{
		{
			name:    "error: invalid ticker",
			ticker:  "aapl",
			wantErr: domain.ErrInvalidTicker,
		},
		{
			name:    "error: no data",
			ticker:  "AAPL",
			err:     domain.ErrNoData,
			wantErr: domain.ErrNoData,
		},
		{
			name:    "error: rate limited",
			ticker:  "AAPL",
			err:     domain.ErrRateLimited,
			wantErr: domain.ErrRateLimited,
		},
		{
			name:    "error: fewer than 200 bars",
			ticker:  "AAPL",
			bars:    dailyBars(199, func(i int) float64 { return 10 }),
			wantErr: ErrInsufficientHistory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, _ := newUsecase(tt.bars, tt.err)

			a, err := uc.Analyze(context.Background(), tt.ticker)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestInsufficientHistoryError(t *testing.T) {
	t.Parallel()

	var err error = &InsufficientHistoryError{Have: 120, Need: LongWindow}

	var target *InsufficientHistoryError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 120, target.Have)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
	assert.Contains(t, err.Error(), "only 120 of 200 days")
}
