package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fulldataentity "stocks_bot/internal/feature/fulldata/domain/entity"
	"stocks_bot/internal/feature/prices/domain"
	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
	smaentity "stocks_bot/internal/feature/sma/domain/entity"
	smausecase "stocks_bot/internal/feature/sma/usecase"
)

type stubCharts struct {
	path string
	err  error
}

func (s stubCharts) HistoricalChart(ctx context.Context, key pricesentity.QueryKey, chartType pricesentity.ChartType) (string, error) {
	return s.path, s.err
}

type stubSMA struct {
	analysis *smaentity.Analysis
	err      error
}

func (s stubSMA) Analyze(ctx context.Context, ticker string) (*smaentity.Analysis, error) {
	return s.analysis, s.err
}

type stubFullData struct {
	snapshot *fulldataentity.Snapshot
	err      error
}

func (s stubFullData) Snapshot(ctx context.Context, ticker string) (*fulldataentity.Snapshot, error) {
	return s.snapshot, s.err
}

func chartJob(t *testing.T) Job {
	t.Helper()
	key, err := pricesentity.NewQueryKey("AAPL", 1, "day", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	return Job{Kind: JobChart, ChatID: testChat, UserID: testUser, Ticker: "AAPL", Key: key, ChartType: pricesentity.ChartLine}
}

func TestJobRunner_Chart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		charts   stubCharts
		wantText string
	}{
		{"error: no data", stubCharts{err: fmt.Errorf("get series: %w", domain.ErrNoData)}, ErrorNoData},
		{"error: rate limited", stubCharts{err: domain.ErrRateLimited}, ErrorAPILimit},
		{"error: upstream", stubCharts{err: domain.ErrUpstreamUnavailable}, ErrorUpstream},
		{"error: timeout", stubCharts{err: context.DeadlineExceeded}, ErrorTimeout},
		{"error: render", stubCharts{err: errors.New("disk full")}, ErrorUnexpected},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewJobRunner(tt.charts, stubSMA{}, stubFullData{})
			replies := r.Run(context.Background(), chartJob(t))
			require.Len(t, replies, 1)
			assert.Equal(t, tt.wantText, replies[0].Text)
			assert.Empty(t, replies[0].PhotoPath)
			assert.Equal(t, MainMenuKeyboard(), replies[0].Keyboard)
		})
	}

	t.Run("success: photo then confirmation", func(t *testing.T) {
		t.Parallel()
		r := NewJobRunner(stubCharts{path: "/tmp/AAPL.png"}, stubSMA{}, stubFullData{})
		replies := r.Run(context.Background(), chartJob(t))
		require.Len(t, replies, 2)
		assert.Equal(t, "/tmp/AAPL.png", replies[0].PhotoPath)
		assert.Equal(t, "📈 AAPL - 2024-01-01 to 2024-01-31", replies[0].Caption)
		assert.True(t, replies[0].DeleteAfterSend)
		assert.Equal(t, SuccessChartGenerated, replies[1].Text)
	})
}

func TestJobRunner_SMA(t *testing.T) {
	t.Parallel()

	analysis := &smaentity.Analysis{
		Ticker:        "AAPL",
		CurrentPrice:  190.5,
		FirstDate:     time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC),
		LastDate:      time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		SMA50:         180,
		SMA200:        170,
		PriceVsSMA50:  5.83,
		PriceVsSMA200: 12.06,
		Trend:         smaentity.TrendBullish,
		TotalDays:     273,
	}

	tests := []struct {
		name     string
		sma      stubSMA
		contains string
	}{
		{"success: analysis", stubSMA{analysis: analysis}, "📊 **ANÁLISIS SMA - AAPL**"},
		{"error: insufficient history", stubSMA{err: &smausecase.InsufficientHistoryError{Have: 120, Need: 200}}, "(solo 120 días disponibles)"},
		{"error: no data", stubSMA{err: domain.ErrNoData}, ErrorNoAnalysis},
		{"error: rate limited", stubSMA{err: domain.ErrRateLimited}, ErrorAPILimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewJobRunner(stubCharts{}, tt.sma, stubFullData{})
			replies := r.Run(context.Background(), Job{Kind: JobSMA, Ticker: "AAPL"})
			require.Len(t, replies, 1)
			assert.Contains(t, replies[0].Text, tt.contains)
			assert.True(t, replies[0].Markdown)
		})
	}
}

func TestJobRunner_FullData(t *testing.T) {
	t.Parallel()

	t.Run("error: no data names the ticker", func(t *testing.T) {
		t.Parallel()
		r := NewJobRunner(stubCharts{}, stubSMA{}, stubFullData{err: domain.ErrNoData})
		replies := r.Run(context.Background(), Job{Kind: JobFullData, Ticker: "ZZZZ"})
		require.Len(t, replies, 1)
		assert.Equal(t, "❌ No se pudieron obtener datos para ZZZZ. Verifica que el ticker sea válido.", replies[0].Text)
	})

	t.Run("success: snapshot", func(t *testing.T) {
		t.Parallel()
		r := NewJobRunner(stubCharts{}, stubSMA{}, stubFullData{snapshot: testSnapshot(nil)})
		replies := r.Run(context.Background(), Job{Kind: JobFullData, Ticker: "AAPL"})
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0].Text, "📋 **INFORMACIÓN COMPLETA - AAPL**")
	})
}

func TestJobRunner_UnknownKind(t *testing.T) {
	t.Parallel()

	r := NewJobRunner(stubCharts{}, stubSMA{}, stubFullData{})
	replies := r.Run(context.Background(), Job{Kind: "bogus"})
	require.Len(t, replies, 1)
	assert.Equal(t, ErrorUnexpected, replies[0].Text)
}

func TestErrorText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidTicker, ErrorInvalidTicker},
		{domain.ErrInvalidDate, ErrorInvalidDate},
		{domain.ErrInvalidRange, ErrorInvalidRange},
		{domain.ErrInvalidMultiplier, ErrorInvalidMultiplier},
		{domain.ErrInvalidTimespan, ErrorInvalidPeriod},
		{domain.ErrUnsupportedChartType, ErrorInvalidChartType},
		{fmt.Errorf("wrapped: %w", domain.ErrRateLimited), ErrorAPILimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorText(tt.err), tt.err.Error())
	}
}

func testSnapshot(details *pricesentity.TickerDetails) *fulldataentity.Snapshot {
	return &fulldataentity.Snapshot{
		Ticker:    "AAPL",
		Date:      time.Date(2024, 6, 7, 4, 0, 0, 0, time.UTC),
		Open:      decimal.RequireFromString("194.65"),
		High:      decimal.RequireFromString("196.94"),
		Low:       decimal.RequireFromString("194.14"),
		Close:     decimal.RequireFromString("196.89"),
		Volume:    decimal.NewFromInt(53_103_912),
		Change:    decimal.RequireFromString("2.24"),
		ChangePct: decimal.RequireFromString("1.1508"),
		Range:     decimal.RequireFromString("2.80"),
		RangePct:  decimal.RequireFromString("1.4423"),
		Direction: fulldataentity.DirectionUp,
		Details:   details,
	}
}

func TestFormatSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("success: without details", func(t *testing.T) {
		t.Parallel()
		msg := FormatSnapshot(testSnapshot(nil))
		for _, want := range []string{
			"📅 Fecha: 2024-06-07",
			"🕐 Hora: 04:00:00 UTC",
			"💰 Precio de Cierre: $196.89",
			"🟢 +1.15% ($2.24)",
			"📊 Volumen: 53.10M acciones",
			"↕️ $194.14 - $196.94",
			"Amplitud: $2.80 (1.44%)",
		} {
			assert.Contains(t, msg, want)
		}
		assert.NotContains(t, msg, "Información del Ticker")
		assert.True(t, strings.HasSuffix(msg, "(pueden tener retraso de unos días)."))
	})

	t.Run("success: details with missing fields", func(t *testing.T) {
		t.Parallel()
		msg := FormatSnapshot(testSnapshot(&pricesentity.TickerDetails{
			Ticker: "AAPL",
			Name:   "Apple Inc.",
			Market: "stocks",
			Locale: "us",
		}))
		assert.Contains(t, msg, "🏢 Mercado: stocks")
		assert.Contains(t, msg, "🏦 Bolsa Principal: N/A")
		assert.Contains(t, msg, "💵 Moneda: N/A")
		assert.Contains(t, msg, "**Compañía:** Apple Inc.")
	})
}

func TestFormatSMA(t *testing.T) {
	t.Parallel()

	a := &smaentity.Analysis{
		Ticker:        "TSLA",
		CurrentPrice:  100,
		FirstDate:     time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		LastDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		SMA50:         110,
		SMA200:        120,
		PriceVsSMA50:  -9.0909,
		PriceVsSMA200: -16.6667,
		Trend:         smaentity.TrendBearish,
		TotalDays:     250,
	}
	msg := FormatSMA(a)
	for _, want := range []string{
		"📅 Fechas calculadas: 2023-01-03 - 2024-01-02",
		"💰 Precio Actual: $100.00",
		"📉 SMA 200 días: $120.00",
		"→ Precio vs SMA200: -16.67%",
		"→ Precio vs SMA50: -9.09%",
		"🔴 **BAJISTA (Bearish)**",
		"por debajo de la SMA 200",
	} {
		assert.Contains(t, msg, want)
	}
	assert.Equal(t, ErrorNoAnalysis, FormatSMA(nil))
}
