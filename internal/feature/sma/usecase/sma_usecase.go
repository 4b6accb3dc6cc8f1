package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
	pricesusecase "stocks_bot/internal/feature/prices/usecase"
	"stocks_bot/internal/feature/sma/domain/entity"
)

const (
	ShortWindow = 50
	LongWindow  = 200

	// 取得期間: 昨日から遡って LookbackDays 日（週末・祝日分の余裕を含む）
	LookbackDays = 250 + 150
)

// SeriesGetter はキャッシュ優先で日足を返します。
type SeriesGetter interface {
	GetSeries(ctx context.Context, key pricesentity.QueryKey) (pricesusecase.Result, error)
}

// SMAUsecase は50日・200日単純移動平均を計算するユースケースです。
type SMAUsecase struct {
	series SeriesGetter
	now    func() time.Time
}

// NewSMAUsecase は新しい SMAUsecase を作成します。
func NewSMAUsecase(series SeriesGetter) *SMAUsecase {
	return &SMAUsecase{series: series, now: time.Now}
}

// DailyWindow は分析に使う日足のクエリキーを返します。
// 同じ日の分析は同じキーになるため、2回目以降はキャッシュから返ります。
func DailyWindow(ticker string, now time.Time) (pricesentity.QueryKey, error) {
	to := now.UTC().AddDate(0, 0, -1)
	from := to.AddDate(0, 0, -LookbackDays)
	return pricesentity.NewQueryKey(ticker, 1, string(pricesentity.TimespanDay),
		from.Format(pricesentity.DateLayout), to.Format(pricesentity.DateLayout))
}

// Analyze は ticker の日足から SMA50/SMA200 とトレンドを求めます。
func (u *SMAUsecase) Analyze(ctx context.Context, ticker string) (*entity.Analysis, error) {
	key, err := DailyWindow(ticker, u.now())
	if err != nil {
		return nil, err
	}

	res, err := u.series.GetSeries(ctx, key)
	if err != nil {
		return nil, err
	}
	bars := res.Bars
	if len(bars) < LongWindow {
		return nil, &InsufficientHistoryError{Have: len(bars), Need: LongWindow}
	}

	ts := toTimeSeries(bars)
	last := ts.LastIndex()
	closes := techan.NewClosePriceIndicator(ts)
	sma50 := techan.NewSimpleMovingAverage(closes, ShortWindow).Calculate(last)
	sma200 := techan.NewSimpleMovingAverage(closes, LongWindow).Calculate(last)
	current := ts.LastCandle().ClosePrice

	a := &entity.Analysis{
		Ticker:        ticker,
		CurrentPrice:  current.Float(),
		FirstDate:     bars[0].Time,
		LastDate:      bars[len(bars)-1].Time,
		SMA50:         sma50.Float(),
		SMA200:        sma200.Float(),
		PriceVsSMA50:  percentFrom(current, sma50),
		PriceVsSMA200: percentFrom(current, sma200),
		Trend:         trendOf(sma50, sma200),
		TotalDays:     len(bars),
	}
	slog.Info("sma analysis completed", "ticker", ticker, "source", res.Source, "bars", a.TotalDays, "trend", a.Trend)
	return a, nil
}

func toTimeSeries(bars []pricesentity.Bar) *techan.TimeSeries {
	ts := techan.NewTimeSeries()
	for _, b := range bars {
		// 日足の間隔は夏時間の切り替えで23時間になることがあるため、期間は短く取る
		c := techan.NewCandle(techan.NewTimePeriod(b.Time, time.Hour))
		c.OpenPrice = big.NewDecimal(b.Open)
		c.MaxPrice = big.NewDecimal(b.High)
		c.MinPrice = big.NewDecimal(b.Low)
		c.ClosePrice = big.NewDecimal(b.Close)
		c.Volume = big.NewDecimal(b.Volume)
		if !ts.AddCandle(c) {
			slog.Warn("skipping out of order bar", "time", b.Time)
		}
	}
	return ts
}

func trendOf(short, long big.Decimal) entity.Trend {
	switch short.Cmp(long) {
	case 1:
		return entity.TrendBullish
	case -1:
		return entity.TrendBearish
	default:
		return entity.TrendCrossover
	}
}

// percentFrom は (price - base) / base * 100 を返します。
func percentFrom(price, base big.Decimal) float64 {
	if base.IsZero() {
		return 0
	}
	return price.Sub(base).Div(base).Mul(big.NewDecimal(100)).Float()
}
