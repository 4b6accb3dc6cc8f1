// Package usecase は直近の価格スナップショットを組み立てます。
package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
	"stocks_bot/internal/feature/fulldata/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// QuoteSource は直近の日足と銘柄情報を提供します。
type QuoteSource interface {
	FetchLatestQuote(ctx context.Context, ticker string) (pricesentity.Bar, error)
	FetchTickerDetails(ctx context.Context, ticker string) (pricesentity.TickerDetails, error)
}

// FullDataUsecase は Full Data 機能のユースケースです。
type FullDataUsecase struct {
	quotes QuoteSource
}

// NewFullDataUsecase は新しい FullDataUsecase を作成します。
func NewFullDataUsecase(quotes QuoteSource) *FullDataUsecase {
	return &FullDataUsecase{quotes: quotes}
}

// Snapshot は ticker の直近の日足を取得し、変化率と値幅を計算します。
// 日足は必須、銘柄情報は取得できなくても続行します。
func (u *FullDataUsecase) Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error) {
	if err := pricesentity.ValidateTicker(ticker); err != nil {
		return nil, err
	}

	var (
		quote   pricesentity.Bar
		details *pricesentity.TickerDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = u.quotes.FetchLatestQuote(gctx, ticker)
		return err
	})
	g.Go(func() error {
		d, err := u.quotes.FetchTickerDetails(gctx, ticker)
		if err != nil {
			slog.Warn("ticker details unavailable", "ticker", ticker, "error", err)
			return nil
		}
		details = &d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := Compute(ticker, quote)
	s.Details = details
	return s, nil
}

// Compute は日足1本から変化率と値幅を計算します。
func Compute(ticker string, q pricesentity.Bar) *entity.Snapshot {
	o := decimal.NewFromFloat(q.Open)
	h := decimal.NewFromFloat(q.High)
	l := decimal.NewFromFloat(q.Low)
	c := decimal.NewFromFloat(q.Close)

	s := &entity.Snapshot{
		Ticker:    ticker,
		Quote:     q,
		Date:      q.Time,
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    decimal.NewFromFloat(q.Volume),
		Change:    c.Sub(o),
		Range:     h.Sub(l),
		Direction: entity.DirectionUnknown,
	}
	if o.IsPositive() {
		s.ChangePct = c.Sub(o).Div(o).Mul(hundred)
		s.Direction = entity.DirectionUp
		if s.ChangePct.IsNegative() {
			s.Direction = entity.DirectionDown
		}
	}
	if l.IsPositive() {
		s.RangePct = h.Sub(l).Div(l).Mul(hundred)
	}
	return s
}
