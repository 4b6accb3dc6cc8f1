// Package usecase は過去価格の取得（キャッシュ→API→書き込み）とチャート生成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"stocks_bot/internal/feature/prices/domain"
	"stocks_bot/internal/feature/prices/domain/entity"
)

// CacheStore はクエリキー単位の価格キャッシュを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CacheStore interface {
	// Lookup は5項目すべてが一致するキャッシュを昇順で返します。見つからない場合は ok=false です。
	Lookup(ctx context.Context, key entity.QueryKey) (bars []entity.Bar, ok bool, err error)
	// Store はキーと足を不変のレコードとして保存します。同一キーが既にある場合は何もしません。
	Store(ctx context.Context, key entity.QueryKey, bars []entity.Bar) error
}

// MarketClient は外部APIから価格系列を取得するインターフェースです。
type MarketClient interface {
	FetchSeries(ctx context.Context, key entity.QueryKey) ([]entity.Bar, error)
}

// EventPublisher はリクエスト結果の監査イベントを送信します。
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.FetchEvent) error
}

// Result は GetSeries の結果です。
type Result struct {
	Bars   []entity.Bar
	Source entity.Source
}

// SeriesUsecase はキャッシュ優先で価格系列を取得するユースケースです。
// 同一キーへの同時リクエストは singleflight で1回のAPI呼び出しにまとめます。
type SeriesUsecase struct {
	cache  CacheStore
	market MarketClient
	events EventPublisher
	group  singleflight.Group
	now    func() time.Time

	// fetchTimeout は共有フェッチ1回あたりの上限です。
	fetchTimeout time.Duration
}

// DefaultFetchTimeout は共有フェッチの既定の上限です。
const DefaultFetchTimeout = 2 * time.Minute

// NewSeriesUsecase は新しい SeriesUsecase を作成します。events は nil でも構いません。
func NewSeriesUsecase(cache CacheStore, market MarketClient, events EventPublisher) *SeriesUsecase {
	return &SeriesUsecase{cache: cache, market: market, events: events, now: time.Now, fetchTimeout: DefaultFetchTimeout}
}

// GetSeries は指定キーの価格系列を返します。
//
//  1. キャッシュを検索し、ヒットすればそのまま返す（鮮度チェックなし）
//  2. ミス時は外部APIを呼び出し、正規化する
//  3. 空でなければキャッシュへ書き込み（失敗してもログのみ）、系列を返す
//
// 0件の場合は domain.ErrNoData を返し、空のレコードは保存しません。
// キャッシュ障害は呼び出し元に伝播しません。
func (u *SeriesUsecase) GetSeries(ctx context.Context, key entity.QueryKey) (Result, error) {
	start := u.now()

	if bars, ok := u.lookup(ctx, key); ok {
		res := Result{Bars: bars, Source: entity.SourceCache}
		u.publish(ctx, key, res, nil, start)
		return res, nil
	}

	// 共有フェッチは特定の呼び出し元のキャンセルに巻き込まれないよう切り離して実行し、
	// 各呼び出し元は自分の ctx でだけ待ちを打ち切る
	ch := u.group.DoChan(key.String(), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.fetchTimeout)
		defer cancel()
		// 先行リクエストが書き込み済みの可能性があるため再確認する
		if bars, ok := u.lookup(fctx, key); ok {
			return Result{Bars: bars, Source: entity.SourceCache}, nil
		}
		return u.fetchAndStore(fctx, key)
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		err := ctx.Err()
		u.publish(ctx, key, Result{}, err, start)
		return Result{}, err
	case r = <-ch:
	}
	if r.Err != nil {
		u.publish(ctx, key, Result{}, r.Err, start)
		return Result{}, r.Err
	}

	res := r.Val.(Result)
	if r.Shared {
		// 共有結果は呼び出し元ごとにコピーする
		res.Bars = slices.Clone(res.Bars)
	}
	u.publish(ctx, key, res, nil, start)
	return res, nil
}

func (u *SeriesUsecase) fetchAndStore(ctx context.Context, key entity.QueryKey) (Result, error) {
	raw, err := u.market.FetchSeries(ctx, key)
	if err != nil {
		slog.Warn("failed to fetch series", "key", key.String(), "error", err)
		return Result{}, err
	}

	bars, dropped := entity.Normalize(raw)
	if dropped > 0 {
		slog.Warn("dropped malformed or duplicate bars", "key", key.String(), "dropped", dropped)
	}
	if len(bars) == 0 {
		return Result{}, domain.ErrNoData
	}

	if err := u.cache.Store(ctx, key, bars); err != nil {
		slog.Error("failed to store series in cache", "key", key.String(), "error", err)
	}
	return Result{Bars: bars, Source: entity.SourceUpstream}, nil
}

// lookup はキャッシュ障害をミスとして扱います。
func (u *SeriesUsecase) lookup(ctx context.Context, key entity.QueryKey) ([]entity.Bar, bool) {
	bars, ok, err := u.cache.Lookup(ctx, key)
	if err != nil {
		slog.Error("cache lookup failed, treating as miss", "key", key.String(), "error", err)
		return nil, false
	}
	if !ok || len(bars) == 0 {
		return nil, false
	}
	return bars, true
}

func (u *SeriesUsecase) publish(ctx context.Context, key entity.QueryKey, res Result, err error, start time.Time) {
	if u.events == nil {
		return
	}
	ev := entity.FetchEvent{
		Ticker:     key.Ticker,
		Multiplier: key.Multiplier,
		Timespan:   string(key.Timespan),
		From:       key.FromDate(),
		To:         key.ToDate(),
		Source:     res.Source,
		Bars:       len(res.Bars),
		Outcome:    Outcome(err),
		Duration:   u.now().Sub(start).Milliseconds(),
		At:         u.now(),
	}
	if err := u.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		slog.Warn("failed to publish fetch event", "key", key.String(), "error", err)
	}
}

// Outcome はエラーを監査・メトリクス用の短いラベルに変換します。
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoData):
		return "no_data"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "upstream_error"
	}
}
