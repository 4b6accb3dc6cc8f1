// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	// Wait は次の呼び出しが許可されるまでブロックします。ctx がキャンセルされた場合はエラーを返します。
	Wait(ctx context.Context) error
}

// RateLimiter は interval あたり limit 回までの呼び出しを許可するトークンバケットです。
type RateLimiter struct {
	limiter  *rate.Limiter
	limit    int           // interval あたりの上限
	interval time.Duration // どの単位でリセットするか
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限なしとして扱います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Every(every), limit),
		limit:    limit,
		interval: interval,
	}
}

// Wait は上限に達している場合、トークンが補充されるまで待機します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return rl.limiter.Wait(ctx)
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	slog.Info("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "delay", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Noop は制限を行わない RateLimiterInterface 実装です。
type Noop struct{}

// Wait は常に即座に戻ります。
func (Noop) Wait(context.Context) error { return nil }
