package cache

import (
	"time"
)

// TimeUntilNext は loc における次の hour 時0分までの期間を返します。
func TimeUntilNext(now time.Time, loc *time.Location, hour int) time.Duration {
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の指定時刻を既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, loc)
	}

	return next.Sub(now)
}
