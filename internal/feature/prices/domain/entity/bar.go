// Package entity はprices機能のドメインエンティティを定義します。
package entity

import (
	"sort"
	"time"
)

// Bar は1本分のOHLCV（始値・高値・安値・終値・出来高）を表します。
type Bar struct {
	Time   time.Time // 足の開始時刻（表示用タイムゾーン）
	Open   float64   // 始値
	High   float64   // 高値
	Low    float64   // 安値
	Close  float64   // 終値
	Volume float64   // 出来高
}

// Valid は low <= open,close <= high を満たし、値が負でないかを判定します。
func (b Bar) Valid() bool {
	if b.Low < 0 || b.Volume < 0 {
		return false
	}
	if b.Low > b.High {
		return false
	}
	return b.Low <= b.Open && b.Open <= b.High &&
		b.Low <= b.Close && b.Close <= b.High
}

// Up は終値が始値以上の場合に true を返します。
func (b Bar) Up() bool {
	return b.Close >= b.Open
}

// Normalize は時系列を昇順に並べ替え、重複するタイムスタンプと不正な足を取り除いた
// 新しいスライスを返します。引数は変更しません。
// 戻り値の2番目は除外した足の本数です。
func Normalize(bars []Bar) ([]Bar, int) {
	out := make([]Bar, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	kept := out[:0]
	dropped := 0
	for _, b := range out {
		if !b.Valid() {
			dropped++
			continue
		}
		if n := len(kept); n > 0 && kept[n-1].Time.Equal(b.Time) {
			dropped++
			continue
		}
		kept = append(kept, b)
	}
	return kept, dropped
}

// Closes は終値のみを取り出します。
func Closes(bars []Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out
}
