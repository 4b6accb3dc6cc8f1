// Package adapters はprices機能の永続化アダプターを提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocks_bot/internal/feature/prices/domain"
	"stocks_bot/internal/feature/prices/domain/entity"
	"stocks_bot/internal/feature/prices/usecase"
)

// insertBatchSize は hist_prices_results への一括INSERT件数です。
const insertBatchSize = 500

// errAlreadyCached は同一キーのレコードが既に存在する場合にトランザクションを巻き戻すための内部エラーです。
var errAlreadyCached = errors.New("query already cached")

type seriesCacheGorm struct {
	db  *gorm.DB
	loc *time.Location
}

var _ usecase.CacheStore = (*seriesCacheGorm)(nil)

// NewSeriesCache はキャッシュストアを生成します。
// loc は読み出した足のタイムスタンプを変換する表示用タイムゾーンです（nil の場合はUTC）。
func NewSeriesCache(db *gorm.DB, loc *time.Location) *seriesCacheGorm {
	if loc == nil {
		loc = time.UTC
	}
	return &seriesCacheGorm{db: db, loc: loc}
}

// RequestParamsModel は request_params テーブルの1行（クエリキー）です。
// 5項目の複合ユニークインデックスにより同一キーの重複登録を防ぎます。
type RequestParamsModel struct {
	ID         uint      `gorm:"primaryKey"`
	Ticker     string    `gorm:"size:10;not null;uniqueIndex:request_params_key,priority:1"`
	Multiplier int       `gorm:"not null;uniqueIndex:request_params_key,priority:2"`
	Timespan   string    `gorm:"size:10;not null;uniqueIndex:request_params_key,priority:3"`
	FromDate   string    `gorm:"size:10;not null;uniqueIndex:request_params_key,priority:4"`
	ToDate     string    `gorm:"size:10;not null;uniqueIndex:request_params_key,priority:5"`
	CreatedAt  time.Time `gorm:"not null"`

	Results []HistPriceModel `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

func (RequestParamsModel) TableName() string {
	return "request_params"
}

// HistPriceModel は hist_prices_results テーブルの1行（足1本）です。
type HistPriceModel struct {
	ID        uint      `gorm:"primaryKey"`
	RequestID uint      `gorm:"not null;uniqueIndex:hist_prices_request_ts,priority:1"`
	Timestamp time.Time `gorm:"not null;uniqueIndex:hist_prices_request_ts,priority:2"`
	Volume    float64   `gorm:"not null"`
	Open      float64   `gorm:"not null"`
	Close     float64   `gorm:"not null"`
	High      float64   `gorm:"not null"`
	Low       float64   `gorm:"not null"`
}

func (HistPriceModel) TableName() string {
	return "hist_prices_results"
}

func toRequestModel(key entity.QueryKey) RequestParamsModel {
	return RequestParamsModel{
		Ticker:     key.Ticker,
		Multiplier: key.Multiplier,
		Timespan:   string(key.Timespan),
		FromDate:   key.FromDate(),
		ToDate:     key.ToDate(),
	}
}

func toPriceModels(requestID uint, bars []entity.Bar) []HistPriceModel {
	ms := make([]HistPriceModel, 0, len(bars))
	for _, b := range bars {
		ms = append(ms, HistPriceModel{
			RequestID: requestID,
			Timestamp: b.Time.UTC(),
			Volume:    b.Volume,
			Open:      b.Open,
			Close:     b.Close,
			High:      b.High,
			Low:       b.Low,
		})
	}
	return ms
}

// Lookup は5項目が完全一致するクエリの足をタイムスタンプ昇順で返します。
// 範囲が重なるだけのクエリはミスとして扱います。
func (r *seriesCacheGorm) Lookup(ctx context.Context, key entity.QueryKey) ([]entity.Bar, bool, error) {
	m := toRequestModel(key)

	var req RequestParamsModel
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND multiplier = ? AND timespan = ? AND from_date = ? AND to_date = ?",
			m.Ticker, m.Multiplier, m.Timespan, m.FromDate, m.ToDate).
		Take(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: lookup request params: %w", domain.ErrCacheUnavailable, err)
	}

	var rows []HistPriceModel
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", req.ID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Find(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("%w: load cached bars: %w", domain.ErrCacheUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	out := make([]entity.Bar, 0, len(rows))
	for _, p := range rows {
		out = append(out, entity.Bar{
			Time:   p.Timestamp.In(r.loc),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}
	return out, true, nil
}

// Store はクエリキーと足を1トランザクションで保存します。
// 同一キーが既に存在する場合は何もせず nil を返します（先に保存されたレコードを不変のまま残す）。
func (r *seriesCacheGorm) Store(ctx context.Context, key entity.QueryKey, bars []entity.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req := toRequestModel(key)
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&req)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyCached
		}
		prices := toPriceModels(req.ID, bars)
		return tx.CreateInBatches(&prices, insertBatchSize).Error
	})
	if errors.Is(err, errAlreadyCached) {
		slog.Debug("query already cached, skipping store", "key", key.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: store %s: %w", domain.ErrCacheUnavailable, key.String(), err)
	}
	return nil
}
