// Package handler はprices機能のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stocks_bot/internal/feature/prices/domain/entity"
	"stocks_bot/internal/feature/prices/transport/http/dto"
	"stocks_bot/internal/feature/prices/usecase"
)

// SeriesUsecase は過去価格取得のユースケースインターフェースです。
type SeriesUsecase interface {
	GetSeries(ctx context.Context, key entity.QueryKey) (usecase.Result, error)
}

// SeriesHandler は過去価格のHTTPリクエストを処理します。
type SeriesHandler struct {
	uc SeriesUsecase
}

// NewSeriesHandler は新しい SeriesHandler を作成します。
func NewSeriesHandler(uc SeriesUsecase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

// GetSeries はクエリキーに一致する足をJSONで返します。
//
// エンドポイント例:
// GET /v1/series/AAPL?multiplier=1&timespan=day&from=2024-01-01&to=2024-01-31
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	multiplier, err := entity.ParseMultiplier(c.DefaultQuery("multiplier", "1"))
	if err != nil {
		WriteError(c, err)
		return
	}
	key, err := entity.NewQueryKey(
		c.Param("ticker"),
		multiplier,
		c.DefaultQuery("timespan", string(entity.TimespanDay)),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		WriteError(c, err)
		return
	}

	res, err := h.uc.GetSeries(c.Request.Context(), key)
	if err != nil {
		WriteError(c, err)
		return
	}

	out := dto.SeriesResponse{
		Ticker:     key.Ticker,
		Multiplier: key.Multiplier,
		Timespan:   string(key.Timespan),
		From:       key.FromDate(),
		To:         key.ToDate(),
		Source:     string(res.Source),
		Bars:       make([]dto.BarResponse, 0, len(res.Bars)),
	}
	for _, b := range res.Bars {
		out.Bars = append(out.Bars, dto.BarResponse{
			Time:   b.Time.Format(time.RFC3339),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	c.Header("X-Cache", strconv.FormatBool(res.Source == entity.SourceCache))
	c.JSON(http.StatusOK, out)
}
