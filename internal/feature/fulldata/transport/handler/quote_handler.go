// Package handler はfulldata機能のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocks_bot/internal/feature/fulldata/domain/entity"
	priceshandler "stocks_bot/internal/feature/prices/transport/handler"
)

// FullDataUsecase は直近スナップショット取得のユースケースインターフェースです。
type FullDataUsecase interface {
	Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error)
}

// QuoteHandler は直近の価格情報のHTTPリクエストを処理します。
type QuoteHandler struct {
	uc FullDataUsecase
}

// NewQuoteHandler は新しい QuoteHandler を作成します。
func NewQuoteHandler(uc FullDataUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// GetQuote は直近の取引日の価格と銘柄情報を返します。
//
// エンドポイント例:
// GET /v1/quote/AAPL
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	s, err := h.uc.Snapshot(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		priceshandler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
