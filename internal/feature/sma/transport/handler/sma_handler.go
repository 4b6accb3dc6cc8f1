// Package handler はsma機能のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	priceshandler "stocks_bot/internal/feature/prices/transport/handler"
	"stocks_bot/internal/feature/prices/transport/http/dto"
	"stocks_bot/internal/feature/sma/domain/entity"
	"stocks_bot/internal/feature/sma/usecase"
)

// SMAUsecase は移動平均分析のユースケースインターフェースです。
type SMAUsecase interface {
	Analyze(ctx context.Context, ticker string) (*entity.Analysis, error)
}

// SMAHandler は移動平均分析のHTTPリクエストを処理します。
type SMAHandler struct {
	uc SMAUsecase
}

// NewSMAHandler は新しい SMAHandler を作成します。
func NewSMAHandler(uc SMAUsecase) *SMAHandler {
	return &SMAHandler{uc: uc}
}

// GetAnalysis は SMA50/SMA200 の分析結果を返します。
//
// エンドポイント例:
// GET /v1/sma/AAPL
func (h *SMAHandler) GetAnalysis(c *gin.Context) {
	a, err := h.uc.Analyze(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		if errors.Is(err, usecase.ErrInsufficientHistory) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
			return
		}
		priceshandler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
