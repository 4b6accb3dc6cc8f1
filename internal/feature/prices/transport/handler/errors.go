package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stocks_bot/internal/feature/prices/domain"
	"stocks_bot/internal/feature/prices/transport/http/dto"
)

// StatusFor はドメインエラーをHTTPステータスに変換します。
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTicker),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidMultiplier),
		errors.Is(err, domain.ErrInvalidTimespan),
		errors.Is(err, domain.ErrUnsupportedChartType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// WriteError はエラーをJSONで返します。
func WriteError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), dto.ErrorResponse{Error: err.Error()})
}
