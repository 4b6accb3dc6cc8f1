package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stocks_bot/internal/feature/fulldata/domain/entity"
	"stocks_bot/internal/feature/fulldata/transport/handler"
	"stocks_bot/internal/feature/prices/domain"
)

type mockFullDataUsecase struct {
	SnapshotFunc func(ctx context.Context, ticker string) (*entity.Snapshot, error)
}

func (m *mockFullDataUsecase) Snapshot(ctx context.Context, ticker string) (*entity.Snapshot, error) {
	return m.SnapshotFunc(ctx, ticker)
}

func TestQuoteHandler_GetQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		snapshot       func(ctx context.Context, ticker string) (*entity.Snapshot, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: snapshot returned",
			snapshot: func(ctx context.Context, ticker string) (*entity.Snapshot, error) {
				return &entity.Snapshot{
					Ticker:    ticker,
					Date:      time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
					Close:     decimal.RequireFromString("105"),
					ChangePct: decimal.RequireFromString("5"),
					Direction: entity.DirectionUp,
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error: no data",
			snapshot: func(ctx context.Context, ticker string) (*entity.Snapshot, error) {
				return nil, domain.ErrNoData
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"no data for request"}`,
		},
		{
			name: "error: upstream unavailable",
			snapshot: func(ctx context.Context, ticker string) (*entity.Snapshot, error) {
				return nil, domain.ErrUpstreamUnavailable
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewQuoteHandler(&mockFullDataUsecase{SnapshotFunc: tt.snapshot})
			router := gin.New()
			router.GET("/v1/quote/:ticker", h.GetQuote)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quote/AAPL", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			if w.Code == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"ticker":"AAPL"`)
				assert.Contains(t, w.Body.String(), `"close":"105"`)
				assert.NotContains(t, w.Body.String(), `"details"`)
			}
		})
	}
}
