package router

import (
	fulldatahandler "stocks_bot/internal/feature/fulldata/transport/handler"
	priceshandler "stocks_bot/internal/feature/prices/transport/handler"
	smahandler "stocks_bot/internal/feature/sma/transport/handler"
	"stocks_bot/internal/platform/http/handler"
	jwtmw "stocks_bot/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health *handler.HealthHandler
	Series *priceshandler.SeriesHandler
	SMA    *smahandler.SMAHandler
	Quote  *fulldatahandler.QuoteHandler
}

func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	v1 := r.Group("/v1")
	v1.Use(jwtmw.AuthRequired(jwtSecret))
	{
		v1.GET("/series/:ticker", h.Series.GetSeries)
		v1.GET("/sma/:ticker", h.SMA.GetAnalysis)
		v1.GET("/quote/:ticker", h.Quote.GetQuote)
	}

	return r
}
