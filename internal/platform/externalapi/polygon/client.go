package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fulldatausecase "stocks_bot/internal/feature/fulldata/usecase"
	"stocks_bot/internal/feature/prices/domain"
	"stocks_bot/internal/feature/prices/domain/entity"
	pricesusecase "stocks_bot/internal/feature/prices/usecase"
	"stocks_bot/internal/platform/externalapi/polygon/dto"
	"stocks_bot/internal/shared/ratelimiter"
)

// Client はPolygon.io REST APIから株価データを取得します。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	loc     *time.Location
	now     func() time.Time
}

var (
	_ pricesusecase.MarketClient  = (*Client)(nil)
	_ fulldatausecase.QuoteSource = (*Client)(nil)
)

// NewClient は指定された設定・HTTPクライアント・レートリミッターでClientを生成します。
// limiter が nil の場合は制限なしで動作します。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	cfg = cfg.WithDefaults()
	if limiter == nil {
		limiter = ratelimiter.Noop{}
	}
	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		loc:     cfg.Location(),
		now:     time.Now,
	}
}

// Location はバーのタイムスタンプに使う表示用タイムゾーンを返します。
func (c *Client) Location() *time.Location {
	return c.loc
}

// FetchSeries は指定キーの集計バーを昇順で取得します。
// 結果が0件の場合は domain.ErrNoData を返します。
func (c *Client) FetchSeries(ctx context.Context, key entity.QueryKey) ([]entity.Bar, error) {
	path := aggregatesPath(key.Ticker, key.Multiplier, string(key.Timespan), key.FromDate(), key.ToDate())

	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", strconv.Itoa(c.cfg.MaxResults))

	var body dto.AggregatesResponse
	if err := c.getJSON(ctx, path, q, &body); err != nil {
		return nil, err
	}
	bars, err := c.toBars(body)
	if err != nil {
		return nil, err
	}
	slog.Debug("polygon aggregates fetched", "key", key.String(), "status", body.Status, "count", len(bars))
	return bars, nil
}

// FetchLatestQuote は直近の日足を1本返します。
// 無料プランのデータ遅延を避けるため、終了日を QuoteLag だけ過去にずらした
// QuoteWindow 幅の区間を降順で検索します。
func (c *Client) FetchLatestQuote(ctx context.Context, ticker string) (entity.Bar, error) {
	to := c.now().Add(-c.cfg.QuoteLag)
	from := to.Add(-c.cfg.QuoteWindow)
	path := aggregatesPath(ticker, 1, string(entity.TimespanDay), from.Format(entity.DateLayout), to.Format(entity.DateLayout))

	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "desc")
	q.Set("limit", "1")

	var body dto.AggregatesResponse
	if err := c.getJSON(ctx, path, q, &body); err != nil {
		return entity.Bar{}, err
	}
	bars, err := c.toBars(body)
	if err != nil {
		return entity.Bar{}, err
	}
	return bars[0], nil
}

// FetchTickerDetails は銘柄のメタデータ（市場・取引所・通貨・会社名）を取得します。
func (c *Client) FetchTickerDetails(ctx context.Context, ticker string) (entity.TickerDetails, error) {
	path := "/v3/reference/tickers/" + url.PathEscape(ticker)

	var body dto.TickerDetailsResponse
	if err := c.getJSON(ctx, path, url.Values{}, &body); err != nil {
		return entity.TickerDetails{}, err
	}
	if body.Status != "OK" || body.Results == nil {
		return entity.TickerDetails{}, fmt.Errorf("%w: ticker details status %q", domain.ErrNoData, body.Status)
	}
	r := body.Results
	return entity.TickerDetails{
		Ticker:          r.Ticker,
		Name:            r.Name,
		Market:          r.Market,
		Locale:          r.Locale,
		PrimaryExchange: r.PrimaryExchange,
		CurrencyName:    r.CurrencyName,
	}, nil
}

// toBars はレスポンスをドメインの Bar に変換します。
// ミリ秒エポックは表示用タイムゾーン（既定は米国東部時間）に変換します。
func (c *Client) toBars(body dto.AggregatesResponse) ([]entity.Bar, error) {
	if !successStatus(body.Status) {
		msg := body.Error
		if msg == "" {
			msg = body.Message
		}
		return nil, fmt.Errorf("%w: polygon status %q: %s", domain.ErrUpstreamUnavailable, body.Status, msg)
	}
	if len(body.Results) == 0 {
		return nil, domain.ErrNoData
	}

	bars := make([]entity.Bar, 0, len(body.Results))
	for _, r := range body.Results {
		bars = append(bars, entity.Bar{
			Time:   time.UnixMilli(r.T).In(c.loc),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		})
	}
	return bars, nil
}

// getJSON はGETリクエストを送り、レスポンスを out にデコードします。
// HTTPステータスはドメインエラーに対応付けます。
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("apiKey", c.cfg.APIKey)
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()

	res, err := doWithRetry(ctx, c.client, c.cfg.Retry, func() (*http.Request, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: polygon http 404 %s", domain.ErrNoData, path)
	case res.StatusCode >= 400:
		return fmt.Errorf("%w: polygon http %d", domain.ErrUpstreamUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

func aggregatesPath(ticker string, multiplier int, timespan, from, to string) string {
	return fmt.Sprintf("/v2/aggs/ticker/%s/range/%d/%s/%s/%s",
		url.PathEscape(ticker), multiplier, url.PathEscape(timespan), from, to)
}

// successStatus は無料プランの遅延データ（DELAYED）も成功として扱います。
func successStatus(s string) bool {
	return s == "OK" || s == "DELAYED"
}
