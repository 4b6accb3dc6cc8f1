package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	fulldataentity "stocks_bot/internal/feature/fulldata/domain/entity"
	"stocks_bot/internal/feature/prices/domain"
	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
	smaentity "stocks_bot/internal/feature/sma/domain/entity"
	smausecase "stocks_bot/internal/feature/sma/usecase"
)

// ChartService renders a historical price chart and returns the image path.
type ChartService interface {
	HistoricalChart(ctx context.Context, key pricesentity.QueryKey, chartType pricesentity.ChartType) (string, error)
}

// SMAService runs the moving average analysis.
type SMAService interface {
	Analyze(ctx context.Context, ticker string) (*smaentity.Analysis, error)
}

// FullDataService returns the latest trading day of a ticker.
type FullDataService interface {
	Snapshot(ctx context.Context, ticker string) (*fulldataentity.Snapshot, error)
}

// JobRunner executes finished dialogues and converts every result, including failures, into replies.
type JobRunner struct {
	charts   ChartService
	sma      SMAService
	fullData FullDataService
}

// NewJobRunner creates a JobRunner.
func NewJobRunner(charts ChartService, sma SMAService, fullData FullDataService) *JobRunner {
	return &JobRunner{charts: charts, sma: sma, fullData: fullData}
}

// Run executes job. It always returns at least one reply.
func (r *JobRunner) Run(ctx context.Context, job Job) []Reply {
	switch job.Kind {
	case JobChart:
		return r.runChart(ctx, job)
	case JobSMA:
		return r.runSMA(ctx, job)
	case JobFullData:
		return r.runFullData(ctx, job)
	}
	slog.Error("unknown job kind", "kind", job.Kind, "chat_id", job.ChatID)
	return []Reply{text(ErrorUnexpected, MainMenuKeyboard())}
}

func (r *JobRunner) runChart(ctx context.Context, job Job) []Reply {
	path, err := r.charts.HistoricalChart(ctx, job.Key, job.ChartType)
	if err != nil {
		slog.Warn("chart job failed", "key", job.Key.String(), "chat_id", job.ChatID, "error", err)
		return []Reply{text(ErrorText(err), MainMenuKeyboard())}
	}
	return []Reply{
		{
			PhotoPath:       path,
			Caption:         fmt.Sprintf(ChartCaption, job.Key.Ticker, job.Key.FromDate(), job.Key.ToDate()),
			DeleteAfterSend: true,
		},
		text(SuccessChartGenerated, MainMenuKeyboard()),
	}
}

func (r *JobRunner) runSMA(ctx context.Context, job Job) []Reply {
	a, err := r.sma.Analyze(ctx, job.Ticker)
	if err != nil {
		slog.Warn("sma job failed", "ticker", job.Ticker, "chat_id", job.ChatID, "error", err)
		var ih *smausecase.InsufficientHistoryError
		if errors.As(err, &ih) {
			return []Reply{text(fmt.Sprintf(ErrorInsufficientSMA, ih.Have), MainMenuKeyboard())}
		}
		if errors.Is(err, domain.ErrNoData) {
			return []Reply{text(ErrorNoAnalysis, MainMenuKeyboard())}
		}
		return []Reply{text(ErrorText(err), MainMenuKeyboard())}
	}
	return []Reply{text(FormatSMA(a), MainMenuKeyboard())}
}

func (r *JobRunner) runFullData(ctx context.Context, job Job) []Reply {
	s, err := r.fullData.Snapshot(ctx, job.Ticker)
	if err != nil {
		slog.Warn("full data job failed", "ticker", job.Ticker, "chat_id", job.ChatID, "error", err)
		if errors.Is(err, domain.ErrNoData) {
			return []Reply{text(fmt.Sprintf(ErrorFullDataFormat, job.Ticker), MainMenuKeyboard())}
		}
		return []Reply{text(ErrorText(err), MainMenuKeyboard())}
	}
	return []Reply{text(FormatSnapshot(s), MainMenuKeyboard())}
}

// ErrorText maps an error to the message shown to the user.
func ErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTicker):
		return ErrorInvalidTicker
	case errors.Is(err, domain.ErrInvalidDate):
		return ErrorInvalidDate
	case errors.Is(err, domain.ErrInvalidRange):
		return ErrorInvalidRange
	case errors.Is(err, domain.ErrInvalidMultiplier):
		return ErrorInvalidMultiplier
	case errors.Is(err, domain.ErrInvalidTimespan):
		return ErrorInvalidPeriod
	case errors.Is(err, domain.ErrUnsupportedChartType):
		return ErrorInvalidChartType
	case errors.Is(err, domain.ErrNoData):
		return ErrorNoData
	case errors.Is(err, domain.ErrRateLimited):
		return ErrorAPILimit
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return ErrorUpstream
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	default:
		return ErrorUnexpected
	}
}
