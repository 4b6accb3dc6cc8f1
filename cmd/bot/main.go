package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	redisv9 "github.com/redis/go-redis/v9"

	"stocks_bot/internal/app/config"
	"stocks_bot/internal/app/di"
	"stocks_bot/internal/app/router"
	dialogueusecase "stocks_bot/internal/feature/dialogue/usecase"
	"stocks_bot/internal/feature/dialogue/transport/telegram"
	fulldatahandler "stocks_bot/internal/feature/fulldata/transport/handler"
	fulldatausecase "stocks_bot/internal/feature/fulldata/usecase"
	"stocks_bot/internal/feature/prices/adapters"
	"stocks_bot/internal/feature/prices/adapters/chart"
	priceshandler "stocks_bot/internal/feature/prices/transport/handler"
	pricesusecase "stocks_bot/internal/feature/prices/usecase"
	smahandler "stocks_bot/internal/feature/sma/transport/handler"
	smausecase "stocks_bot/internal/feature/sma/usecase"
	"stocks_bot/internal/platform/db"
	"stocks_bot/internal/platform/http/handler"
	"stocks_bot/internal/platform/janitor"
	infraredis "stocks_bot/internal/platform/redis"
	"stocks_bot/internal/platform/workerpool"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (defaults to $CONFIG_PATH or configs/config.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("stocks bot stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Addr() == "" {
		slog.Info("REDIS_HOST not set. Running with in-memory sessions and without quote cache.")
	} else if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running with in-memory sessions and without quote cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Market data
	market := di.NewMarket(cfg.Polygon)
	loc := cfg.Polygon.Location()

	events, closeEvents := di.NewEventPublisher(cfg.Kafka)
	defer func() {
		if err := closeEvents(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}()

	if err := os.MkdirAll(cfg.Chart.Dir, 0o755); err != nil {
		return err
	}

	// Usecase
	seriesUC := pricesusecase.NewSeriesUsecase(adapters.NewSeriesCache(gdb, loc), market, events)
	chartUC := pricesusecase.NewChartUsecase(seriesUC, chart.NewRenderer(cfg.Chart.Dir))
	smaUC := smausecase.NewSMAUsecase(seriesUC)
	fullDataUC := fulldatausecase.NewFullDataUsecase(
		di.NewQuoteSource(rdb, market, cfg.Cache.DetailsTTL, cfg.Cache.Namespace))

	// 取りこぼしたチャート画像を定期的に掃除する
	jan, err := janitor.New(cfg.Chart.Dir, cfg.Janitor.Schedule, cfg.Janitor.MaxAge)
	if err != nil {
		return err
	}
	jan.Start()
	defer jan.Stop()

	pool := workerpool.New(cfg.Workers.Size, cfg.Workers.Queue)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Workers.JobTimeout)
		defer cancel()
		if err := pool.Close(shutdownCtx); err != nil {
			slog.Warn("worker pool did not drain", "pending", pool.Pending(), "error", err)
		}
	}()

	// HTTP API（任意）
	if cfg.HTTP.Addr != "" {
		checks := map[string]handler.Check{
			"db": func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}
		if rdb != nil {
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
		r := router.NewRouter(router.Handlers{
			Health: handler.NewHealthHandler(checks),
			Series: priceshandler.NewSeriesHandler(seriesUC),
			SMA:    smahandler.NewSMAHandler(smaUC),
			Quote:  fulldatahandler.NewQuoteHandler(fullDataUC),
		}, cfg.HTTP.JWTSecret)

		srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: r}
		go func() {
			slog.Info("http api listening", "addr", cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http api failed", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("http api shutdown failed", "error", err)
			}
		}()
	}

	// Telegram
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	api.Debug = cfg.Telegram.Debug
	slog.Info("authorized on telegram", "username", api.Self.UserName)

	conversation := dialogueusecase.NewConversation(di.NewSessionStore(rdb, cfg.Session.TTL))
	runner := dialogueusecase.NewJobRunner(chartUC, smaUC, fullDataUC)
	bot := telegram.NewBot(api, conversation, runner, pool, telegram.Options{
		PollTimeout: cfg.Telegram.PollTimeout,
		JobTimeout:  cfg.Workers.JobTimeout,
	})
	return bot.Run(ctx)
}

func setupLogger(cfg config.LogConfig) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
