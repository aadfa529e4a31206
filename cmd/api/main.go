package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	httpadp "disclosure-intake/internal/adapter/http"
	mw "disclosure-intake/internal/adapter/middleware"
	"disclosure-intake/internal/adapter/repository/mysql"
	"disclosure-intake/internal/config"
	domainAnalytics "disclosure-intake/internal/domain/analytics"
	"disclosure-intake/internal/infrastructure/cache"
	"disclosure-intake/internal/infrastructure/db"
	"disclosure-intake/internal/infrastructure/logging"
	"disclosure-intake/internal/infrastructure/queue"
	"disclosure-intake/internal/platform/metrics"
	ucAnalytics "disclosure-intake/internal/usecase/analytics"
	ucSubmission "disclosure-intake/internal/usecase/submission"
)

type publisher interface {
	domainAnalytics.Publisher
	Close()
}

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		return err
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.DBLogLevel)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var pub publisher = queue.EventProducerFallback{}
	if cfg.RabbitMQURL != "" {
		p, err := queue.NewEventProducer(cfg.RabbitMQURL, cfg.AnalyticsExchange)
		if err != nil {
			log.Warn("rabbitmq unavailable; analytics events will only be stored", "err", err)
		} else {
			pub = p
		}
	}
	defer pub.Close()

	m := metrics.New()

	events := ucAnalytics.NewUsecase(mysql.NewEventRepository(gdb), pub, m, log)
	subs := ucSubmission.NewUsecase(mysql.NewSubmissionRepository(gdb), mysql.NewGormUoW(gdb), events, m, log)

	h := httpadp.NewHandler(map[string]httpadp.Check{
		"mysql": db.Ping(gdb),
		"redis": cache.Ping(rdb),
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover(), middleware.CORS())

	httpadp.Register(e, h,
		httpadp.NewSubmissionHandler(subs),
		httpadp.NewAnalyticsHandler(events),
		mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()),
	)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
