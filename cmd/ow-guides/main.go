package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/creamtown0420/ow-guides/internal/config"
	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/database"
	"github.com/creamtown0420/ow-guides/internal/infra/localstore"
	"github.com/creamtown0420/ow-guides/internal/infra/repository"
	"github.com/creamtown0420/ow-guides/internal/present/rest"
	"github.com/creamtown0420/ow-guides/internal/present/rest/middleware"
	"github.com/creamtown0420/ow-guides/internal/service"
	"github.com/creamtown0420/ow-guides/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config",
			slog.String("error", err.Error()),
			slog.String("path", *configPath),
		)
		os.Exit(1)
	}

	siteConfig := domain.Config{
		FQDN:        cfg.Site.FQDN,
		LinkBaseURL: cfg.Site.LinkBaseURL,
		LinkSecret:  cfg.Site.LinkSecret,
	}

	if cfg.Server.EnableTrace {
		shutdown, err := setupTraceProvider(cfg.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to set up tracing",
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		defer shutdown()
	}

	engagement, err := localstore.NewEngagementStore(cfg.Server.StatePath)
	if err != nil {
		slog.Error("Failed to open engagement store",
			slog.String("error", err.Error()),
			slog.String("path", cfg.Server.StatePath),
		)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware(cfg.Site.FQDN))
	}

	remote := cfg.Server.PostgresDsn != ""
	if remote {
		db, err := database.NewPostgres(cfg.Server.PostgresDsn)
		if err != nil {
			slog.Error("Failed to connect database",
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		if err := database.MigratePostgres(db); err != nil {
			slog.Error("Failed to migrate database",
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}

		rdb := database.NewRedis(cfg.Server.RedisAddr, "", cfg.Server.RedisDB)

		var likeRepo usecase.LikeRepository = repository.NewLikeRepository(db)
		if cfg.Server.MemcachedAddr != "" {
			mc := database.NewMemcached(cfg.Server.MemcachedAddr)
			likeRepo = repository.NewCachedLikeRepository(likeRepo, mc)
		}

		signal := service.NewSignalService(rdb)

		var mailer service.Mailer = service.LogMailer{}
		if cfg.Server.SMTPAddr != "" {
			mailer = service.NewSMTPMailer(cfg.Server.SMTPAddr, cfg.Server.SMTPFrom)
		}

		sessions := repository.NewRedisSessionStore(rdb, time.Duration(cfg.Server.SessionTTLsec)*time.Second)
		auth := service.NewAuthService(siteConfig, repository.NewUserRepository(db), sessions, mailer, signal)

		codeUC := usecase.NewCodeUsecase(repository.NewCodeRepository(db))
		likeUC := usecase.NewLikeUsecase(likeRepo, repository.NewCodeRepository(db))
		profileUC := usecase.NewProfileUsecase(repository.NewProfileRepository(db))

		e.Use(middleware.NewAuthMiddleware(auth).IdentifyIdentity)

		handler := rest.NewHandler(siteConfig, codeUC, likeUC, profileUC, auth, signal, engagement, true)
		handler.RegisterRoutes(e)
	} else {
		slog.Info("No database configured, serving the seed catalog read-only")

		signal := service.NewSignalService(nil)
		codeUC := usecase.NewCodeUsecase(repository.NewSeedCodeRepository())

		handler := rest.NewHandler(siteConfig, codeUC, nil, nil, nil, signal, engagement, false)
		handler.RegisterRoutes(e)
	}

	e.Logger.Fatal(e.Start(cfg.Server.Listen))
}

func setupTraceProvider(endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("Failed to shut down trace provider",
				slog.String("error", err.Error()),
			)
		}
	}, nil
}
