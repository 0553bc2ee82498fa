package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/fairwaylog/caddieapi/config"
	"github.com/fairwaylog/caddieapi/db"
	"github.com/fairwaylog/caddieapi/handlers"
	"github.com/fairwaylog/caddieapi/insights"
	"github.com/fairwaylog/caddieapi/llm"
	applog "github.com/fairwaylog/caddieapi/logger"
	mw "github.com/fairwaylog/caddieapi/middleware"
	"github.com/fairwaylog/caddieapi/rounds"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	llmClient, err := llm.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
	if err != nil {
		logger.Fatal("llm client setup failed", zap.Error(err))
	}

	generator := insights.NewGenerator(
		insights.NewStore(bdb),
		llmClient,
		insights.Options{
			PremiumProductID: cfg.PremiumProductID,
			MaxTokens:        cfg.LLMMaxTokens,
			MaxTokensLite:    cfg.LLMMaxTokensLite,
		},
		logger,
	)
	trigger := insights.NewTrigger(generator, 0, logger)
	finalizer := rounds.NewFinalizer(rounds.NewStore(bdb), trigger, logger)

	h := handlers.New(bdb, cfg.JWTKey(), finalizer, generator)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.GET("/courses", h.Courses)
	api.POST("/courses", h.CreateCourse)
	api.GET("/rounds", h.Rounds)
	api.POST("/rounds", h.StartRound)
	api.POST("/rounds/:id/complete", h.CompleteRound)
	api.DELETE("/rounds/:id", h.AbandonRound)
	api.POST("/insights/generate", h.GenerateInsights)
	api.GET("/insights", h.InsightHistory)
	api.GET("/profile/handicap", h.Handicap)
	api.PUT("/profile/handicap", h.UpdateHandicap)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
