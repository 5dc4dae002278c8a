package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pokepolice/backend/internal/alert"
	"pokepolice/backend/internal/api/handler"
	"pokepolice/backend/internal/bot"
	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/discord"
	"pokepolice/backend/internal/localization"
	"pokepolice/backend/internal/profile"
	"pokepolice/backend/internal/storage"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		newLogger(false).Fatal("invalid configuration", zap.Error(err))
	}
	logger := newLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("error loading .env file", zap.Error(envErr))
	}
	logger.Info("starting pokepolice", zap.String("store", cfg.Store.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Dependencies
	store, err := storage.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open record store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("close record store", zap.Error(err))
		}
	}()

	var events storage.Publisher
	rdb, err := storage.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		events = storage.NewEventPublisher(rdb)
	}

	localizer, err := localization.Bundled()
	if err != nil {
		logger.Fatal("failed to load reply catalogue", zap.Error(err))
	}
	if !localizer.HasLanguage(cfg.Discord.Language) {
		logger.Warn("no catalogue for language, falling back to English", zap.String("language", cfg.Discord.Language))
	}

	// 2. Discord session and services
	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		logger.Fatal("failed to create Discord session", zap.Error(err))
	}
	client := discord.NewClient(session)

	dispatcher := bot.NewDispatcher(store, client, profile.NewClient(cfg.Discord), localizer, bot.Options{
		Prefix:   cfg.Discord.CommandPrefix,
		Language: cfg.Discord.Language,
	}, logger)
	alerts := alert.NewService(store, client, client, localizer, logger)
	alerts.Language = cfg.Discord.Language
	if events != nil {
		dispatcher.Events = events
		alerts.Events = events
	}

	botService := discord.NewBotService(session, client, dispatcher, alerts, cfg.Discord.CommandTimeout, logger)

	// 3. Optional lookup API
	if cfg.API.Addr != "" {
		h := handler.NewHandler(store, cfg.API.JWTSecret, logger)
		server := &http.Server{
			Addr:           cfg.API.Addr,
			Handler:        h.Router(),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		go func() {
			logger.Info("lookup API listening", zap.String("addr", cfg.API.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("lookup API stopped", zap.Error(err))
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	// 4. Gateway loop
	if err := botService.Run(ctx); err != nil {
		logger.Error("discord bot stopped", zap.Error(err))
		return
	}
	logger.Info("shutdown complete")
}
