package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lantern/internal/config"
	"lantern/internal/httpserver"
	"lantern/internal/logstream"
	"lantern/internal/session"
	"lantern/internal/store"
	"lantern/internal/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to start the server:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	viewsDir := flag.String("views", "views", "path to the view templates")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	hub := logstream.NewHub()
	logger, cleanup, err := logstream.New(logstream.Config{
		Env:          cfg.Env,
		Level:        cfg.Logs.Level,
		Service:      cfg.Service,
		Dir:          cfg.Logs.Dir,
		ErrorFile:    cfg.Logs.ErrorFile,
		CombinedFile: cfg.Logs.CombinedFile,
	}, hub)
	if err != nil {
		return err
	}
	defer cleanup()

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	users := store.NewUsers(db)
	if err := users.Init(context.Background()); err != nil {
		return err
	}

	codec := token.NewCodec(token.Config{
		AccessSecret:  cfg.Tokens.AccessSecret,
		RefreshSecret: cfg.Tokens.RefreshSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
		Issuer:        cfg.Service,
	})

	sessions := session.NewService(users, codec, logger)

	srv := httpserver.New(httpserver.Options{
		Development: cfg.IsDevelopment(),
		ViewsDir:    *viewsDir,
		LogsDir:     cfg.Logs.Dir,
	}, sessions, codec, users, hub, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		_ = srv.Shutdown()
	}()

	logger.Info("server listening",
		zap.String("addr", cfg.Addr()),
		zap.String("env", cfg.Env),
	)
	return srv.Listen(cfg.Addr())
}
