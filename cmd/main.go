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
	api_middleware "github.com/thesrcielos/TicTacToeStats/api/middleware"
	v1 "github.com/thesrcielos/TicTacToeStats/api/v1"
	"github.com/thesrcielos/TicTacToeStats/internal/clock"
	"github.com/thesrcielos/TicTacToeStats/internal/config"
	"github.com/thesrcielos/TicTacToeStats/internal/player"
	"github.com/thesrcielos/TicTacToeStats/pkg/db"
	"github.com/thesrcielos/TicTacToeStats/websocket"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	if err := player.Migrate(gdb); err != nil {
		return err
	}

	rdb, err := db.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	var locker player.UsernameLocker
	if rdb != nil {
		defer rdb.Close()
		locker = player.NewRedisLocker(rdb, cfg.LockTTL, logger)
	} else {
		logger.Warn("REDIS_ADDR not set, username lock is local to this instance")
		locker = player.NewLocalLocker()
	}

	playerService := player.NewPlayerService(player.NewPlayerRepository(gdb), locker, clock.New(), logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api_middleware.HTTPErrorHandler(logger)

	e.Use(api_middleware.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api")
	v1.RegisterPlayerRoutes(api.Group("/players"), playerService)

	hub := websocket.NewHub(playerService, logger)
	e.GET("/game", hub.WebSocketHandler)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		hub.Shutdown()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down", slog.Any("error", err))
		}
	}()

	logger.Info("server starting", slog.String("addr", cfg.HTTPAddr))
	if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
