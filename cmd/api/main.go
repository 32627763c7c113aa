package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-reservation/internal/app"
	"github.com/sanosuguru/go-cinema-reservation/internal/config"
	"github.com/sanosuguru/go-cinema-reservation/internal/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal(".env の読み込みに失敗しました", zap.Error(err))
	}
	cfg := config.Load()
	logger.Init(cfg.App.Env)
	defer logger.Sync()

	// SIGINT / SIGTERM で graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Fatal("起動に失敗しました", zap.Error(err))
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("サーバーが異常終了しました", zap.Error(err))
		a.Close()
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("サーバーが正常にシャットダウンしました")
}
