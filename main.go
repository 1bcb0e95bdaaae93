// Package main はアプリケーションのエントリーポイントを提供します。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/stsysd/calheat/cmd"
	"github.com/stsysd/calheat/config"
	"github.com/stsysd/calheat/logging"
)

func main() {
	fs := afero.NewOsFs()

	// 設定の読み込み
	cfg, err := config.Load(fs, config.DotEnvFile)
	if err != nil {
		logging.Setup(os.Stderr, false).Fatal("failed to load config", "err", err)
	}
	logger := logging.Setup(os.Stderr, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCommand(fs, ctx, cfg, logger).Execute(); err != nil {
		stop()
		os.Exit(1)
	}
}
