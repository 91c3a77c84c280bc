/*
   hnotify - Hacker News comment replies notifier
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Unbewohnte/hnotify/internal/bot"
	"Unbewohnte/hnotify/internal/bot/social/hn"
	"Unbewohnte/hnotify/internal/logger"
	"Unbewohnte/hnotify/internal/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start polling in the foreground",
	Long: `Load the config, open the fingerprint store and poll the threads page
until SIGINT or SIGTERM is received. Use "hnotify stop" to stop a running instance.`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	conf, err := bot.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	if err := logger.InitLogger(conf.LogLevel, conf.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Log.Sync()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := writePIDFile(conf.PIDFile); err != nil {
		return err
	}
	defer func() {
		if err := removePIDFile(conf.PIDFile); err != nil {
			logger.Log.Warn("Не удалось удалить pid файл", zap.String("path", conf.PIDFile), zap.Error(err))
		}
	}()

	store, err := conf.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open %s store: %w", conf.DB.Driver, err)
	}
	defer store.Close()

	notifier, err := bot.NewNotifier(conf)
	if err != nil {
		return err
	}

	if conf.MetricsAddr != "" {
		go func() {
			logger.Log.Info("Метрики доступны", zap.String("addr", conf.MetricsAddr))
			if err := metrics.Serve(ctx, conf.MetricsAddr); err != nil {
				logger.Log.Error("Сервер метрик остановился", zap.Error(err))
			}
		}()
	}

	client := hn.NewClient(conf.ClientOptions())
	return bot.NewBot(conf, store, client, notifier).Run(ctx)
}
