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

package bot

import (
	"context"
	"time"

	"Unbewohnte/hnotify/internal/dedup"
	"Unbewohnte/hnotify/internal/logger"
	"Unbewohnte/hnotify/internal/metrics"

	"go.uber.org/zap"
)

// Run polls the threads page until ctx is canceled. A cycle that has started
// always runs to completion; cancellation is only noticed between cycles.
func (bot *Bot) Run(ctx context.Context) error {
	logger.Log.Info("Запускаем мониторинг",
		zap.String("username", bot.conf.HackerNews.Username),
		zap.Duration("interval", bot.interval),
	)

	for {
		bot.checkComments(context.WithoutCancel(ctx))

		timer := time.NewTimer(bot.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Log.Info("Мониторинг остановлен")
			return nil
		case <-timer.C:
		}
	}
}

// Один цикл опроса. Ошибки логируются, цикл просто пропускается
func (bot *Bot) checkComments(ctx context.Context) {
	metrics.Cycles.Inc()
	defer func() {
		if r := recover(); r != nil {
			metrics.CycleErrors.WithLabelValues("panic").Inc()
			logger.Log.Error("Паника в цикле опроса", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	username := bot.conf.HackerNews.Username

	comments, err := bot.source.GetComments(ctx, username)
	if err != nil {
		metrics.CycleErrors.WithLabelValues("fetch").Inc()
		logger.Log.Warn("Ошибка получения комментариев", zap.Error(err))
		return
	}
	metrics.CommentsExtracted.Add(float64(len(comments)))

	comments = FilterOwnComments(comments, username)

	newComments, err := dedup.FindNew(ctx, comments, bot.store)
	if err != nil {
		metrics.CycleErrors.WithLabelValues("dedup").Inc()
		logger.Log.Error("Ошибка проверки комментариев на новизну", zap.Error(err))
		return
	}

	if len(newComments) == 0 {
		logger.Log.Debug("Новых комментариев нет", zap.Int("checked", len(comments)))
		return
	}

	metrics.NewComments.Add(float64(len(newComments)))
	logger.Log.Info("Найдены новые комментарии",
		zap.Int("new", len(newComments)),
		zap.Int("checked", len(comments)),
	)

	bot.notifier.Notify(ctx, newComments)
}
