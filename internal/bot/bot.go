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
	"fmt"
	"time"

	"Unbewohnte/hnotify/internal/bot/social"
	"Unbewohnte/hnotify/internal/db"
	"Unbewohnte/hnotify/internal/notify"
)

// Получатель новых комментариев
type Notifier interface {
	Notify(ctx context.Context, comments []db.Comment)
}

type Bot struct {
	conf     *Config
	store    db.FingerprintStore
	source   social.CommentSource
	notifier Notifier
	interval time.Duration
}

func NewBot(conf *Config, store db.FingerprintStore, source social.CommentSource, notifier Notifier) *Bot {
	return &Bot{
		conf:     conf,
		store:    store,
		source:   source,
		notifier: notifier,
		interval: conf.PollingInterval(),
	}
}

// NewNotifier builds the sinks enabled in the config.
func NewNotifier(conf *Config) (*notify.Notifier, error) {
	var sinks []notify.Sink

	if conf.Desktop.Enabled {
		sinks = append(sinks, notify.NewDesktopSink(conf.Desktop.Command))
	}

	if conf.Telegram.ApiToken != "" {
		telegram, err := notify.NewTelegramSink(
			conf.Telegram.ApiToken,
			conf.Telegram.ChatID,
			int(conf.Telegram.ThreadID),
		)
		if err != nil {
			return nil, fmt.Errorf("telegram sink: %w", err)
		}
		sinks = append(sinks, telegram)
	}

	return notify.NewNotifier(sinks...), nil
}
