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

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
)

// Отправка уведомлений в чат Telegram
type TelegramSink struct {
	api      *telego.Bot
	chatID   int64
	threadID int
}

func NewTelegramSink(token string, chatID int64, threadID int, options ...telego.BotOption) (*TelegramSink, error) {
	api, err := telego.NewBot(token, options...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramSink{
		api:      api,
		chatID:   chatID,
		threadID: threadID,
	}, nil
}

func (t *TelegramSink) Name() string {
	return "telegram"
}

func (t *TelegramSink) Send(ctx context.Context, msg Message) error {
	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: t.chatID},
		Text:      fmt.Sprintf("*%s*\n%s", escapeMarkdown(msg.Title), escapeMarkdown(msg.Body)),
		ParseMode: "Markdown",
	}

	// Указываем ID топика, если он установлен
	if t.threadID != 0 {
		params.MessageThreadID = t.threadID
	}

	if _, err := t.api.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)

	return replacer.Replace(text)
}
