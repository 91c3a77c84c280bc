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
	"time"

	"Unbewohnte/hnotify/internal/db"
	"Unbewohnte/hnotify/internal/logger"
	"Unbewohnte/hnotify/internal/metrics"

	"go.uber.org/zap"
)

const (
	Title        = "HN"
	previewWords = 10

	DefaultSendTimeout = 10 * time.Second
)

type Message struct {
	Title string
	Body  string
}

// Канал доставки уведомлений
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// FirstWords returns at most n whitespace-separated words of text joined by single spaces.
func FirstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// Summarize builds a single notification for a batch of new comments.
// ok is false when there is nothing to report.
func Summarize(comments []db.Comment) (msg Message, ok bool) {
	switch len(comments) {
	case 0:
		return Message{}, false
	case 1:
		return Message{
			Title: Title,
			Body:  fmt.Sprintf("%s: %s", comments[0].Author, FirstWords(comments[0].Body, previewWords)),
		}, true
	default:
		return Message{
			Title: Title,
			Body:  fmt.Sprintf("%d new comments: %s", len(comments), FirstWords(comments[0].Body, previewWords)),
		}, true
	}
}

// Рассылает уведомления во все каналы
type Notifier struct {
	sinks []Sink

	// Ограничение на одну отправку, чтобы зависший канал не держал цикл опроса
	SendTimeout time.Duration
}

func NewNotifier(sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks, SendTimeout: DefaultSendTimeout}
}

func (n *Notifier) Sinks() []Sink {
	return n.sinks
}

// Notify summarizes comments and hands the message to every sink.
// Delivery is best effort: failures are logged and counted only.
func (n *Notifier) Notify(ctx context.Context, comments []db.Comment) {
	msg, ok := Summarize(comments)
	if !ok {
		return
	}

	for _, sink := range n.sinks {
		if err := n.send(ctx, sink, msg); err != nil {
			metrics.Notifications.WithLabelValues(sink.Name(), "error").Inc()
			logger.Log.Error("Не удалось отправить уведомление",
				zap.String("sink", sink.Name()),
				zap.Error(err),
			)
			continue
		}

		metrics.Notifications.WithLabelValues(sink.Name(), "ok").Inc()
		logger.Log.Debug("Уведомление отправлено",
			zap.String("sink", sink.Name()),
			zap.String("body", msg.Body),
		)
	}
}

func (n *Notifier) send(ctx context.Context, sink Sink, msg Message) error {
	timeout := n.SendTimeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}

	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sink.Send(sendCtx, msg)
}
