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
	"os/exec"

	"Unbewohnte/hnotify/internal/logger"

	"go.uber.org/zap"
)

const DefaultDesktopCommand = "notify-send"

// Уведомление на рабочий стол через notify-send
type DesktopSink struct {
	Command string
}

func NewDesktopSink(command string) *DesktopSink {
	if command == "" {
		command = DefaultDesktopCommand
	}
	return &DesktopSink{Command: command}
}

func (d *DesktopSink) Name() string {
	return "desktop"
}

// Send starts the command and returns without waiting for it to finish.
func (d *DesktopSink) Send(ctx context.Context, msg Message) error {
	path, err := exec.LookPath(d.Command)
	if err != nil {
		return fmt.Errorf("find %s: %w", d.Command, err)
	}

	cmd := exec.Command(path, msg.Title, msg.Body)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", d.Command, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Log.Warn("Команда уведомления завершилась с ошибкой",
				zap.String("command", d.Command),
				zap.Error(err),
			)
		}
	}()

	return nil
}
