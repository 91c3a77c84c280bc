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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"

	"Unbewohnte/hnotify/internal/bot"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := bot.DefaultConfig()
		if _, err := os.Stat(cfgFile); err == nil {
			if conf, err = bot.LoadConfig(cfgFile); err != nil {
				return err
			}
		}

		stopped, err := stopProcess(conf.PIDFile)
		if err != nil {
			return err
		}
		if stopped {
			fmt.Fprintln(cmd.OutOrStdout(), "hnotify stopped")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "hnotify is not running")
		}
		return nil
	},
}

// stopProcess sends SIGTERM to the process from the pid file.
// A pid file of a process that no longer exists is removed.
func stopProcess(pidFile string) (bool, error) {
	pid, err := readPIDFile(pidFile)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !processAlive(pid) {
		return false, removePIDFile(pidFile)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, err
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return false, fmt.Errorf("signal pid %d: %w", pid, err)
	}
	return true, nil
}
