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
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"Unbewohnte/hnotify/internal/bot"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or update the config file interactively",
	Long: `Ask for the Hacker News username, database settings and polling interval,
save them to the config file and create the fingerprint storage.
Press Enter to keep the value shown in brackets.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	conf := bot.DefaultConfig()
	if _, err := os.Stat(cfgFile); err == nil {
		if conf, err = bot.LoadConfig(cfgFile); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := promptConfig(cmd.InOrStdin(), cmd.OutOrStdout(), conf); err != nil {
		return err
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	if err := conf.Save(cfgFile); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", cfgFile)

	// Создаем таблицы заранее, чтобы start не упал на первом цикле
	store, err := conf.OpenStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("initialize %s store: %w", conf.DB.Driver, err)
	}
	return store.Close()
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// Пустой ответ оставляет текущее значение
func (p *prompter) ask(label, current string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, current)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

func (p *prompter) askInt(label string, current int) (int, error) {
	for {
		answer, err := p.ask(label, strconv.Itoa(current))
		if err != nil {
			return 0, err
		}

		value, err := strconv.Atoi(answer)
		if err == nil {
			return value, nil
		}
		fmt.Fprintf(p.out, "%q is not a number\n", answer)
	}
}

func promptConfig(in io.Reader, out io.Writer, conf *bot.Config) error {
	p := &prompter{in: bufio.NewReader(in), out: out}
	var err error

	if conf.HackerNews.Username, err = p.ask("Hacker News username", conf.HackerNews.Username); err != nil {
		return err
	}

	if conf.DB.Driver, err = p.ask("Database driver (sqlite, postgres, redis, memory)", conf.DB.Driver); err != nil {
		return err
	}

	switch conf.DB.Driver {
	case bot.DriverSQLite:
		if conf.DB.File, err = p.ask("Database file", conf.DB.File); err != nil {
			return err
		}
	case bot.DriverPostgres, bot.DriverRedis:
		if conf.DB.Host, err = p.ask("Database host", conf.DB.Host); err != nil {
			return err
		}
		if conf.DB.Port, err = p.askInt("Database port (0 for default)", conf.DB.Port); err != nil {
			return err
		}
		if conf.DB.Username, err = p.ask("Database username", conf.DB.Username); err != nil {
			return err
		}
		if conf.DB.Password, err = p.ask("Database password", conf.DB.Password); err != nil {
			return err
		}
		if conf.DB.Driver == bot.DriverPostgres {
			if conf.DB.Name, err = p.ask("Database name", conf.DB.Name); err != nil {
				return err
			}
		} else {
			if conf.DB.RedisDB, err = p.askInt("Redis database index", conf.DB.RedisDB); err != nil {
				return err
			}
		}
	}

	if conf.PollingIntervalSeconds, err = p.askInt("Polling interval in seconds", conf.PollingIntervalSeconds); err != nil {
		return err
	}

	return nil
}
