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
	"fmt"
	"os"

	"Unbewohnte/hnotify/internal/bot"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const masked = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect hnotify configuration",
	Long: `Configuration hierarchy (highest to lowest priority):
1. Environment variables (HNOTIFY_<SECTION>_<KEY>, also read from .env)
2. Config file (~/.hnotifyrc)
3. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := bot.DefaultConfig()
		if _, err := os.Stat(cfgFile); err == nil {
			if conf, err = bot.LoadConfig(cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", cfgFile)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file at %s (using defaults)\n\n", cfgFile)
		}

		yamlData, err := yaml.Marshal(maskSecrets(*conf))
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(yamlData)
		return err
	},
}

func maskSecrets(conf bot.Config) bot.Config {
	if conf.DB.Password != "" {
		conf.DB.Password = masked
	}
	if conf.Telegram.ApiToken != "" {
		conf.Telegram.ApiToken = masked
	}
	return conf
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
