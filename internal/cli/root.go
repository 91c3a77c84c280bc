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

	"Unbewohnte/hnotify/internal/bot"

	"github.com/spf13/cobra"
)

var Version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hnotify",
	Short: "hnotify - notifications about replies to your Hacker News comments",
	Long: `hnotify periodically checks the threads page of a Hacker News user,
remembers every comment it has seen and sends a desktop (or Telegram)
notification when new replies show up.

Without a subcommand hnotify runs "init" when no config file exists yet
and "start" otherwise.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); errors.Is(err, fs.ErrNotExist) {
			return runInit(cmd, args)
		}
		return runStart(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hnotify v%s\n", Version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", bot.DefaultConfigPath(), "config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(configCmd)
}
