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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"Unbewohnte/hnotify/internal/bot/social/hn"
	"Unbewohnte/hnotify/internal/db"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type HackerNewsConf struct {
	Username           string `json:"username" mapstructure:"username" yaml:"username"`
	BaseURL            string `json:"base_url" mapstructure:"base_url" yaml:"base_url"`
	UserAgent          string `json:"user_agent" mapstructure:"user_agent" yaml:"user_agent"`
	TimeoutSeconds     int    `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxBodyBytes       int64  `json:"max_body_bytes" mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	RespectRobots      bool   `json:"respect_robots" mapstructure:"respect_robots" yaml:"respect_robots"`
	MinFetchGapSeconds int    `json:"min_fetch_gap_seconds" mapstructure:"min_fetch_gap_seconds" yaml:"min_fetch_gap_seconds"`
}

type DBConf struct {
	Driver   string `json:"driver" mapstructure:"driver" yaml:"driver"`
	File     string `json:"file" mapstructure:"file" yaml:"file"`
	Host     string `json:"host" mapstructure:"host" yaml:"host"`
	Port     int    `json:"port" mapstructure:"port" yaml:"port"`
	Username string `json:"username" mapstructure:"username" yaml:"username"`
	Password string `json:"password" mapstructure:"password" yaml:"password"`
	Name     string `json:"name" mapstructure:"name" yaml:"name"`
	RedisDB  int    `json:"redis_db" mapstructure:"redis_db" yaml:"redis_db"`
}

type DesktopConf struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Command string `json:"command" mapstructure:"command" yaml:"command"`
}

type TelegramConf struct {
	ApiToken string `json:"api_token" mapstructure:"api_token" yaml:"api_token"`
	ChatID   int64  `json:"chat_id" mapstructure:"chat_id" yaml:"chat_id"`
	ThreadID int64  `json:"thread_id" mapstructure:"thread_id" yaml:"thread_id"`
}

type Config struct {
	HackerNews             HackerNewsConf `json:"hackernews" mapstructure:"hackernews" yaml:"hackernews"`
	DB                     DBConf         `json:"database" mapstructure:"database" yaml:"database"`
	PollingIntervalSeconds int            `json:"polling_interval_seconds" mapstructure:"polling_interval_seconds" yaml:"polling_interval_seconds"`
	Desktop                DesktopConf    `json:"desktop" mapstructure:"desktop" yaml:"desktop"`
	Telegram               TelegramConf   `json:"telegram" mapstructure:"telegram" yaml:"telegram"`
	LogLevel               string         `json:"log_level" mapstructure:"log_level" yaml:"log_level"`
	LogFile                string         `json:"log_file" mapstructure:"log_file" yaml:"log_file"`
	MetricsAddr            string         `json:"metrics_addr" mapstructure:"metrics_addr" yaml:"metrics_addr"`
	PIDFile                string         `json:"pid_file" mapstructure:"pid_file" yaml:"pid_file"`
}

// Путь внутри домашней директории, либо в текущей, если домашняя неизвестна
func homePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

func DefaultConfigPath() string {
	return homePath(".hnotifyrc")
}

func DefaultConfig() *Config {
	return &Config{
		HackerNews: HackerNewsConf{
			BaseURL:            hn.DefaultBaseURL,
			UserAgent:          "hnotify/1.0 (+https://github.com/Unbewohnte/hnotify)",
			TimeoutSeconds:     30,
			MaxBodyBytes:       5 << 20,
			RespectRobots:      false,
			MinFetchGapSeconds: 30,
		},
		DB: DBConf{
			Driver: DriverSQLite,
			File:   homePath(".hnotify.sqlite3"),
			Host:   "localhost",
			Name:   "hnotify",
		},
		PollingIntervalSeconds: 60,
		Desktop: DesktopConf{
			Enabled: true,
			Command: "notify-send",
		},
		LogLevel: "info",
		PIDFile:  homePath(".hnotify.pid"),
	}
}

// Значения по умолчанию регистрируются для каждого ключа, иначе viper
// не увидит переменные окружения для ключей, отсутствующих в файле
func setDefaults(v *viper.Viper, conf *Config) {
	v.SetDefault("hackernews.username", conf.HackerNews.Username)
	v.SetDefault("hackernews.base_url", conf.HackerNews.BaseURL)
	v.SetDefault("hackernews.user_agent", conf.HackerNews.UserAgent)
	v.SetDefault("hackernews.timeout_seconds", conf.HackerNews.TimeoutSeconds)
	v.SetDefault("hackernews.max_body_bytes", conf.HackerNews.MaxBodyBytes)
	v.SetDefault("hackernews.respect_robots", conf.HackerNews.RespectRobots)
	v.SetDefault("hackernews.min_fetch_gap_seconds", conf.HackerNews.MinFetchGapSeconds)

	v.SetDefault("database.driver", conf.DB.Driver)
	v.SetDefault("database.file", conf.DB.File)
	v.SetDefault("database.host", conf.DB.Host)
	v.SetDefault("database.port", conf.DB.Port)
	v.SetDefault("database.username", conf.DB.Username)
	v.SetDefault("database.password", conf.DB.Password)
	v.SetDefault("database.name", conf.DB.Name)
	v.SetDefault("database.redis_db", conf.DB.RedisDB)

	v.SetDefault("polling_interval_seconds", conf.PollingIntervalSeconds)

	v.SetDefault("desktop.enabled", conf.Desktop.Enabled)
	v.SetDefault("desktop.command", conf.Desktop.Command)

	v.SetDefault("telegram.api_token", conf.Telegram.ApiToken)
	v.SetDefault("telegram.chat_id", conf.Telegram.ChatID)
	v.SetDefault("telegram.thread_id", conf.Telegram.ThreadID)

	v.SetDefault("log_level", conf.LogLevel)
	v.SetDefault("log_file", conf.LogFile)
	v.SetDefault("metrics_addr", conf.MetricsAddr)
	v.SetDefault("pid_file", conf.PIDFile)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("HNOTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return v
}

// LoadConfig reads the JSON config at path and applies HNOTIFY_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	return &conf, nil
}

// Save writes the config as indented JSON readable only by the owner.
func (conf *Config) Save(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	jsonBytes, err := json.MarshalIndent(conf, "", "\t")
	if err != nil {
		return err
	}

	_, err = file.Write(jsonBytes)
	return err
}

func (conf *Config) Validate() error {
	if strings.TrimSpace(conf.HackerNews.Username) == "" {
		return fmt.Errorf("%w: hackernews.username is empty", ErrInvalidConfig)
	}
	if conf.PollingIntervalSeconds <= 0 {
		return fmt.Errorf("%w: polling_interval_seconds must be positive, got %d", ErrInvalidConfig, conf.PollingIntervalSeconds)
	}
	if conf.HackerNews.MinFetchGapSeconds > conf.PollingIntervalSeconds {
		return fmt.Errorf("%w: hackernews.min_fetch_gap_seconds (%d) exceeds polling_interval_seconds (%d)",
			ErrInvalidConfig, conf.HackerNews.MinFetchGapSeconds, conf.PollingIntervalSeconds)
	}
	if conf.DB.Port < 0 || conf.DB.Port > 65535 {
		return fmt.Errorf("%w: database.port %d is out of range", ErrInvalidConfig, conf.DB.Port)
	}

	switch conf.DB.Driver {
	case DriverSQLite:
		if conf.DB.File == "" {
			return fmt.Errorf("%w: database.file is empty", ErrInvalidConfig)
		}
	case DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, conf.DB.Driver)
	}

	if conf.Telegram.ApiToken != "" && conf.Telegram.ChatID == 0 {
		return fmt.Errorf("%w: telegram.chat_id is required when telegram.api_token is set", ErrInvalidConfig)
	}

	return nil
}

func (conf *Config) PollingInterval() time.Duration {
	return time.Duration(conf.PollingIntervalSeconds) * time.Second
}

func (conf *Config) ClientOptions() hn.Options {
	return hn.Options{
		BaseURL:       conf.HackerNews.BaseURL,
		UserAgent:     conf.HackerNews.UserAgent,
		Timeout:       time.Duration(conf.HackerNews.TimeoutSeconds) * time.Second,
		MaxBodyBytes:  conf.HackerNews.MaxBodyBytes,
		RespectRobots: conf.HackerNews.RespectRobots,
		MinFetchGap:   time.Duration(conf.HackerNews.MinFetchGapSeconds) * time.Second,
	}
}

func (conf *Config) dbAddr(defaultPort int) string {
	port := conf.DB.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(conf.DB.Host, strconv.Itoa(port))
}

// PostgresDSN собирает строку подключения из параметров базы
func (conf *Config) PostgresDSN() string {
	dsn := url.URL{
		Scheme: "postgres",
		Host:   conf.dbAddr(5432),
		Path:   "/" + conf.DB.Name,
	}
	if conf.DB.Username != "" {
		if conf.DB.Password != "" {
			dsn.User = url.UserPassword(conf.DB.Username, conf.DB.Password)
		} else {
			dsn.User = url.User(conf.DB.Username)
		}
	}
	return dsn.String()
}

// OpenStore opens the fingerprint store selected by database.driver.
func (conf *Config) OpenStore(ctx context.Context) (db.FingerprintStore, error) {
	switch conf.DB.Driver {
	case DriverSQLite, "":
		store, err := db.NewDB(conf.DB.File)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverPostgres:
		store, err := db.NewPostgres(ctx, conf.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverRedis:
		store, err := db.NewRedis(ctx, db.RedisOptions{
			Addr:     conf.dbAddr(6379),
			Username: conf.DB.Username,
			Password: conf.DB.Password,
			DB:       conf.DB.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverMemory:
		return db.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, conf.DB.Driver)
	}
}
