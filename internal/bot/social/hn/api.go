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

package hn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Unbewohnte/hnotify/internal/db"
	"Unbewohnte/hnotify/internal/logger"
	"Unbewohnte/hnotify/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://news.ycombinator.com"

var ErrDisallowed = errors.New("fetch disallowed by robots.txt")

type Options struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	MaxBodyBytes  int64
	RespectRobots bool
	MinFetchGap   time.Duration
}

type Client struct {
	baseURL      string
	userAgent    string
	maxBodyBytes int64
	http         *http.Client
	limiter      *rate.Limiter
	robots       *RobotsChecker
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 << 20
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	// Не чаще одного запроса за MinFetchGap
	limit := rate.Inf
	if opts.MinFetchGap > 0 {
		limit = rate.Every(opts.MinFetchGap)
	}

	client := &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
		http:         httpClient,
		limiter:      rate.NewLimiter(limit, 1),
	}
	if opts.RespectRobots {
		client.robots = NewRobotsChecker(httpClient, opts.UserAgent)
	}

	return client
}

func (c *Client) threadsURL(username string) string {
	return fmt.Sprintf("%s/threads?id=%s", c.baseURL, url.QueryEscape(username))
}

// GetComments fetches the threads page of username and extracts its comments.
// A non-2xx answer is logged and yields no comments and no error.
func (c *Client) GetComments(ctx context.Context, username string) ([]db.Comment, error) {
	html, err := c.FetchThreadsPage(ctx, username)
	if err != nil {
		return nil, err
	}

	return ParseComments(html), nil
}

// FetchThreadsPage returns the raw HTML of the threads page. The returned
// string is empty when the server answered with a non-2xx status.
func (c *Client) FetchThreadsPage(ctx context.Context, username string) (string, error) {
	pageURL := c.threadsURL(username)

	if c.robots != nil {
		allowed, err := c.robots.Allowed(ctx, pageURL)
		if err != nil {
			return "", fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return "", fmt.Errorf("%w: %s", ErrDisallowed, pageURL)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.FetchNon2xx.Inc()
		logger.Log.Warn("Запрос страницы комментариев завершился неуспешно",
			zap.String("url", pageURL),
			zap.Int("status", resp.StatusCode),
		)
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}
