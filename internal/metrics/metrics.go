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

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Сколько циклов опроса было выполнено
var Cycles = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hnotify_cycles_total",
	Help: "Total number of polling cycles started",
})

// Ошибки цикла по этапам: fetch, dedup
var CycleErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hnotify_cycle_errors_total",
		Help: "Total number of polling cycles aborted by an error",
	},
	[]string{"stage"},
)

var CommentsExtracted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hnotify_comments_extracted_total",
	Help: "Total number of comment records extracted from fetched pages",
})

var NewComments = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hnotify_new_comments_total",
	Help: "Total number of comments classified as new",
})

var FetchNon2xx = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hnotify_fetch_non2xx_total",
	Help: "Total number of fetches answered with a non-2xx status",
})

// Результаты доставки уведомлений по каналам
var Notifications = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hnotify_notifications_total",
		Help: "Total number of notification deliveries by sink and result",
	},
	[]string{"sink", "result"},
)

func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
