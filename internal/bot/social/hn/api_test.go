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
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetComments_Success(t *testing.T) {
	page := threadsPage(
		threadRow("alice", "t1", "hello there reply"),
		threadRow("bob", "t2", "general kenobi"),
	)

	var gotID, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/threads" {
			http.NotFound(w, r)
			return
		}
		gotID = r.URL.Query().Get("id")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, page)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, UserAgent: "hnotify-test", Timeout: 5 * time.Second})
	comments, err := client.GetComments(context.Background(), "some user")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotID != "some user" {
		t.Errorf("expected id query to round-trip, got %q", gotID)
	}
	if gotUA != "hnotify-test" {
		t.Errorf("expected user agent to be sent, got %q", gotUA)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Body != "hello there" {
		t.Errorf("unexpected body %q", comments[0].Body)
	}
}

func TestGetComments_Non2xxYieldsEmpty(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusServiceUnavailable, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			client := NewClient(Options{BaseURL: server.URL})
			comments, err := client.GetComments(context.Background(), "alice")
			if err != nil {
				t.Fatalf("expected nil error for status %d, got %v", status, err)
			}
			if len(comments) != 0 {
				t.Errorf("expected no comments, got %+v", comments)
			}
		})
	}
}

func TestGetComments_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Options{BaseURL: url, Timeout: time.Second})
	if _, err := client.GetComments(context.Background(), "alice"); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestGetComments_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	if _, err := client.GetComments(context.Background(), "alice"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestFetchThreadsPage_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 100))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, MaxBodyBytes: 10})
	html, err := client.FetchThreadsPage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(html) != 10 {
		t.Errorf("expected body truncated to 10 bytes, got %d", len(html))
	}
}

func TestFetchThreadsPage_RobotsDisallow(t *testing.T) {
	var pageHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /threads\n")
			return
		}
		pageHits.Add(1)
		_, _ = fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, UserAgent: "hnotify", RespectRobots: true})
	_, err := client.FetchThreadsPage(context.Background(), "alice")
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("expected ErrDisallowed, got %v", err)
	}
	if pageHits.Load() != 0 {
		t.Errorf("expected page not to be requested, got %d hits", pageHits.Load())
	}
}

func TestFetchThreadsPage_RobotsAllow(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /x?\n")
			return
		}
		_, _ = fmt.Fprint(w, "<html>ok</html>")
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, UserAgent: "hnotify", RespectRobots: true})
	for i := 0; i < 3; i++ {
		html, err := client.FetchThreadsPage(context.Background(), "alice")
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
		if html != "<html>ok</html>" {
			t.Errorf("unexpected html %q", html)
		}
	}

	// robots.txt запрашивается один раз и берется из кэша
	if robotsHits.Load() != 1 {
		t.Errorf("expected robots.txt fetched once, got %d", robotsHits.Load())
	}
}

func TestFetchThreadsPage_RateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, MinFetchGap: time.Hour})
	if _, err := client.FetchThreadsPage(context.Background(), "alice"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.FetchThreadsPage(ctx, "alice"); err == nil {
		t.Fatal("expected second fetch within the gap to fail on context deadline")
	}
}
