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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRobotsChecker_Rules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n\nUser-agent: hnotify\nDisallow: /threads\n")
	}))
	defer server.Close()

	tests := []struct {
		agent string
		path  string
		want  bool
	}{
		{"othercrawler", "/threads?id=alice", true},
		{"othercrawler", "/private/page", false},
		{"hnotify", "/threads?id=alice", false},
		{"hnotify", "/item?id=1", true},
	}

	for _, tt := range tests {
		t.Run(tt.agent+tt.path, func(t *testing.T) {
			checker := NewRobotsChecker(server.Client(), tt.agent)
			got, err := checker.Allowed(context.Background(), server.URL+tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allowed(%q) as %q = %v, want %v", tt.path, tt.agent, got, tt.want)
			}
		})
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "hnotify")
	allowed, err := checker.Allowed(context.Background(), server.URL+"/threads?id=alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected 404 robots.txt to allow everything")
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	checker := NewRobotsChecker(&http.Client{}, "hnotify")
	allowed, err := checker.Allowed(context.Background(), addr+"/threads?id=alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected unreachable robots.txt to allow the fetch")
	}
}

func TestRobotsChecker_BadURL(t *testing.T) {
	checker := NewRobotsChecker(&http.Client{}, "hnotify")
	if _, err := checker.Allowed(context.Background(), "://bad"); err == nil {
		t.Error("expected parse error")
	}
}
