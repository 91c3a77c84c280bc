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
	"os/exec"
	"testing"
)

func TestDesktopSink_Send(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true is not available")
	}

	sink := NewDesktopSink("true")
	if err := sink.Send(context.Background(), Message{Title: "HN", Body: "bob: hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDesktopSink_MissingCommand(t *testing.T) {
	sink := NewDesktopSink("hnotify-no-such-command")
	if err := sink.Send(context.Background(), Message{Title: "HN", Body: "x"}); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestNewDesktopSink_Default(t *testing.T) {
	if got := NewDesktopSink("").Command; got != DefaultDesktopCommand {
		t.Errorf("expected default command, got %q", got)
	}
}
