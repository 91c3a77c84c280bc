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

package dedup

import (
	"context"
	"errors"
	"testing"

	"Unbewohnte/hnotify/internal/bot/social/hn"
	"Unbewohnte/hnotify/internal/db"
)

func TestFingerprint_Deterministic(t *testing.T) {
	inputs := []string{"", "hello", "  spaced  ", "многобайтовый текст", "line\nbreak"}
	for _, s := range inputs {
		a, b := Fingerprint(s), Fingerprint(s)
		if a != b {
			t.Errorf("Fingerprint(%q) not stable: %s vs %s", s, a, b)
		}
		if len(a) != 64 {
			t.Errorf("Fingerprint(%q) length = %d, want 64", s, len(a))
		}
	}

	// sha256("")
	if got := Fingerprint(""); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("unexpected empty-string digest %s", got)
	}
	if Fingerprint("a") == Fingerprint("b") {
		t.Error("different bodies produced the same fingerprint")
	}
}

func TestFingerprint_ReplySuffixInsensitive(t *testing.T) {
	for _, s := range []string{"Great point", "multi\nline text", "x"} {
		stripped := hn.StripReplySuffix(s + " reply")
		if Fingerprint(stripped) != Fingerprint(hn.StripReplySuffix(s)) {
			t.Errorf("fingerprint of %q differs after reply suffix stripping", s)
		}
	}
}

func comment(author, body string) db.Comment {
	return db.Comment{Author: author, Title: "2024-01-01T00:00:00", Body: body}
}

func TestFindNew_ReturnsOnlyUnseen(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	a, b, c := comment("alice", "A"), comment("bob", "B"), comment("carol", "C")
	for _, known := range []db.Comment{a, b} {
		if err := store.Insert(ctx, Fingerprint(known.Body)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindNew(ctx, []db.Comment{a, b, c}, store)
	if err != nil {
		t.Fatalf("FindNew: %v", err)
	}
	if len(got) != 1 || got[0] != c {
		t.Fatalf("expected [C], got %+v", got)
	}

	recent, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0] != Fingerprint("C") {
		t.Errorf("Recent(1) = %v, want fingerprint of C", recent)
	}

	// Второй прогон той же пачки ничего нового не дает
	again, err := FindNew(ctx, []db.Comment{a, b, c}, store)
	if err != nil {
		t.Fatalf("FindNew second pass: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no new comments on second pass, got %+v", again)
	}
}

func TestFindNew_PreservesInputOrder(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	batch := []db.Comment{comment("x", "3"), comment("y", "1"), comment("z", "2")}
	got, err := FindNew(ctx, batch, store)
	if err != nil {
		t.Fatalf("FindNew: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 new, got %d", len(got))
	}
	for i := range batch {
		if got[i] != batch[i] {
			t.Errorf("position %d: got %+v, want %+v", i, got[i], batch[i])
		}
	}

	// Последний вставленный - последний в пачке
	recent, _ := store.Recent(ctx, 3)
	want := []db.Fingerprint{Fingerprint("2"), Fingerprint("1"), Fingerprint("3")}
	for i := range want {
		if recent[i] != want[i] {
			t.Errorf("Recent[%d] = %s, want %s", i, recent[i], want[i])
		}
	}
}

func TestFindNew_EmptyBatchDoesNotTouchStore(t *testing.T) {
	store := &failingStore{recentErr: errors.New("must not be called")}

	got, err := FindNew(context.Background(), nil, store)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil result, got %+v", got)
	}
}

func TestFindNew_DuplicateBodiesInBatch(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	got, err := FindNew(ctx, []db.Comment{comment("a", "same"), comment("b", "same")}, store)
	if err != nil {
		t.Fatalf("FindNew: %v", err)
	}
	if len(got) != 2 || got[0].Author != "a" || got[1].Author != "b" {
		t.Errorf("expected both identical bodies reported in order, got %+v", got)
	}

	rows, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0] != Fingerprint("same") || rows[1] != Fingerprint("same") {
		t.Errorf("expected two rows for the repeated fingerprint, got %v", rows)
	}
}

func TestFindNew_BoundedWindow(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()

	// "old" вытеснен из окна двумя более новыми отпечатками
	for _, body := range []string{"old", "n1", "n2"} {
		store.Insert(ctx, Fingerprint(body))
	}

	got, err := FindNew(ctx, []db.Comment{comment("a", "old")}, store)
	if err != nil {
		t.Fatalf("FindNew: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected body outside the window to be reported again, got %+v", got)
	}
}

func TestFindNew_RecentError(t *testing.T) {
	store := &failingStore{recentErr: errors.New("connection refused")}

	_, err := FindNew(context.Background(), []db.Comment{comment("a", "A")}, store)
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}

func TestFindNew_InsertErrorKeepsEarlierInserts(t *testing.T) {
	store := &failingStore{MemoryStore: db.NewMemoryStore(), failOnInsert: 2}

	batch := []db.Comment{comment("a", "A"), comment("b", "B"), comment("c", "C")}
	got, err := FindNew(context.Background(), batch, store)
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no records on failure, got %+v", got)
	}

	recent, _ := store.MemoryStore.Recent(context.Background(), 10)
	if len(recent) != 1 || recent[0] != Fingerprint("A") {
		t.Errorf("expected only A committed, got %v", recent)
	}
}

type failingStore struct {
	*db.MemoryStore
	recentErr    error
	failOnInsert int
	inserts      int
}

func (s *failingStore) Recent(ctx context.Context, n int) ([]db.Fingerprint, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	return s.MemoryStore.Recent(ctx, n)
}

func (s *failingStore) Insert(ctx context.Context, fp db.Fingerprint) error {
	s.inserts++
	if s.inserts == s.failOnInsert {
		return errors.New("disk full")
	}
	return s.MemoryStore.Insert(ctx, fp)
}

func (s *failingStore) Close() error {
	return nil
}
