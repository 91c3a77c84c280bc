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

package db

import "context"

// Модель комментария со страницы threads
type Comment struct {
	Author string `db:"author"` // Автор (a.hnuser)
	Title  string `db:"title"`  // Заголовок контекста (title у span.age)
	Body   string `db:"body"`   // Текст комментария без хвоста "reply"
}

// Hex-представление SHA-256 от текста комментария
type Fingerprint string

// FingerprintStore is an append-only, insertion-ordered log of fingerprints.
// Rows are never updated or deleted.
type FingerprintStore interface {
	// Recent returns the last n inserted fingerprints, newest first.
	// If n exceeds the number of stored rows all rows are returned.
	Recent(ctx context.Context, n int) ([]Fingerprint, error)

	// Insert appends fp. Inserting the same fingerprint twice creates two rows.
	Insert(ctx context.Context, fp Fingerprint) error

	Close() error
}
