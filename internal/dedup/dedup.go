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

// Package dedup decides which extracted comments have never been seen before.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"Unbewohnte/hnotify/internal/db"
)

var ErrStore = errors.New("fingerprint store failure")

// Fingerprint returns the hex-encoded SHA-256 of a comment body.
func Fingerprint(body string) db.Fingerprint {
	sum := sha256.Sum256([]byte(body))
	return db.Fingerprint(hex.EncodeToString(sum[:]))
}

// FindNew returns the candidates whose fingerprint is absent from the last
// len(candidates) fingerprints in the store, in input order, and appends the
// fingerprint of each one as soon as it is classified.
//
// The lookup window is bounded by the batch size: a body that reappears after
// more than len(candidates) newer inserts is reported again.
//
// A store failure aborts the batch. Fingerprints inserted before the failure stay.
func FindNew(ctx context.Context, candidates []db.Comment, store db.FingerprintStore) ([]db.Comment, error) {
	k := len(candidates)
	if k == 0 {
		return nil, nil
	}

	existing, err := store.Recent(ctx, k)
	if err != nil {
		return nil, fmt.Errorf("%w: recent fingerprints: %w", ErrStore, err)
	}

	// Набор фиксирован до начала пачки: одинаковый текст дважды в одной
	// пачке дает две новые записи и две строки в хранилище
	seen := make(map[db.Fingerprint]struct{}, len(existing))
	for _, fp := range existing {
		seen[fp] = struct{}{}
	}

	var newComments []db.Comment
	for _, comment := range candidates {
		fp := Fingerprint(comment.Body)
		if _, ok := seen[fp]; ok {
			continue
		}

		if err := store.Insert(ctx, fp); err != nil {
			return nil, fmt.Errorf("%w: insert fingerprint: %w", ErrStore, err)
		}
		newComments = append(newComments, comment)
	}

	return newComments, nil
}
