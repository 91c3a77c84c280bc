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

import (
	"context"
	"sync"
)

// MemoryStore keeps fingerprints in an append-only slice. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []Fingerprint
}

var _ FingerprintStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Recent(ctx context.Context, n int) ([]Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.rows) {
		n = len(s.rows)
	}

	fingerprints := make([]Fingerprint, 0, n)
	for i := len(s.rows) - 1; i >= len(s.rows)-n; i-- {
		fingerprints = append(fingerprints, s.rows[i])
	}

	return fingerprints, nil
}

func (s *MemoryStore) Insert(ctx context.Context, fp Fingerprint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, fp)

	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
