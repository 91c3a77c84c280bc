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
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	Pool *pgxpool.Pool
}

var _ FingerprintStore = (*PostgresStore)(nil)

func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	s := &PostgresStore{Pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS hn_comments (
		id BIGSERIAL PRIMARY KEY,
		hash_sha TEXT NOT NULL,
		created_at TIMESTAMPTZ DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, n int) ([]Fingerprint, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.Pool.Query(ctx, "SELECT hash_sha FROM hn_comments ORDER BY id DESC LIMIT $1", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fingerprints := make([]Fingerprint, 0, n)
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, err
		}
		fingerprints = append(fingerprints, Fingerprint(fp))
	}

	return fingerprints, rows.Err()
}

func (s *PostgresStore) Insert(ctx context.Context, fp Fingerprint) error {
	_, err := s.Pool.Exec(ctx, "INSERT INTO hn_comments (hash_sha) VALUES ($1)", string(fp))
	return err
}

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}
