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
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

var _ FingerprintStore = (*DB)(nil)

func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Таблица создается один раз, дальше только дописываем строки
	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS hn_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash_sha TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create hn_comments table: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Recent(ctx context.Context, n int) ([]Fingerprint, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT hash_sha
		FROM hn_comments
		ORDER BY id DESC
		LIMIT ?
	`, n)
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

func (db *DB) Insert(ctx context.Context, fp Fingerprint) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO hn_comments (hash_sha)
		VALUES (?)
	`, string(fp))
	return err
}
