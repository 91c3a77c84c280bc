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
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "hnotify:fingerprints"

type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps fingerprints in a Redis list. New entries are pushed
// to the head, so the list index is the insertion order reversed.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ FingerprintStore = (*RedisStore)(nil)

func NewRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	key := opts.Key
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Recent(ctx context.Context, n int) ([]Fingerprint, error) {
	if n <= 0 {
		return nil, nil
	}

	values, err := s.client.LRange(ctx, s.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	fingerprints := make([]Fingerprint, 0, len(values))
	for _, value := range values {
		fingerprints = append(fingerprints, Fingerprint(value))
	}

	return fingerprints, nil
}

func (s *RedisStore) Insert(ctx context.Context, fp Fingerprint) error {
	return s.client.LPush(ctx, s.key, string(fp)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
