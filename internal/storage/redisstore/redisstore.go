package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"netattend/internal/storage"
)

// Store persists collections as redis string values.
type Store struct {
	client *redis.Client
}

func New(redisAddr string) (*Store, error) {
	const op = "storage.redisstore.New"

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.redisstore.Get"

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %s: %w", op, key, storage.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return raw, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.redisstore.Set"

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
