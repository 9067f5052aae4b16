// Package clientstate persists per-client state (cart, theme, language,
// search history) behind one versioned, transactional store.
package clientstate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	bolt "go.etcd.io/bbolt"
)

// Backend stores raw values per client and key. Update runs fn as a single
// read-modify-write transaction: a nil result deletes the key and an error
// aborts without writing.
type Backend interface {
	View(ctx context.Context, clientID, key string) ([]byte, error)
	Update(ctx context.Context, clientID, key string, fn func(current []byte) ([]byte, error)) error
	Close() error
}

var rootBucket = []byte("clients")

// BoltBackend keeps one nested bucket per client inside a bbolt file.
type BoltBackend struct {
	db *bolt.DB
}

func NewBoltBackend(path string) (*BoltBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create client state dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open client state db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init client state db: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) View(ctx context.Context, clientID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		client := tx.Bucket(rootBucket).Bucket([]byte(clientID))
		if client == nil {
			return nil
		}
		if v := client.Get([]byte(key)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

func (b *BoltBackend) Update(ctx context.Context, clientID, key string, fn func([]byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		client, err := tx.Bucket(rootBucket).CreateBucketIfNotExists([]byte(clientID))
		if err != nil {
			return err
		}
		var current []byte
		if v := client.Get([]byte(key)); v != nil {
			current = append([]byte(nil), v...)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return client.Delete([]byte(key))
		}
		return client.Put([]byte(key), next)
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// A WATCH transaction only fails when another writer committed, so with n
// concurrent writers each one retries at most n-1 times.
const (
	maxTxRetries = 20
	txBackoff    = time.Millisecond
)

// RedisBackend stores each value under beluga:client:<id>:<key> and uses
// WATCH/MULTI for read-modify-write.
type RedisBackend struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisBackend expires idle client state after ttl; zero keeps it forever.
func NewRedisBackend(rdb *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{rdb: rdb, ttl: ttl}
}

func redisKey(clientID, key string) string {
	return "beluga:client:" + clientID + ":" + key
}

func (r *RedisBackend) View(ctx context.Context, clientID, key string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, redisKey(clientID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return v, err
}

func (r *RedisBackend) Update(ctx context.Context, clientID, key string, fn func([]byte) ([]byte, error)) error {
	k := redisKey(clientID, key)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, k)
				return nil
			}
			pipe.Set(ctx, k, next, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, txf, k)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * txBackoff):
		}
	}
	return fmt.Errorf("client state %s: too much contention", k)
}

func (r *RedisBackend) Close() error {
	return nil
}
