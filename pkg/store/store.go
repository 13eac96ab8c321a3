// Package store keeps track of ledger actions which have already been
// executed, so assets are never moved twice for the same swap.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {

	// RecordLedgerAction keeps track of the transaction which executed the
	// action on the swap.
	RecordLedgerAction(ctx context.Context, swapID, action, txID string) error

	// LedgerAction returns the transaction of an action executed previously.
	LedgerAction(ctx context.Context, swapID, action string) (string, bool, error)
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the redis server of the url. The path of the url
// selects the database, e.g. redis://:password@localhost:6379/2.
func NewRedisStore(redisURL string) (Store, error) {
	parsedURL, err := url.Parse(redisURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid redis url %v", redisURL)
	}
	redisPassword, _ := parsedURL.User.Password()
	db := 0
	if path := parsedURL.Path; len(path) > 1 {
		db, err = strconv.Atoi(path[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %v", path[1:])
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     parsedURL.Host,
		Password: redisPassword,
		DB:       db,
	})
	return redisStore{client: client, prefix: "comit"}, nil
}

func (rs redisStore) RecordLedgerAction(ctx context.Context, swapID, action, txID string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return rs.client.Set(ctx, rs.key(swapID, action), txID, 0).Err()
}

func (rs redisStore) LedgerAction(ctx context.Context, swapID, action string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	txID, err := rs.client.Get(ctx, rs.key(swapID, action)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return txID, true, nil
}

func (rs redisStore) key(swapID, action string) string {
	return fmt.Sprintf("%v:%v", rs.prefix, actionKey(action, swapID))
}

type inMemStore struct {
	mu      *sync.RWMutex
	actions map[string]string
}

func NewInMemStore() Store {
	return &inMemStore{
		mu:      new(sync.RWMutex),
		actions: map[string]string{},
	}
}

func (s *inMemStore) RecordLedgerAction(ctx context.Context, swapID, action, txID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actions[actionKey(action, swapID)] = txID
	return nil
}

func (s *inMemStore) LedgerAction(ctx context.Context, swapID, action string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txID, ok := s.actions[actionKey(action, swapID)]
	return txID, ok, nil
}

func actionKey(action, swapID string) string {
	return fmt.Sprintf("%v-%v", action, swapID)
}
