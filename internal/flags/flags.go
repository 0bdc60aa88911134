// Package flags stores one-time notice flags outside SQLite: in Redis,
// shared by every serve replica, or in process memory.
package flags

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const decimalNoticeKey = "notice:decimals_shown"

// RedisFlags keeps flags in Redis under prefix:client:key.
type RedisFlags struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisFlags scopes flags to one client id. A zero ttl keeps keys
// forever.
func NewRedisFlags(client *redis.Client, prefix, clientID string, ttl time.Duration) *RedisFlags {
	if clientID == "" {
		clientID = "anonymous"
	}
	return &RedisFlags{
		client: client,
		prefix: strings.TrimSuffix(prefix, ":") + ":" + clientID + ":",
		ttl:    ttl,
	}
}

func (f *RedisFlags) key(name string) string {
	return f.prefix + name
}

// DecimalNoticeShown reports whether the decimals disclaimer was shown.
func (f *RedisFlags) DecimalNoticeShown(ctx context.Context) (bool, error) {
	err := f.client.Get(ctx, f.key(decimalNoticeKey)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkDecimalNoticeShown records that the decimals disclaimer was shown.
func (f *RedisFlags) MarkDecimalNoticeShown(ctx context.Context) error {
	return f.client.Set(ctx, f.key(decimalNoticeKey), "1", f.ttl).Err()
}

// ResetDecimalNotice forgets the decimals disclaimer.
func (f *RedisFlags) ResetDecimalNotice(ctx context.Context) error {
	return f.client.Del(ctx, f.key(decimalNoticeKey)).Err()
}

// Memory keeps flags in process memory.
type Memory struct {
	mu       sync.Mutex
	decimals bool
}

// NewMemory returns an empty in-memory flag set.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) DecimalNoticeShown(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decimals, nil
}

func (m *Memory) MarkDecimalNoticeShown(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decimals = true
	return nil
}

func (m *Memory) ResetDecimalNotice(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decimals = false
	return nil
}
