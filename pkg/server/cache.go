package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type localEntry struct {
	expires time.Time
	data    []byte
}

// Cache is a redis-backed response cache with a short-lived in-process
// layer in front of it.
type Cache struct {
	client   *redis.Client
	ctx      context.Context
	mu       sync.Mutex
	memCache map[string]localEntry
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{
		client:   rdb,
		ctx:      context.Background(),
		memCache: make(map[string]localEntry),
	}
}

func (c *Cache) Get(key string, out any) error {
	c.mu.Lock()
	local, found := c.memCache[key]
	if found && time.Now().Before(local.expires) {
		c.mu.Unlock()
		return json.Unmarshal(local.data, out)
	}
	if found {
		delete(c.memCache, key)
	}
	c.mu.Unlock()

	data, err := c.client.Get(c.ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err = json.Unmarshal(data, out); err != nil {
		return err
	}

	c.mu.Lock()
	c.memCache[key] = localEntry{expires: time.Now().Add(time.Minute), data: data}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.memCache[key] = localEntry{expires: time.Now().Add(expiration), data: data}
	c.mu.Unlock()
	return c.client.Set(c.ctx, key, data, expiration).Err()
}

func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.memCache, key)
	}
	c.mu.Unlock()
	c.client.Del(c.ctx, keys...)
}

func (c *Cache) Close() {
	c.client.Close()
}
