package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient behaves as an always-empty cache unless individual methods
// are overridden.
type MockRedisClient struct {
	ExistFunc  func(ctx context.Context, key string) (bool, error)
	DelFunc    func(ctx context.Context, key ...string) error
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", redis.Nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return redis.Nil
}

// InMemoryRedisClient is a map-backed cache for tests asserting caching
// behavior. TTLs are recorded but never expire a key.
type InMemoryRedisClient struct {
	mutex  sync.Mutex
	values map[string]string
}

func NewInMemoryRedisClient() *InMemoryRedisClient {
	return &InMemoryRedisClient{values: map[string]string{}}
}

func (c *InMemoryRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, ok := c.values[key]
	return ok, nil
}

func (c *InMemoryRedisClient) Del(ctx context.Context, key ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, k := range key {
		delete(c.values, k)
	}

	return nil
}

func (c *InMemoryRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.values[key] = value
	return nil
}

func (c *InMemoryRedisClient) Get(ctx context.Context, key string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	value, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (c *InMemoryRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.Set(ctx, key, string(b), ttl)
}

func (c *InMemoryRedisClient) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}
