package mocks

import (
	"context"
	"time"

	"github.com/dlir2404/intel-money-backend-sub000/pkg/cache"
	"github.com/stretchr/testify/mock"
)

type Cache struct {
	mock.Mock
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	args := c.Called(ctx, key)
	value, _ := args.Get(0).([]byte)
	return value, args.Error(1)
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := c.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (c *Cache) Replace(ctx context.Context, key string, value []byte) (bool, error) {
	args := c.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	args := c.Called(ctx, keys)
	return args.Error(0)
}

type Locker struct {
	mock.Mock
}

func (l *Locker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (cache.Lease, bool, error) {
	args := l.Called(ctx, key, ttl)
	return args.Get(0).(cache.Lease), args.Bool(1), args.Error(2)
}

func (l *Locker) Release(ctx context.Context, lease cache.Lease) error {
	args := l.Called(ctx, lease)
	return args.Error(0)
}
