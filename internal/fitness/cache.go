package fitness

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// Cache 以基因组为键缓存适应度
type Cache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, fitness float64) error
}

// GenomeKey 基因组的 64 位哈希，按基因的二进制表示计算
func GenomeKey(genes []float64) string {
	d := xxhash.New()
	var buf [8]byte
	for _, g := range genes {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(g))
		d.Write(buf[:])
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

type MemoryCache struct {
	mu     sync.RWMutex
	values map[string]float64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string]float64)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, exists := c.values[key]
	return v, exists, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, fitness float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = fitness
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.values)
}

// RedisCache 同一个问题的多次运行共享的缓存
type RedisCache struct {
	client     *redis.Client
	prefix     string
	expiration time.Duration
}

func NewRedisCache(client *redis.Client, problemID string, expiration time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		prefix:     fmt.Sprintf("ltga:fitness:%s:", problemID),
		expiration: expiration,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (float64, bool, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, fitness float64) error {
	return c.client.Set(ctx, c.prefix+key, fitness, c.expiration).Err()
}

// CachedFunction 带缓存的适应度函数，缓存读写失败时直接计算
type CachedFunction struct {
	fn     Function
	cache  Cache
	hits   atomic.Int64
	misses atomic.Int64
}

func Cached(fn Function, cache Cache) *CachedFunction {
	return &CachedFunction{fn: fn, cache: cache}
}

func (c *CachedFunction) Evaluate(ctx context.Context, genes []float64) (float64, error) {
	key := GenomeKey(genes)
	if v, exists, err := c.cache.Get(ctx, key); err == nil && exists {
		c.hits.Add(1)
		return v, nil
	}

	c.misses.Add(1)
	v, err := c.fn.Evaluate(ctx, genes)
	if err != nil {
		return 0, err
	}
	_ = c.cache.Set(ctx, key, v)
	return v, nil
}

func (c *CachedFunction) SubProblemsSolved(genes []float64) []int {
	return c.fn.SubProblemsSolved(genes)
}

func (c *CachedFunction) Hits() int64 {
	return c.hits.Load()
}

func (c *CachedFunction) Misses() int64 {
	return c.misses.Load()
}
