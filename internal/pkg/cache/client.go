package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define o contrato de cache usado pelos repositórios e middlewares.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr incrementa o contador; na criação da chave aplica expiration.
	Incr(ctx context.Context, key string, expiration time.Duration) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = errors.New("cache: miss")

// RedisClient é a implementação concreta da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient cria o cliente e faz um PING para garantir que o Redis está disponível.
func NewRedisClient(ctx context.Context, addr string, timeout time.Duration) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: timeout,
		ReadTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &RedisClient{rdb: rdb}, nil
}

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Incr executa INCR e aplica EXPIRE só quando o contador é criado (n == 1).
func (c *RedisClient) Incr(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 && expiration > 0 {
		if err := c.rdb.Expire(ctx, key, expiration).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *RedisClient) GetInt(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, ErrCacheMiss
	}
	return n, err
}

func (c *RedisClient) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close encerra as conexões com o Redis.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
