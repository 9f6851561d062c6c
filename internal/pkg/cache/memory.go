package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero = sem expiração
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// sweepInterval é o intervalo mínimo entre varreduras de entradas expiradas.
const sweepInterval = time.Minute

// MemoryClient é um Client em memória para desenvolvimento local e testes.
// Entradas expiradas são removidas ao serem lidas e, para chaves que não voltam
// a ser acessadas (rate-limit por IP, tokens revogados), numa varredura feita nas escritas.
type MemoryClient struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryClient) lookup(key string) (memoryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// sweepLocked remove as entradas expiradas. Deve ser chamada com c.mu travado.
func (c *MemoryClient) sweepLocked(now time.Time) {
	if now.Sub(c.lastSweep) < sweepInterval {
		return
	}
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

// Len devolve quantas entradas estão guardadas, expiradas ou não.
func (c *MemoryClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	e, ok := c.lookup(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return e.value, nil
}

func (c *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprint(v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := memoryEntry{value: s}
	if expiration > 0 {
		e.expiresAt = now.Add(expiration)
	}
	c.sweepLocked(now)
	c.entries[key] = e
	return nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryClient) Incr(_ context.Context, key string, expiration time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepLocked(now)
	e, ok := c.entries[key]
	if !ok || e.expired(now) {
		e = memoryEntry{value: "0"}
		if expiration > 0 {
			e.expiresAt = now.Add(expiration)
		}
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache: value at %q is not an integer", key)
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	c.entries[key] = e
	return n, nil
}

func (c *MemoryClient) GetInt(ctx context.Context, key string) (int64, error) {
	s, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *MemoryClient) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.lookup(key)
	return ok, nil
}
