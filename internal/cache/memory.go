package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryCache — процессный TTL-кэш: карта с фоновой уборкой просроченных
// записей. Подходит однопроцессным потребителям SDK (CLI, мобильный рантайм).
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	done     chan struct{}
	closeOne sync.Once
}

// NewMemory создаёт in-memory кэш. cleanupTick — период уборки;
// значение <= 0 отключает фоновую уборку (просрочка всё равно
// проверяется на чтении).
func NewMemory(cleanupTick time.Duration) Cache {
	c := &memoryCache{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	if cleanupTick > 0 {
		go c.janitor(cleanupTick)
	}

	return c
}

func (c *memoryCache) janitor(tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-t.C:
			c.mu.Lock()
			for key, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}

	return e.value, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()

	return nil
}

// Close останавливает уборщика; без Close кэш не будет собран GC.
func (c *memoryCache) Close() error {
	c.closeOne.Do(func() { close(c.done) })
	return nil
}
