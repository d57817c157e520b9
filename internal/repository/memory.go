package repository

import (
	"context"
	"sync"
)

// MemoryBackend keeps the value in process memory. Used by tests and the
// "memory" storage driver.
type MemoryBackend struct {
	mu     sync.RWMutex
	data   []byte
	exists bool
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.exists {
		return nil, ErrNotExist
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	b.exists = true
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
