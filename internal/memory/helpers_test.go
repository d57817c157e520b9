package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/repository"
)

var errDiskFull = errors.New("disk full")

// failingBackend wraps a MemoryBackend and fails reads or writes on demand.
type failingBackend struct {
	*repository.MemoryBackend
	readErr  error
	writeErr error
}

func (b *failingBackend) Read(ctx context.Context) ([]byte, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return b.MemoryBackend.Read(ctx)
}

func (b *failingBackend) Write(ctx context.Context, data []byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	return b.MemoryBackend.Write(ctx, data)
}

// barrierBackend holds the first n reads until all n have happened, forcing
// the read-modify-write interleaving of concurrent appends.
type barrierBackend struct {
	*repository.MemoryBackend
	mu      sync.Mutex
	pending int
	release chan struct{}
}

func newBarrierBackend(n int) *barrierBackend {
	return &barrierBackend{
		MemoryBackend: repository.NewMemoryBackend(),
		pending:       n,
		release:       make(chan struct{}),
	}
}

func (b *barrierBackend) Read(ctx context.Context) ([]byte, error) {
	b.mu.Lock()
	if b.pending > 0 {
		b.pending--
		if b.pending == 0 {
			close(b.release)
		}
	}
	b.mu.Unlock()

	<-b.release
	return b.MemoryBackend.Read(ctx)
}

type staticHistory []domain.Exchange

func (h staticHistory) Load(context.Context) []domain.Exchange {
	return h
}

func makeExchanges(n int) []domain.Exchange {
	exchanges := make([]domain.Exchange, n)
	for i := range exchanges {
		exchanges[i] = domain.Exchange{
			User: fmt.Sprintf("q%d", i),
			Bot:  fmt.Sprintf("a%d", i),
		}
	}
	return exchanges
}
