package fs

import (
	"context"
	"sync"

	"github.com/aretw0/highlights/pkg/core"
)

// Transaction implements core.Transaction for a single note file.
// The note lock is held from creation until Commit or Rollback.
type Transaction struct {
	repo   *Repository
	id     string
	unlock func()

	mu     sync.Mutex
	staged *string
	closed bool
}

func newTransaction(repo *Repository, id string, unlock func()) *Transaction {
	return &Transaction{
		repo:   repo,
		id:     id,
		unlock: unlock,
	}
}

// Get returns the staged content if any, otherwise the note on disk.
func (t *Transaction) Get(ctx context.Context) (core.Note, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.Note{}, core.ErrTxClosed
	}
	if t.staged != nil {
		return core.Note{ID: t.id, Content: *t.staged}, nil
	}
	return t.repo.Get(ctx, t.id)
}

// Save stages content for the note.
func (t *Transaction) Save(ctx context.Context, content string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTxClosed
	}
	t.staged = &content
	return nil
}

// Commit writes the staged content, if any, and releases the note.
// The lock is released even when the write fails.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTxClosed
	}
	t.closed = true
	defer t.unlock()

	if t.staged == nil {
		return nil
	}
	return t.repo.write(t.id, *t.staged)
}

// Rollback discards staged content and releases the note.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.staged = nil
	t.unlock()
	return nil
}
