package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism.
type Repository interface {
	// Save persists a note. It creates if not exists, or updates if it does.
	Save(ctx context.Context, n Note) error

	// Get retrieves a note by its ID.
	// It returns an error matching ErrNotFound only when the note does not exist.
	Get(ctx context.Context, id string) (Note, error)

	// List returns the IDs of all stored notes in ascending order.
	List(ctx context.Context) ([]string, error)

	// Initialize ensures the underlying storage is ready (e.g., create directories).
	Initialize(ctx context.Context) error
}

// Transaction is a read-modify-write unit of work scoped to a single note.
// The note stays locked from Begin until Commit or Rollback.
type Transaction interface {
	// Get retrieves the note, preferring the staged version if one exists.
	Get(ctx context.Context) (Note, error)

	// Save stages new content for the note.
	Save(ctx context.Context, content string) error

	// Commit writes the staged content and releases the note.
	Commit(ctx context.Context) error

	// Rollback discards staged content and releases the note.
	Rollback(ctx context.Context) error
}

// Transactional is a repository that can lock a note for read-modify-write.
type Transactional interface {
	Repository

	// Begin locks the note with the given ID and starts a transaction on it.
	// It blocks until the lock is free or ctx is done.
	Begin(ctx context.Context, id string) (Transaction, error)
}

// Watchable is a repository that can report changes made to notes behind its back.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
