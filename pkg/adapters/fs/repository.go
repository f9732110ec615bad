// Package fs stores notes as one markdown file per date in a directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/highlights/pkg/core"
)

// Repository implements core.Repository on a directory of markdown files.
type Repository struct {
	Path   string
	config Config
	locks  *keyLocker

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
	selfWrites    map[string]time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{
		Path:       config.Path,
		config:     config,
		locks:      newKeyLocker(),
		selfWrites: make(map[string]time.Time),
	}
}

// Initialize makes sure the notes directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("notes path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat notes path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("notes path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}
	return nil
}

func (r *Repository) filename(id string) string {
	return filepath.Join(r.Path, id+".md")
}

// Get reads the note with the given ID.
// A missing file yields core.ErrNotFound; every other failure is returned as is.
func (r *Repository) Get(ctx context.Context, id string) (core.Note, error) {
	if err := core.ValidateNoteID(id); err != nil {
		return core.Note{}, err
	}

	data, err := os.ReadFile(r.filename(id))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return core.Note{}, fmt.Errorf("note %s: %w", id, core.ErrNotFound)
		}
		return core.Note{}, fmt.Errorf("failed to read note %s: %w", id, err)
	}

	return core.Note{ID: id, Content: string(data)}, nil
}

// Save writes the note atomically, replacing any previous content.
// It does not take the note lock; use Begin for read-modify-write.
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateNoteID(n.ID); err != nil {
		return err
	}
	return r.write(n.ID, n.Content)
}

func (r *Repository) write(id, content string) error {
	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}

	r.mu.Lock()
	r.selfWrites[id] = time.Now()
	r.mu.Unlock()

	if err := writeFileAtomic(r.filename(id), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write note %s: %w", id, err)
	}

	r.config.Logger.Debug("note written", "note", id, "bytes", len(content))
	return nil
}

// List returns the IDs of the notes in the directory, oldest first.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := noteIDFromName(e.Name())
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// noteIDFromName maps a file name to a note ID when it names a note.
func noteIDFromName(name string) (string, bool) {
	if isTempFile(name) {
		return "", false
	}
	id, ok := strings.CutSuffix(name, ".md")
	if !ok || core.ValidateNoteID(id) != nil {
		return "", false
	}
	return id, true
}

// Begin locks the note and starts a read-modify-write transaction on it.
func (r *Repository) Begin(ctx context.Context, id string) (core.Transaction, error) {
	if r.config.ReadOnly {
		return nil, core.ErrReadOnly
	}
	if err := core.ValidateNoteID(id); err != nil {
		return nil, err
	}

	unlock, err := r.locks.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock note %s: %w", id, err)
	}
	return newTransaction(r, id, unlock), nil
}

// isSelfWrite reports whether id was written by this repository within window.
func (r *Repository) isSelfWrite(id string, window time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.selfWrites[id]
	if !ok {
		return false
	}
	if time.Since(at) > window {
		delete(r.selfWrites, id)
		return false
	}
	return true
}

var (
	_ core.Transactional = (*Repository)(nil)
	_ core.Watchable     = (*Repository)(nil)
)
