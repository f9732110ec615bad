package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Service handles the business logic for captures and notes.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location

	// mu serializes read-modify-write for repositories that are not Transactional.
	mu sync.RWMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used to pick today's note.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the timezone in which the capture date is computed.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithServiceLogger sets the logger for the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.Default(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture validates c and merges it into today's note.
func (s *Service) Capture(ctx context.Context, c Capture) (Result, error) {
	if strings.TrimSpace(c.Text) == "" {
		return Result{}, ErrEmptyText
	}
	if c.IncludeLink && c.URL == "" {
		return Result{}, ErrMissingURL
	}

	id := NoteID(s.now(), s.loc)
	res := Result{NoteID: id}

	err := s.WithNote(ctx, id, func(existing *string) (string, error) {
		res.Created = existing == nil
		res.LinkRecorded = linkAppended(existing, c.Text, c.URL, c.IncludeLink)
		return Merge(existing, c.Text, c.URL, c.IncludeLink), nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("capture saved",
		"note", id,
		"created", res.Created,
		"link_recorded", res.LinkRecorded,
	)
	return res, nil
}

// WithNote runs a locked read-modify-write cycle on the note with the given ID.
// fn receives the current content, or nil if the note does not exist, and
// returns the new content. Read errors other than ErrNotFound abort the cycle.
func (s *Service) WithNote(ctx context.Context, id string, fn func(existing *string) (string, error)) error {
	if err := ValidateNoteID(id); err != nil {
		return err
	}

	tr, ok := s.repo.(Transactional)
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.update(ctx, s.repo.Get, func(ctx context.Context, content string) error {
			return s.repo.Save(ctx, Note{ID: id, Content: content})
		}, id, fn)
	}

	tx, err := tr.Begin(ctx, id)
	if err != nil {
		return fmt.Errorf("begin transaction on %s: %w", id, err)
	}

	get := func(ctx context.Context, _ string) (Note, error) { return tx.Get(ctx) }
	if err := s.update(ctx, get, tx.Save, id, fn); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Warn("rollback failed", "note", id, "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit note %s: %w", id, err)
	}
	return nil
}

func (s *Service) update(
	ctx context.Context,
	get func(context.Context, string) (Note, error),
	save func(context.Context, string) error,
	id string,
	fn func(existing *string) (string, error),
) error {
	var existing *string
	note, err := get(ctx, id)
	switch {
	case err == nil:
		existing = &note.Content
	case errors.Is(err, ErrNotFound):
		s.logger.Debug("note absent, creating", "note", id)
	default:
		return fmt.Errorf("read note %s: %w", id, err)
	}

	content, err := fn(existing)
	if err != nil {
		return err
	}

	if err := save(ctx, content); err != nil {
		return fmt.Errorf("write note %s: %w", id, err)
	}
	return nil
}

// GetNote retrieves a note.
func (s *Service) GetNote(ctx context.Context, id string) (Note, error) {
	if err := ValidateNoteID(id); err != nil {
		return Note{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Get(ctx, id)
}

// ListNotes returns note IDs, oldest first. A non-empty pattern is a glob
// over the ID ("2024-03-*", "2024-0[1-3]-*") and keeps only matching notes.
func (s *Service) ListNotes(ctx context.Context, pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	ids, err := s.repo.List(ctx)
	if err != nil || pattern == "" {
		return ids, err
	}

	matched := make([]string, 0, len(ids))
	for _, id := range ids {
		if ok, _ := doublestar.Match(pattern, id); ok {
			matched = append(matched, id)
		}
	}
	return matched, nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}

// Today returns the ID of the note a capture made now would land in.
func (s *Service) Today() string {
	return NoteID(s.now(), s.loc)
}
