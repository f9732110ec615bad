// Package lifecycle exposes note change events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/highlights/pkg/core"
)

// NoteChange is a note event resolved against the notes directory.
type NoteChange struct {
	core.Event
	Path string
}

func (c NoteChange) String() string {
	if c.Path == "" {
		return c.Event.String()
	}
	return fmt.Sprintf("%s (%s)", c.Event.String(), c.Path)
}

// SourceOption tunes a note source.
type SourceOption func(*noteSource)

// WithDir resolves each event's note ID to a file under dir.
func WithDir(dir string) SourceOption {
	return func(s *noteSource) { s.dir = dir }
}

// OnlyTypes drops events whose type is not listed.
func OnlyTypes(types ...core.EventType) SourceOption {
	return func(s *noteSource) { s.types = types }
}

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	dir    string
	types  []core.EventType
}

// NewSource creates a lifecycle.Source that emits a NoteChange per event.
// The output channel is closed once the input is drained or ctx is done.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *noteSource) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		var e core.Event
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.events:
			if !ok {
				return nil
			}
			e = ev
		}

		if len(s.types) > 0 && !slices.Contains(s.types, e.Type) {
			continue
		}

		change := NoteChange{Event: e}
		if s.dir != "" {
			change.Path = filepath.Join(s.dir, e.ID+".md")
		}

		select {
		case s.out <- change:
		case <-ctx.Done():
			return nil
		}
	}
}
