package highlights

import (
	"log/slog"
	"time"

	"github.com/aretw0/highlights/internal/platform"
	"github.com/aretw0/highlights/pkg/core"
)

// --- Types ---

// Capture is a public alias for core.Capture.
type Capture = core.Capture

// Note is a public alias for core.Note.
type Note = core.Note

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the notes without allowing captures.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLocation sets the timezone used to date captures.
func WithLocation(loc *time.Location) Option {
	return platform.WithLocation(loc)
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithWatcherErrorHandler registers a callback for watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a capture service for the notes at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// Merge is core.Merge, re-exported for callers that only need the policy.
func Merge(existing *string, text, url string, includeLink bool) string {
	return core.Merge(existing, text, url, includeLink)
}
