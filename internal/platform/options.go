package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/highlights/pkg/core"
)

// options holds the internal configuration for the highlights service.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	adapter      string
	mustExist    bool
	readOnly     bool
	location     *time.Location
	clock        func() time.Time
	errorHandler func(error)
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
	}
}

// WithLogger sets the logger for the service and its repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter allows specifying the storage adapter to use by name (e.g. "fs").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithMustExist ensures the notes directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode. Captures fail with core.ErrReadOnly and
// the notes directory is never created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithLocation sets the timezone used to pick the date of a capture.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while watching
// the notes directory. Without it they are only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
