package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/highlights/pkg/adapters/fs"
	"github.com/aretw0/highlights/pkg/core"
)

// New creates a capture service on top of the repository built by Init.
//
//	svc, err := highlights.New("~/notes", highlights.WithLocation(time.UTC))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initWith(uri, o)
	if err != nil {
		return nil, err
	}

	var svcOpts []core.ServiceOption
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	if o.location != nil {
		svcOpts = append(svcOpts, core.WithLocation(o.location))
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}

	return core.NewService(repo, svcOpts...), nil
}

// Init builds and initializes the repository for uri.
// The uri is adapter-specific (a directory for "fs").
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initWith(uri, o)
}

func initWith(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case "fs":
		repo = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func initFS(path string, o *options) core.Repository {
	if path == "" {
		path = "."
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return fs.NewRepository(fs.Config{
		Path:         ExpandHome(path),
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       logger,
		ErrorHandler: o.errorHandler,
	})
}
