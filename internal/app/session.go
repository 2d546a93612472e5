// Package app wires the fetcher, store, scheduler and renderer for one
// dashboard. A Session is the only place these are assembled; commands and
// front ends receive it instead of reaching for globals.
package app

import (
	"context"
	"os"

	"github.com/rileyhilliard/pollboard/internal/config"
	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/fetch"
	"github.com/rileyhilliard/pollboard/internal/logger"
	"github.com/rileyhilliard/pollboard/internal/refresh"
	"github.com/rileyhilliard/pollboard/internal/render"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// Session holds the components of a running dashboard.
type Session struct {
	Config    *config.Config
	Store     *snapshot.Store
	Fetcher   *fetch.Fetcher
	Scheduler *refresh.Scheduler
	Renderer  *render.Renderer
	Log       logger.Logger
}

type options struct {
	validation []config.ValidationOption
	fetch      refresh.FetchFunc
	storeOpts  []snapshot.Option
	noWidget   bool
}

// Option customizes New.
type Option func(*options)

// WithoutWidget skips loading the widget file. Used by terminal front ends.
func WithoutWidget() Option {
	return func(o *options) {
		o.noWidget = true
		o.validation = append(o.validation, config.SkipWidgetCheck())
	}
}

// WithFetchFunc replaces the HTTP fetch, for tests.
func WithFetchFunc(fn refresh.FetchFunc) Option {
	return func(o *options) {
		o.fetch = fn
	}
}

// WithStoreOptions passes options to the snapshot store.
func WithStoreOptions(opts ...snapshot.Option) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// New validates cfg and assembles a Session. Any configuration problem is
// returned here, before a refresh loop exists.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Session, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if log == nil {
		log = logger.Noop()
	}

	if err := config.Validate(cfg, o.validation...); err != nil {
		return nil, err
	}

	fopts := fetch.OptionsFromConfig(cfg.Source)
	fopts.Logger = log
	fetcher, err := fetch.New(fopts)
	if err != nil {
		return nil, err
	}

	var widget string
	if cfg.Server.Widget != "" && !o.noWidget {
		data, err := os.ReadFile(cfg.Server.Widget)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read the widget file "+cfg.Server.Widget,
				"Check server.widget in your .pollboard.yaml points at an HTML file.")
		}
		widget = string(data)
	}

	renderer, err := render.New(render.Options{
		Title:        cfg.Server.Title,
		Widget:       widget,
		PollFallback: cfg.Refresh.Interval,
	})
	if err != nil {
		return nil, err
	}

	fetchFn := o.fetch
	if fetchFn == nil {
		fetchFn = fetcher.Fetch
	}

	store := snapshot.NewStore(o.storeOpts...)
	scheduler := refresh.New(fetchFn, store, cfg.Refresh.Interval, refresh.WithLogger(log))

	return &Session{
		Config:    cfg,
		Store:     store,
		Fetcher:   fetcher,
		Scheduler: scheduler,
		Renderer:  renderer,
		Log:       log,
	}, nil
}

// Run drives the refresh loop until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.Log.Info("polling %s every %s (timeout %s)", s.Fetcher.URL(), s.Scheduler.Interval(), s.Fetcher.Timeout())
	return s.Scheduler.Run(ctx)
}

// Subscribe registers fn for every scheduler event. fn runs on the loop
// goroutine and must not block.
func (s *Session) Subscribe(fn func(refresh.Event)) {
	s.Scheduler.Subscribe(fn)
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() snapshot.Snapshot {
	return s.Store.Read()
}

// Refresh requests an immediate fetch.
func (s *Session) Refresh() {
	s.Scheduler.Trigger()
}
