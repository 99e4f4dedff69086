package runner

import (
	"time"

	"github.com/drakos74/multilang-experiments/internal/api"
	"github.com/drakos74/multilang-experiments/internal/metrics"
	"github.com/drakos74/multilang-experiments/internal/storage"
	"github.com/drakos74/multilang-experiments/internal/storage/workspace"
)

// Option configures the runner.
type Option func(r *Runner)

// WithLog sets the log the result rows are appended to.
func WithLog(l storage.Log) Option {
	return func(r *Runner) {
		r.results = l
	}
}

// WithStore sets the prediction store.
func WithStore(p storage.Persistence) Option {
	return func(r *Runner) {
		r.store = p
	}
}

// WithRegistry sets the registry the results are mirrored to.
func WithRegistry(registry storage.Registry) Option {
	return func(r *Runner) {
		r.registry = registry
	}
}

// WithWorkspaces sets the pool training workspaces are allocated from.
func WithWorkspaces(pool *workspace.Pool) Option {
	return func(r *Runner) {
		r.workspaces = pool
	}
}

// WithNotifier sets the notifier for completed and failed sequences.
func WithNotifier(n api.Notifier) Option {
	return func(r *Runner) {
		r.notifier = n
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o *metrics.Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithClock sets the clock used for result dates.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
