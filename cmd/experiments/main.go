package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/multilang-experiments/client"
	"github.com/drakos74/multilang-experiments/client/local"
	"github.com/drakos74/multilang-experiments/infra/config"
	"github.com/drakos74/multilang-experiments/internal/api"
	"github.com/drakos74/multilang-experiments/internal/catalog"
	"github.com/drakos74/multilang-experiments/internal/metrics"
	"github.com/drakos74/multilang-experiments/internal/runner"
	"github.com/drakos74/multilang-experiments/internal/server"
	"github.com/drakos74/multilang-experiments/internal/storage"
	"github.com/drakos74/multilang-experiments/user/telegram"
	localuser "github.com/drakos74/multilang-experiments/user/local"
)

const (
	notifyNone     = "none"
	notifyLocal    = "local"
	notifyTelegram = "telegram"

	notificationsFile = "notifications.log"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the configured experiments and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339})

	cfg, opts, err := parseFlags(args, stderr)
	if err != nil {
		log.Error().Err(err).Msg("could not parse arguments")
		return 2
	}
	if opts.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cat, err := buildCatalog(cfg)
	if err != nil {
		log.Error().Err(err).Msg("could not build experiment catalog")
		return 1
	}

	notifier, closeNotifier, err := buildNotifier(cfg)
	if err != nil {
		log.Error().Err(err).Str("notify", cfg.Notify).Msg("could not create notifier")
		return 1
	}
	defer closeNotifier()

	cls, err := classifierFactory(cfg)()
	if err != nil {
		log.Error().Err(err).Msg("could not create classifier")
		return 1
	}

	observer := metrics.NewObserver()
	runnerOpts := []runner.Option{
		runner.WithNotifier(notifier),
		runner.WithObserver(observer),
	}
	if opts.dryRun {
		log.Warn().Msg("dry run, nothing will be persisted")
		runnerOpts = append(runnerOpts,
			runner.WithLog(storage.NewVoidLog()),
			runner.WithStore(storage.NewVoidStorage()),
			runner.WithRegistry(storage.NewVoidRegistry()),
		)
	}
	r := runner.New(cfg, cat, cls, runnerOpts...)

	if cfg.MetricsPort > 0 {
		srv := newServer(cfg.MetricsPort, opts.debug, r, observer)
		go func() {
			if err := srv.Run(); err != nil {
				log.Error().Err(err).Int("port", cfg.MetricsPort).Msg("metrics server stopped")
			}
		}()
	}

	reports := make([]*runner.Report, 0, cfg.Repeats)
	for i := 0; i < cfg.Repeats; i++ {
		ids, err := resolve(cat, cfg.Selector)
		if err != nil {
			log.Error().Err(err).Str("experiments", cfg.Selector).Msg("invalid experiment selection")
			return 2
		}
		log.Info().
			Int("repeat", i+1).
			Int("of", cfg.Repeats).
			Strs("experiments", ids).
			Str("user", cfg.User).
			Msg("start run")
		report, err := r.Run(ctx, ids)
		if err != nil {
			log.Error().Err(err).Int("repeat", i+1).Msg("run failed")
			return 1
		}
		reports = append(reports, report)
		log.Info().
			Int("repeat", i+1).
			Int("results", len(report.Results)).
			Int("trainings", report.Trainings).
			Str("duration", report.Duration.String()).
			Msg("run complete")
	}

	printSummary(stdout, runner.Summarize(reports...))
	return 0
}

// newServer exposes liveness, metrics and the runner status.
func newServer(port int, debug bool, r *runner.Runner, observer *metrics.Observer) *server.Server {
	srv := server.NewServer("experiments", port).
		Add(server.Live(), runner.StatusRoute(r)).
		Handle(server.Metrics, observer.Handler())
	if debug {
		srv = srv.Debug()
	}
	return srv
}

// buildCatalog returns the configured catalog, or the default one if the config has none.
func buildCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if len(cfg.Catalog) == 0 {
		return catalog.Default(), nil
	}
	return catalog.New(cfg.Catalog...)
}

// resolve expands the selector, an empty selector meaning the whole catalog.
func resolve(cat *catalog.Catalog, selector string) ([]string, error) {
	if selector == "" {
		return cat.IDs(), nil
	}
	return cat.Resolve(selector)
}

func classifierFactory(cfg config.Config) client.Factory {
	return func() (client.Classifier, error) {
		return local.NewClassifier(local.Config{
			Backend:      cfg.Model.Backend,
			Features:     cfg.Model.Features,
			Steps:        cfg.Model.Steps,
			Neighbours:   cfg.Model.Neighbours,
			Labels:       cfg.Model.Labels,
			CaptureState: cfg.CaptureState,
			Workers:      local.Workers(cfg.Accelerator),
			Seed:         cfg.Model.Seed,
		})
	}
}

func buildNotifier(cfg config.Config) (api.Notifier, func(), error) {
	noop := func() {}
	switch cfg.Notify {
	case "", notifyNone:
		return api.NewVoid(), noop, nil
	case notifyLocal:
		user, err := localuser.NewUser(filepath.Join(filepath.Dir(cfg.Paths.Log), notificationsFile))
		if err != nil {
			return nil, noop, err
		}
		return user, func() {
			if err := user.Close(); err != nil {
				log.Warn().Err(err).Msg("could not close notifications file")
			}
		}, nil
	case notifyTelegram:
		bot, err := telegram.NewBot()
		if err != nil {
			return nil, noop, err
		}
		return bot, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown notification channel '%s'", cfg.Notify)
}
