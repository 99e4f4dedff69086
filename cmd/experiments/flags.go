package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/drakos74/multilang-experiments/infra/config"
)

// options are the command line values that are not part of the run configuration.
type options struct {
	debug  bool
	dryRun bool
}

// parseFlags loads the config file and overrides it with every flag given explicitly.
func parseFlags(args []string, output io.Writer) (config.Config, options, error) {
	defaults := config.Default()
	fs := flag.NewFlagSet("experiments", flag.ContinueOnError)
	fs.SetOutput(output)

	configFile := fs.String("config", "", "Path to the yaml configuration file")
	accelerator := fs.Bool("accelerator", defaults.Accelerator, "Use all cpu cores if the cpu supports AVX2")
	user := fs.String("user", defaults.User, "User name recorded with every result")
	repeats := fs.Int("repeats", defaults.Repeats, "Number of independent runs of the experiment sequence")
	experiments := fs.String("experiments", defaults.Selector, "Experiments to run, e.g. '1-5,6,8-10' (default: the whole catalog)")
	steps := fs.Int("steps", defaults.Model.Steps, "Training steps")
	comment := fs.String("comment", defaults.Comment, "Free text comment recorded with every result")
	captureState := fs.Bool("capture-state", defaults.CaptureState, "Store the internal state of each prediction")
	backend := fs.String("model", defaults.Model.Backend, "Classifier backend (forest|knn)")
	data := fs.String("data", defaults.Paths.Data, "Directory holding one sub directory per dataset")
	outputDir := fs.String("output", defaults.Paths.Output, "Directory for the prediction files")
	metricsPort := fs.Int("metrics-port", defaults.MetricsPort, "Port of the metrics and status server, 0 disables it")
	notify := fs.String("notify", defaults.Notify, "Notification channel (none|local|telegram)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	dryRun := fs.Bool("dry-run", false, "Run the experiments without writing results or predictions")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, options{}, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, options{}, fmt.Errorf("unexpected arguments %v", fs.Args())
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return config.Config{}, options{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "accelerator":
			cfg.Accelerator = *accelerator
		case "user":
			cfg.User = *user
		case "repeats":
			cfg.Repeats = *repeats
		case "experiments":
			cfg.Selector = *experiments
		case "steps":
			cfg.Model.Steps = *steps
		case "comment":
			cfg.Comment = *comment
		case "capture-state":
			cfg.CaptureState = *captureState
		case "model":
			cfg.Model.Backend = *backend
		case "data":
			cfg.Paths.Data = *data
		case "output":
			cfg.Paths.Output = *outputDir
		case "metrics-port":
			cfg.MetricsPort = *metricsPort
		case "notify":
			cfg.Notify = *notify
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, options{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, options{debug: *debug, dryRun: *dryRun}, nil
}
