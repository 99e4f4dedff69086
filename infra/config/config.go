package config

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/drakos74/multilang-experiments/internal/model"
)

const (
	ForestBackend = "forest"
	KnnBackend    = "knn"
)

// Config is the full configuration of an experiment run.
// It is built once at startup and passed around by value.
type Config struct {
	User         string             `yaml:"user"`
	Comment      string             `yaml:"comment"`
	Repeats      int                `yaml:"repeats"`
	Selector     string             `yaml:"experiments"`
	Accelerator  bool               `yaml:"accelerator"`
	CaptureState bool               `yaml:"capture_state"`
	MetricsPort  int                `yaml:"metrics_port"`
	Notify       string             `yaml:"notify"`
	Model        Model              `yaml:"model"`
	Training     Training           `yaml:"training"`
	Paths        Paths              `yaml:"paths"`
	Catalog      []model.Experiment `yaml:"catalog"`
}

// Model defines the classifier.
type Model struct {
	Name       string   `yaml:"name"`
	Backend    string   `yaml:"backend"`
	Steps      int      `yaml:"steps"`
	Features   int      `yaml:"features"`
	Neighbours int      `yaml:"neighbours"`
	Labels     []string `yaml:"labels"`
	Seed       int64    `yaml:"seed"`
}

// Training is the hyperparameter snapshot recorded with every result.
type Training struct {
	LearningRate     float64 `yaml:"learning_rate"`
	MaxSeqLength     int     `yaml:"max_seq_length"`
	TrainBatchSize   int     `yaml:"train_batch_size"`
	EvalBatchSize    int     `yaml:"eval_batch_size"`
	PredictBatchSize int     `yaml:"predict_batch_size"`
	WarmupProportion float64 `yaml:"warmup_proportion"`
	Epochs           int     `yaml:"num_train_epochs"`
}

// Paths defines where datasets are read from and results are written to.
type Paths struct {
	Data   string `yaml:"data"`
	Output string `yaml:"output"`
	Work   string `yaml:"work"`
	Log    string `yaml:"log"`
	Events string `yaml:"events"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		User:    "user",
		Repeats: 1,
		Notify:  "none",
		Model: Model{
			Backend:    ForestBackend,
			Steps:      100,
			Features:   256,
			Neighbours: 10,
			Labels:     []string{"positive", "neutral", "negative"},
			Seed:       44111342,
		},
		Training: Training{
			LearningRate:     2e-5,
			MaxSeqLength:     128,
			TrainBatchSize:   64,
			EvalBatchSize:    8,
			PredictBatchSize: 64,
			WarmupProportion: 0.1,
			Epochs:           3,
		},
		Paths: Paths{
			Data:   "data",
			Output: "file-storage/predictions",
			Work:   "file-storage/workspace",
			Log:    "file-storage/trainlog.csv",
			Events: "file-storage/registry",
		},
	}
}

// Hyperparameters returns the training snapshot keyed by the result log columns.
func (c Config) Hyperparameters() map[string]float64 {
	return map[string]float64{
		"learning_rate":      c.Training.LearningRate,
		"max_seq_length":     float64(c.Training.MaxSeqLength),
		"train_batch_size":   float64(c.Training.TrainBatchSize),
		"eval_batch_size":    float64(c.Training.EvalBatchSize),
		"predict_batch_size": float64(c.Training.PredictBatchSize),
		"warmup_proportion":  c.Training.WarmupProportion,
		"num_train_epochs":   float64(c.Training.Epochs),
	}
}

// Validate checks the configuration for values the runner cannot work with.
func (c Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("no user given")
	}
	if strings.ContainsAny(c.User, `/\`) || c.User == "." || c.User == ".." {
		return fmt.Errorf("invalid user '%s'", c.User)
	}
	if c.Repeats < 1 {
		return fmt.Errorf("invalid repeats %d", c.Repeats)
	}
	if c.Model.Steps < 1 {
		return fmt.Errorf("invalid train steps %d", c.Model.Steps)
	}
	if c.Model.Features < 1 {
		return fmt.Errorf("invalid feature size %d", c.Model.Features)
	}
	if len(c.Model.Labels) == 0 {
		return fmt.Errorf("no labels given")
	}
	switch c.Model.Backend {
	case ForestBackend, KnnBackend:
	default:
		return fmt.Errorf("unknown model backend '%s'", c.Model.Backend)
	}
	if c.Paths.Output == "" || c.Paths.Work == "" || c.Paths.Log == "" || c.Paths.Events == "" {
		return fmt.Errorf("incomplete paths %+v", c.Paths)
	}
	for _, e := range c.Catalog {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the yaml file at the given path over the default configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not load config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("could not unmarshal config '%s': %w", path, err)
	}
	log.Info().Str("path", path).Msg("loaded config")
	return cfg, nil
}

// MustLoad loads the config at the given path and panics on failure.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
