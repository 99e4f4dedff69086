package local

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drakos74/multilang-experiments/client"
	"github.com/drakos74/multilang-experiments/internal/math"
	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/drakos74/multilang-experiments/internal/storage/file/json"
	cointime "github.com/drakos74/multilang-experiments/internal/time"
)

const (
	modelFile = "model.json"
	// Name is the model name reported for the local classifier.
	Name = "local-hashing"
)

// Config defines the local classifier.
type Config struct {
	Backend      string
	Features     int
	Steps        int
	Neighbours   int
	Labels       []string
	CaptureState bool
	Workers      int
	Seed         int64
}

// Artifact is the description of a trained model written into its workspace.
type Artifact struct {
	Name     string            `json:"name"`
	Backend  string            `json:"backend"`
	Dataset  string            `json:"dataset"`
	Labels   []string          `json:"labels"`
	Features int               `json:"features"`
	Steps    int               `json:"steps"`
	Examples int               `json:"examples"`
	Loss     float64           `json:"loss"`
	Duration cointime.Duration `json:"duration"`
}

type handle struct {
	dataset   string
	labels    model.LabelMapping
	workspace string
	estimator estimator
	loss      float64
	released  bool
}

func (h *handle) Dataset() string {
	return h.dataset
}

func (h *handle) Labels() model.LabelMapping {
	return h.labels
}

func (h *handle) Workspace() string {
	return h.workspace
}

// Classifier is a bag-of-words text classifier over hashed features.
type Classifier struct {
	cfg   Config
	mutex *sync.Mutex
}

// NewClassifier creates a new local classifier.
func NewClassifier(cfg Config) (*Classifier, error) {
	if len(cfg.Labels) == 0 {
		return nil, fmt.Errorf("no labels configured: %w", model.ErrExternalCapability)
	}
	if cfg.Features <= 0 {
		return nil, fmt.Errorf("invalid feature size %d: %w", cfg.Features, model.ErrExternalCapability)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Classifier{
		cfg:   cfg,
		mutex: new(sync.Mutex),
	}, nil
}

func (c *Classifier) Name() string {
	return fmt.Sprintf("%s-%s", Name, c.cfg.Backend)
}

func (c *Classifier) Train(ctx context.Context, req client.TrainRequest) (client.Handle, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	start := time.Now()
	cfg := c.cfg
	if req.Steps > 0 {
		cfg.Steps = req.Steps
	}

	examples, err := ReadSplit(req.DataDir, client.TrainSplit, cfg.Labels)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not load '%s'", req.Dataset)
	}
	x, err := featurize(ctx, examples, cfg.Features, cfg.Workers)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not featurize '%s'", req.Dataset)
	}
	y := classes(examples)

	est, err := newEstimator(cfg, len(cfg.Labels), req.Workspace)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not create estimator")
	}
	rand.Seed(cfg.Seed)
	if err := est.Fit(x, y); err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not train on '%s'", req.Dataset)
	}
	if err := ctx.Err(); err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "training on '%s' interrupted", req.Dataset)
	}

	pp, err := est.Probabilities(x)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not score training set '%s'", req.Dataset)
	}

	h := &handle{
		dataset:   req.Dataset,
		labels:    model.NewLabelMapping(cfg.Labels...),
		workspace: req.Workspace,
		estimator: est,
		loss:      math.MeanCrossEntropy(pp, y),
	}

	artifact := Artifact{
		Name:     Name,
		Backend:  cfg.Backend,
		Dataset:  req.Dataset,
		Labels:   cfg.Labels,
		Features: cfg.Features,
		Steps:    cfg.Steps,
		Examples: len(examples),
		Loss:     h.loss,
		Duration: cointime.Since(start),
	}
	if err := json.Save(req.Workspace, modelFile, artifact); err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not save model for '%s'", req.Dataset)
	}

	log.Info().
		Str("dataset", req.Dataset).
		Str("backend", cfg.Backend).
		Int("examples", len(examples)).
		Float64("loss", h.loss).
		Str("duration", artifact.Duration.String()).
		Msg("trained")
	return h, nil
}

func (c *Classifier) Predict(ctx context.Context, h client.Handle, dataDir string, split client.Split) ([]client.Prediction, error) {
	lh, err := c.handle(h)
	if err != nil {
		return nil, err
	}
	examples, err := ReadSplit(dataDir, split, c.cfg.Labels)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not load '%s'", filepath.Base(dataDir))
	}
	x, err := featurize(ctx, examples, c.cfg.Features, c.cfg.Workers)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not featurize '%s'", filepath.Base(dataDir))
	}
	pp, err := lh.estimator.Probabilities(x)
	if err != nil {
		return nil, model.Wrap(model.ErrExternalCapability, err, "could not predict '%s'", filepath.Base(dataDir))
	}

	predictions := make([]client.Prediction, len(examples))
	for i, e := range examples {
		predictions[i] = client.Prediction{
			ExampleID:     e.ID,
			Label:         e.Label,
			Probabilities: pp[i],
		}
		if c.cfg.CaptureState {
			predictions[i].State = x[i]
		}
	}
	return predictions, nil
}

func (c *Classifier) Evaluate(ctx context.Context, h client.Handle, dataDir string) (client.Evaluation, error) {
	lh, err := c.handle(h)
	if err != nil {
		return client.Evaluation{}, err
	}
	predictions, err := c.Predict(ctx, h, dataDir, client.DevSplit)
	if err != nil {
		return client.Evaluation{}, err
	}
	pp := make([][]float64, len(predictions))
	y := make([]int, len(predictions))
	for i, p := range predictions {
		pp[i] = p.Probabilities
		y[i] = p.Label
	}
	return client.Evaluation{
		Loss:     lh.loss,
		EvalLoss: math.MeanCrossEntropy(pp, y),
		Extra: map[string]float64{
			"eval_examples": float64(len(predictions)),
		},
	}, nil
}

func (c *Classifier) Release(h client.Handle) error {
	lh, err := c.handle(h)
	if err != nil {
		return err
	}
	lh.released = true
	lh.estimator = nil
	return nil
}

func (c *Classifier) handle(h client.Handle) (*handle, error) {
	lh, ok := h.(*handle)
	if !ok || lh == nil {
		return nil, model.Errorf(model.ErrExternalCapability, "handle %v does not belong to the local classifier", h)
	}
	if lh.released {
		return nil, model.Errorf(model.ErrExternalCapability, "model for '%s' is already released", lh.dataset)
	}
	return lh, nil
}

func classes(examples []Example) []int {
	y := make([]int, len(examples))
	for i, e := range examples {
		y[i] = e.Label
	}
	return y
}
