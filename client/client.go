package client

import (
	"context"

	"github.com/drakos74/multilang-experiments/internal/model"
)

// Split names one of the files of a dataset directory.
type Split string

const (
	TrainSplit Split = "train"
	DevSplit   Split = "dev"
	TestSplit  Split = "test"
)

// TrainRequest defines a training invocation.
type TrainRequest struct {
	// Dataset is the name of the training dataset.
	Dataset string
	// DataDir is the directory holding the dataset splits.
	DataDir string
	// Workspace is the isolated directory the classifier may write its artifacts to.
	Workspace string
	Steps     int
}

// Handle is an opaque reference to a trained model, bound to one training dataset.
type Handle interface {
	Dataset() string
	Labels() model.LabelMapping
	Workspace() string
}

// Prediction is the classifier output for a single example.
type Prediction struct {
	ExampleID     string
	Label         int
	Probabilities []float64
	State         []float64
}

// Evaluation holds the losses reported for a trained model.
type Evaluation struct {
	Loss     float64
	EvalLoss float64
	Extra    map[string]float64
}

// Classifier is the external train, predict and evaluate capability.
type Classifier interface {
	// Name is the model name written to the result log.
	Name() string
	Train(ctx context.Context, req TrainRequest) (Handle, error)
	Predict(ctx context.Context, h Handle, dataDir string, split Split) ([]Prediction, error)
	Evaluate(ctx context.Context, h Handle, dataDir string) (Evaluation, error)
	Release(h Handle) error
}

// Factory creates a classifier.
type Factory func() (Classifier, error)
