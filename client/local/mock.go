package local

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/drakos74/multilang-experiments/client"
	"github.com/drakos74/multilang-experiments/internal/model"
)

// MockClassifier is a deterministic in-memory classifier.
// It records the datasets it was trained on and can fail on chosen datasets.
type MockClassifier struct {
	Labels       []string
	Examples     int
	TrainErr     map[string]error
	PredictErr   map[string]error
	NaN          map[string]bool
	TrainCalls   []string
	ReleaseCalls []string
	PredictCalls int
	mutex        *sync.Mutex
}

// NewMockClassifier creates a new mock classifier
func NewMockClassifier(examples int, labels ...string) *MockClassifier {
	if len(labels) == 0 {
		labels = []string{"positive", "neutral", "negative"}
	}
	return &MockClassifier{
		Labels:       labels,
		Examples:     examples,
		TrainErr:     make(map[string]error),
		PredictErr:   make(map[string]error),
		NaN:          make(map[string]bool),
		TrainCalls:   make([]string, 0),
		ReleaseCalls: make([]string, 0),
		mutex:        new(sync.Mutex),
	}
}

// FailTraining makes every training on the dataset fail.
func (m *MockClassifier) FailTraining(dataset string) *MockClassifier {
	m.TrainErr[dataset] = fmt.Errorf("could not train on '%s'", dataset)
	return m
}

// FailPrediction makes every prediction on the dataset fail.
func (m *MockClassifier) FailPrediction(dataset string) *MockClassifier {
	m.PredictErr[dataset] = fmt.Errorf("could not predict on '%s'", dataset)
	return m
}

// ReturnNaN makes the predictions on the dataset carry a NaN probability.
func (m *MockClassifier) ReturnNaN(dataset string) *MockClassifier {
	m.NaN[dataset] = true
	return m
}

type mockHandle struct {
	dataset   string
	labels    model.LabelMapping
	workspace string
	released  bool
}

func (h *mockHandle) Dataset() string {
	return h.dataset
}

func (h *mockHandle) Labels() model.LabelMapping {
	return h.labels
}

func (h *mockHandle) Workspace() string {
	return h.workspace
}

func (m *MockClassifier) Name() string {
	return "mock"
}

func (m *MockClassifier) Train(ctx context.Context, req client.TrainRequest) (client.Handle, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.TrainCalls = append(m.TrainCalls, req.Dataset)
	if err, ok := m.TrainErr[req.Dataset]; ok {
		return nil, model.Wrap(model.ErrExternalCapability, err, "mock training")
	}
	return &mockHandle{
		dataset:   req.Dataset,
		labels:    model.NewLabelMapping(m.Labels...),
		workspace: req.Workspace,
	}, nil
}

// Predict returns one prediction per example.
// Every third example is predicted wrong.
func (m *MockClassifier) Predict(ctx context.Context, h client.Handle, dataDir string, split client.Split) ([]client.Prediction, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.PredictCalls++
	mh, ok := h.(*mockHandle)
	if !ok || mh.released {
		return nil, model.Errorf(model.ErrExternalCapability, "invalid handle %v", h)
	}
	dataset := filepath.Base(dataDir)
	if err, ok := m.PredictErr[dataset]; ok {
		return nil, model.Wrap(model.ErrExternalCapability, err, "mock prediction")
	}
	k := len(m.Labels)
	predictions := make([]client.Prediction, m.Examples)
	for i := range predictions {
		label := i % k
		predicted := label
		if i%3 == 2 {
			predicted = (label + 1) % k
		}
		p := make([]float64, k)
		for j := range p {
			p[j] = 0.1 / float64(k-1)
		}
		p[predicted] = 0.9
		if m.NaN[dataset] {
			p[(predicted+1)%k] = math.NaN()
		}
		predictions[i] = client.Prediction{
			ExampleID:     fmt.Sprintf("%s-%d", split, i),
			Label:         label,
			Probabilities: p,
			State:         []float64{float64(i)},
		}
	}
	return predictions, nil
}

func (m *MockClassifier) Evaluate(ctx context.Context, h client.Handle, dataDir string) (client.Evaluation, error) {
	return client.Evaluation{
		Loss:     0.5,
		EvalLoss: 0.7,
	}, nil
}

func (m *MockClassifier) Release(h client.Handle) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	mh, ok := h.(*mockHandle)
	if !ok {
		return fmt.Errorf("invalid handle %v", h)
	}
	mh.released = true
	m.ReleaseCalls = append(m.ReleaseCalls, mh.dataset)
	return nil
}
