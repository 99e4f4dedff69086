package local

import "fmt"

const (
	ForestBackend = "forest"
	KnnBackend    = "knn"
)

// estimator is a trained model over feature vectors.
type estimator interface {
	// Fit trains the estimator on the feature vectors and their classes.
	Fit(x [][]float64, y []int) error
	// Probabilities returns one probability vector of the given size per feature vector.
	Probabilities(x [][]float64) ([][]float64, error)
}

func newEstimator(cfg Config, classes int, workspace string) (estimator, error) {
	switch cfg.Backend {
	case ForestBackend, "":
		return newForest(cfg.Steps, classes), nil
	case KnnBackend:
		return newKnn(cfg.Neighbours, classes, workspace), nil
	}
	return nil, fmt.Errorf("unknown backend '%s'", cfg.Backend)
}
