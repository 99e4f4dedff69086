package local

import (
	"fmt"

	randomforest "github.com/malaschitz/randomForest"

	"github.com/drakos74/multilang-experiments/internal/math"
)

// Forest is a random forest estimator, voting for the class probabilities.
type Forest struct {
	trees   int
	classes int
	forest  *randomforest.Forest
}

func newForest(trees int, classes int) *Forest {
	if trees <= 0 {
		trees = 1
	}
	return &Forest{
		trees:   trees,
		classes: classes,
	}
}

func (f *Forest) Fit(x [][]float64, y []int) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("cannot fit forest on %d vectors and %d classes", len(x), len(y))
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: x, Class: y}
	forest.Train(f.trees)
	f.forest = forest
	return nil
}

func (f *Forest) Probabilities(x [][]float64) ([][]float64, error) {
	if f.forest == nil {
		return nil, fmt.Errorf("forest is not trained")
	}
	pp := make([][]float64, len(x))
	for i, v := range x {
		// the vote only covers the classes seen during training
		p := make([]float64, f.classes)
		copy(p, f.forest.Vote(v))
		pp[i] = math.Normalize(p)
	}
	return pp, nil
}
