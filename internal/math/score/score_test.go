package score

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {

	type test struct {
		yTrue  []int
		yPred  []int
		labels model.LabelMapping
		scores model.Scores
		absent []string
	}

	tests := map[string]test{
		"binary": {
			yTrue:  []int{0, 1, 1, 0},
			yPred:  []int{0, 1, 0, 0},
			labels: model.LabelMapping{0: "neg", 1: "pos"},
			scores: model.Scores{
				"accuracy":           0.75,
				"precision_micro":    0.75,
				"recall_micro":       0.75,
				"f1_micro":           0.75,
				"precision_macro":    5.0 / 6.0,
				"recall_macro":       0.75,
				"precision_weighted": 5.0 / 6.0,
				"precision_neg":      2.0 / 3.0,
				"recall_neg":         1,
				"f1_neg":             0.8,
				"precision_pos":      1,
				"recall_pos":         0.5,
				"f1_pos":             2.0 / 3.0,
				"precision_binary":   1,
				"recall_binary":      0.5,
				"f1_binary":          2.0 / 3.0,
			},
		},
		"multi-class-inferred": {
			yTrue: []int{0, 1, 2, 2},
			yPred: []int{0, 2, 2, 1},
			scores: model.Scores{
				"accuracy":           0.5,
				"precision_0":        1,
				"precision_1":        0,
				"precision_2":        0.5,
				"recall_2":           0.5,
				"f1_2":               0.5,
				"precision_macro":    0.5,
				"precision_weighted": 0.5,
				"recall_micro":       0.5,
			},
			absent: []string{"precision_binary", "recall_binary", "f1_binary"},
		},
		"unseen-class": {
			yTrue:  []int{0, 0},
			yPred:  []int{0, 1},
			labels: model.LabelMapping{0: "a", 1: "b", 2: "c"},
			scores: model.Scores{
				"accuracy":           0.5,
				"precision_a":        1,
				"recall_a":           0.5,
				"precision_c":        0,
				"recall_c":           0,
				"f1_c":               0,
				"precision_weighted": 1,
				"recall_weighted":    0.5,
				"precision_macro":    1.0 / 3.0,
			},
			absent: []string{"f1_binary"},
		},
		"single-class": {
			yTrue: []int{1, 1, 1},
			yPred: []int{1, 1, 1},
			scores: model.Scores{
				"accuracy":         1,
				"precision_1":      1,
				"precision_binary": 1,
				"recall_binary":    1,
				"f1_binary":        1,
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			scores, err := Compute(tt.yTrue, tt.yPred, tt.labels)
			require.NoError(t, err)
			for k, v := range tt.scores {
				actual, ok := scores[k]
				assert.True(t, ok, fmt.Sprintf("missing key %s in %v", k, scores.Keys()))
				assert.InDelta(t, v, actual, 1e-9, k)
			}
			for _, k := range tt.absent {
				_, ok := scores[k]
				assert.False(t, ok, k)
			}
		})
	}
}

func TestCompute_BinaryKeys(t *testing.T) {
	for _, labels := range []model.LabelMapping{
		{0: "negative", 1: "positive"},
		{7: "only"},
		nil,
	} {
		yTrue := []int{0, 1, 0}
		yPred := []int{1, 1, 0}
		if len(labels) == 1 {
			yTrue = []int{7, 7}
			yPred = []int{7, 7}
		}
		scores, err := Compute(yTrue, yPred, labels)
		require.NoError(t, err)
		for _, k := range []string{"accuracy", "precision_binary", "recall_binary", "f1_binary"} {
			_, ok := scores[k]
			assert.True(t, ok, k)
		}
	}
}

func TestCompute_Accuracy(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		n := 1 + r.Intn(100)
		yTrue := make([]int, n)
		yPred := make([]int, n)
		correct := 0
		for j := 0; j < n; j++ {
			yTrue[j] = r.Intn(4)
			yPred[j] = r.Intn(4)
			if yTrue[j] == yPred[j] {
				correct++
			}
		}
		scores, err := Compute(yTrue, yPred, nil)
		require.NoError(t, err)
		assert.InDelta(t, float64(correct)/float64(n), scores["accuracy"], 1e-12)
		// micro averages over a closed label space equal the accuracy
		assert.InDelta(t, scores["accuracy"], scores["precision_micro"], 1e-12)
		assert.InDelta(t, scores["accuracy"], scores["f1_micro"], 1e-12)
	}
}

func TestCompute_InvalidInput(t *testing.T) {

	type test struct {
		yTrue  []int
		yPred  []int
		labels model.LabelMapping
	}

	tests := map[string]test{
		"length-mismatch": {
			yTrue: []int{0, 1},
			yPred: []int{0},
		},
		"empty": {
			yTrue: []int{},
			yPred: []int{},
		},
		"true-not-in-mapping": {
			yTrue:  []int{3},
			yPred:  []int{0},
			labels: model.LabelMapping{0: "a", 1: "b"},
		},
		"pred-not-in-mapping": {
			yTrue:  []int{0},
			yPred:  []int{-1},
			labels: model.LabelMapping{0: "a", 1: "b"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Compute(tt.yTrue, tt.yPred, tt.labels)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput))
		})
	}
}

func TestComputeWith(t *testing.T) {
	scores, err := ComputeWith([]int{0, 1, 2}, []int{0, 1, 1}, nil, Options{
		Metrics:  []Metric{Accuracy, F1},
		Averages: []Average{Macro},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"accuracy", "f1_macro"}, scores.Keys())

	_, err = ComputeWith([]int{0}, []int{0}, nil, Options{
		Metrics:  []Metric{Metric(42)},
		Averages: []Average{Macro},
	})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	_, err = ComputeWith([]int{0, 1, 2}, []int{0, 1, 2}, nil, Options{
		Metrics:  []Metric{Precision},
		Averages: []Average{Average(42)},
	})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestMetric_String(t *testing.T) {
	assert.Equal(t, "accuracy", Accuracy.String())
	assert.Equal(t, "f1", F1.String())
	assert.Equal(t, "none", PerClass.String())
	assert.Equal(t, "binary", Binary.String())
}
