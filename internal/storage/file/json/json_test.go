package json

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/drakos74/multilang-experiments/internal/storage"
)

func TestStore_RoundTrip(t *testing.T) {

	store := NewStore(t.TempDir())

	predictions := model.NewPredictions("7", model.Dev)
	predictions.Add(model.PredictionRecord{
		ExampleID:     "e1",
		Classes:       []int{2, 0, 1},
		Labels:        []string{"negative", "positive", "neutral"},
		Probabilities: []float64{0.6000000000000001, 0.3, 0.1},
		Prediction:    "negative",
		Probability:   0.6000000000000001,
		TrueLabel:     "positive",
		State:         []float64{0.25, -1e-9},
	})
	predictions.Add(model.PredictionRecord{
		ExampleID:     "e1",
		Classes:       []int{0, 1, 2},
		Labels:        []string{"positive", "neutral", "negative"},
		Probabilities: []float64{1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0},
		Prediction:    "positive",
		Probability:   1.0 / 3.0,
		TrueLabel:     "positive",
	})
	predictions.Add(model.PredictionRecord{
		ExampleID:     "e2",
		Classes:       []int{1, 0},
		Labels:        []string{"1", "0"},
		Probabilities: []float64{0.9, 0.1},
		Prediction:    "1",
		Probability:   0.9,
		TrueLabel:     "0",
	})

	k := storage.Key{
		Experiment: "7",
		Index:      2,
		Run:        "run",
		Label:      string(model.Dev),
	}
	err := store.Store(k, predictions)
	require.NoError(t, err)

	var loaded model.Predictions
	err = store.Load(k, &loaded)
	require.NoError(t, err)

	assert.Equal(t, predictions.ExperimentID, loaded.ExperimentID)
	assert.Equal(t, predictions.Dataset, loaded.Dataset)
	assert.True(t, predictions.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, predictions.Records, loaded.Records)

	err = store.Load(storage.Key{Experiment: "8"}, &loaded)
	assert.True(t, errors.Is(err, storage.NotFoundErr))
}

func TestKey_Path(t *testing.T) {
	k := storage.Key{
		Experiment: "3",
		Index:      1,
		Run:        "abc",
		Label:      "train",
	}
	assert.Equal(t, "3_1_abc_train", k.Path())
}
